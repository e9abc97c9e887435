package wagon

import (
	"errors"
	"net/http"
	"wagondepot/bizerror"
	"wagondepot/misc"
	"wagondepot/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathWagonRecords = "/v1/wagon-records"
)

func RegisterWagonRecordsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathWagonRecords, middleWares...)
	g.GET("", handleQuery)
	g.POST("", handleCreate)
	g.GET(":id", handleDetail)
	g.PUT(":id", handleUpdate)
	g.DELETE(":id", handleDelete)
	g.PUT(":id/status", handleOverrideStatus)
}

func handleQuery(c *gin.Context) {
	records, err := QueryWagonRecordsFunc()
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: records, Total: uint64(len(records))})
}

func handleCreate(c *gin.Context) {
	creation := WagonRecordCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := CreateWagonRecordFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleDetail(c *gin.Context) {
	record, err := DetailWagonRecordFunc(parseId(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleUpdate(c *gin.Context) {
	updating := WagonRecordUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := UpdateWagonRecordFunc(parseId(c), &updating, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleOverrideStatus(c *gin.Context) {
	overriding := StatusOverriding{}
	if err := c.ShouldBindBodyWith(&overriding, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := OverrideWagonStatusFunc(parseId(c), &overriding, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDelete(c *gin.Context) {
	record, err := DeleteWagonRecordFunc(parseId(c), session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func parseId(c *gin.Context) types.ID {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return parsedId
}
