package costsheet

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
	PathCostSheets = "/v1/cost-sheets"
)

func RegisterCostSheetsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathCostSheets, middleWares...)
	g.GET("", handleQuery)
	g.POST("", handleCreate)
	g.GET(":id", handleDetail)
	g.PUT(":id", handleUpdate)
	g.DELETE(":id", handleDelete)
}

func handleQuery(c *gin.Context) {
	sheets, err := QueryCostSheetsFunc()
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &misc.PagedBody{List: sheets, Total: uint64(len(sheets))})
}

func handleCreate(c *gin.Context) {
	creation := CostSheetCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	sheet, err := CreateCostSheetFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, sheet)
}

func handleDetail(c *gin.Context) {
	sheet, err := DetailCostSheetFunc(parseId(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, sheet)
}

func handleUpdate(c *gin.Context) {
	updating := CostSheetCreation{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	sheet, err := UpdateCostSheetFunc(parseId(c), &updating, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, sheet)
}

func handleDelete(c *gin.Context) {
	sheet, err := DeleteCostSheetFunc(parseId(c), session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, sheet)
}

func parseId(c *gin.Context) types.ID {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}
	return parsedId
}
