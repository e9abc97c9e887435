package attachment

import (
	"errors"
	"net/http"
	"wagondepot/bizerror"
	"wagondepot/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

var (
	PathAttachments = "/v1/attachments"
)

func RegisterAttachmentsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathAttachments, middleWares...)
	g.POST("", handleUpload)
	g.GET(":wagonNumber", handleDownloadLatest)
	g.GET(":wagonNumber/exist", handleExist)
	g.DELETE(":id", handleDelete)
}

func handleUpload(c *gin.Context) {
	wagonNumber := c.PostForm("wagonNumber")
	if wagonNumber == "" {
		panic(&bizerror.ErrBadParam{Cause: errors.New("wagonNumber is required")})
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	f, err := fileHeader.Open()
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	defer f.Close()

	record, err := SaveAttachmentFunc(wagonNumber, fileHeader.Filename, f, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func handleDownloadLatest(c *gin.Context) {
	record, r, err := LatestAttachmentFunc(c.Param("wagonNumber"))
	if err != nil {
		panic(err)
	}
	defer r.Close()

	c.Header("Content-Disposition", `attachment; filename="`+record.OriginalName+`"`)
	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", r, nil)
}

func handleExist(c *gin.Context) {
	exists, err := AttachmentExistsFunc(c.Param("wagonNumber"))
	if err != nil {
		panic(err)
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"exists": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": true})
}

func handleDelete(c *gin.Context) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	if err := DeleteAttachmentFunc(parsedId, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
