package account

import (
	"net/http"
	"wagondepot/bizerror"
	"wagondepot/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathUsers            = "/v1/users"
	PathSessionUserAuths = "/v1/session-users/basic-auths"
)

func RegisterUsersRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	r.POST(PathUsers, handleRegisterUser)

	g := r.Group(PathUsers, middleWares...)
	g.GET("", handleQueryUsers)

	s := r.Group(PathSessionUserAuths, middleWares...)
	s.PUT("", handleUpdateBasicAuth)
}

func handleRegisterUser(c *gin.Context) {
	creation := UserCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	securityContext, err := RegisterUserFunc(&creation)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, securityContext)
}

func handleQueryUsers(c *gin.Context) {
	users, err := QueryUsersFunc(session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, users)
}

func handleUpdateBasicAuth(c *gin.Context) {
	updating := BasicAuthUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := UpdateBasicAuthSecretFunc(&updating, session.FindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
