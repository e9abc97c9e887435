package account

import (
	"net/http"
	"time"
	"wagondepot/bizerror"
	"wagondepot/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var PathSessions = "/v1/sessions"

func RegisterSessionsRestAPI(r *gin.Engine) {
	g := r.Group(PathSessions)
	g.POST("", handleLogin)
	g.DELETE("", handleLogout)
}

func handleLogin(c *gin.Context) {
	login := session.LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	securityContext, err := SignFunc(login.Name, login.Password)
	if err != nil {
		panic(err)
	}

	c.SetCookie(session.KeySecToken, securityContext.Token, int(session.TokenExpiration/time.Second), "/", "", false, false)
	c.JSON(http.StatusOK, securityContext)
}

func handleLogout(c *gin.Context) {
	token := session.ExtractToken(c)
	if token != "" {
		session.TokenCache.Delete(token)
	}
	c.SetCookie(session.KeySecToken, "", -1, "/", "", false, false)
	c.AbortWithStatus(http.StatusNoContent)
}
