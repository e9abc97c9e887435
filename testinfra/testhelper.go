package testinfra

import (
	"net/http"
	"net/http/httptest"
	"wagondepot/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// BuildSecCtx builds a signed-in security context for tests.
func BuildSecCtx(uid types.ID, name string) *session.Context {
	return &session.Context{Token: "test-token", Identity: session.Identity{ID: uid, Name: name}}
}

// ExecuteRequest runs the request against the router in-process and returns
// the response status, body and recorder.
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code, w.Body.String(), w
}
