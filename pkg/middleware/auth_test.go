package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/probe", ActorMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor": c.GetInt64(ActorKey)})
	})
	return router
}

func TestActorMiddleware(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Actor-ID", "7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"actor":7}`, w.Body.String())
}

func TestActorMiddlewareRejectsMissingHeader(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestActorMiddlewareRejectsGarbageHeader(t *testing.T) {
	router := testRouter()

	for _, value := range []string{"zero", "-4", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("X-Actor-ID", value)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", value)
	}
}
