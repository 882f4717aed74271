package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	original := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = original })

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/orders/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/7", nil))

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Contains(t, buf.String(), `"path":"/orders/:id"`)
		assert.Contains(t, buf.String(), `"status":404`)
		assert.Contains(t, buf.String(), `"level":"warn"`)
	})

	t.Run("reuses caller request id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/orders/7", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
		assert.Contains(t, buf.String(), `"request_id":"req-42"`)
	})
}
