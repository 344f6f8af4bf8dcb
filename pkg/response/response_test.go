package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_WritesEnvelopeAndAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/users/1", nil)
	c.Set("request_id", "req-1")

	Error(c, http.StatusNotFound, "", map[string]string{"userId": "not found"})

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body APIResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, body.Status)
	assert.Equal(t, "Not Found", body.Message)
	assert.Equal(t, "req-1", body.RequestID)
	assert.False(t, body.Success)
	assert.Equal(t, map[string]any{"userId": "not found"}, body.Error)
}
