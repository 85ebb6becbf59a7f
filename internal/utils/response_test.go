package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    bool
	}{
		{"inertia", map[string]string{"X-Inertia": "true"}, true},
		{"accept json", map[string]string{"Accept": "application/json"}, true},
		{"vendor json", map[string]string{"Accept": "application/vnd.api+json"}, true},
		{"browser", map[string]string{"Accept": "text/html,application/xhtml+xml"}, false},
		{"none", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			if got := WantsJSON(c); got != tt.want {
				t.Errorf("WantsJSON = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidationFailedCarriesFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ValidationFailed(c, "参数校验失败", map[string]string{"content": "至少 10 个字符"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var body Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Errors["content"] == "" {
		t.Errorf("body = %+v", body)
	}
}
