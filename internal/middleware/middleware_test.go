package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "request_id": GetRequestID(c)})
	})
	return r
}

func TestRequireAuthRejectsAnonymousAPI(t *testing.T) {
	r := newRouter(RequireAuth(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthRedirectsPages(t *testing.T) {
	r := newRouter(RequireAuth(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/auth/login?redirect=%2Fme" {
		t.Errorf("Location = %q", loc)
	}
}

func TestRequireAuthAcceptsCookieAndBearer(t *testing.T) {
	r := newRouter(RequireAuth(testSecret))
	token, err := GenerateToken(42, "a@b.com", "basic", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	cookieReq := httptest.NewRequest(http.MethodGet, "/me", nil)
	cookieReq.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	bearerReq := httptest.NewRequest(http.MethodGet, "/me", nil)
	bearerReq.Header.Set("Authorization", "Bearer "+token)

	for name, req := range map[string]*http.Request{"cookie": cookieReq, "bearer": bearerReq} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d", name, w.Code)
		}
	}
}

func TestRequireAuthRejectsForeignSignature(t *testing.T) {
	r := newRouter(RequireAuth(testSecret))
	token, _ := GenerateToken(42, "a@b.com", "basic", "other-secret", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	seen := -1
	r := gin.New()
	r.Use(OptionalAuth(testSecret))
	r.GET("/", func(c *gin.Context) {
		seen = GetUserID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK || seen != 0 {
		t.Errorf("status = %d, user = %d", w.Code, seen)
	}
}

func TestShouldRefresh(t *testing.T) {
	now := time.Now()
	fresh := &Claims{}
	fresh.IssuedAt = jwtTime(now.Add(-time.Minute))
	fresh.ExpiresAt = jwtTime(now.Add(time.Hour))
	if shouldRefresh(fresh) {
		t.Error("fresh token should not be refreshed")
	}

	stale := &Claims{}
	stale.IssuedAt = jwtTime(now.Add(-50 * time.Minute))
	stale.ExpiresAt = jwtTime(now.Add(10 * time.Minute))
	if !shouldRefresh(stale) {
		t.Error("token past half-life should be refreshed")
	}
}

func TestRequestIDGeneratesAndPreserves(t *testing.T) {
	r := newRouter(RequestID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if _, err := uuid.Parse(w.Header().Get(RequestIDHeader)); err != nil {
		t.Errorf("generated id is not a uuid: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(RequestIDHeader); got != "upstream-id" {
		t.Errorf("X-Request-ID = %q, want upstream-id", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := newRouter(Security(true))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	for header, want := range map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS missing in production")
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS("https://streamflix.example/"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://streamflix.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://streamflix.example" {
		t.Errorf("Allow-Origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("foreign origin must not be allowed")
	}
}

func jwtTime(t time.Time) *jwt.NumericDate {
	return jwt.NewNumericDate(t)
}
