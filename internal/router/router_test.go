package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/user/streamflix/internal/config"
	"github.com/user/streamflix/internal/handler"
	"github.com/user/streamflix/internal/middleware"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
	"github.com/user/streamflix/internal/utils"
)

const testSecret = "router-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	engine *gin.Engine
	repos  *repository.Repositories
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repos := repository.NewRepositories(db)

	cfg := &config.Config{
		Env:          "test",
		AppSecret:    testSecret,
		JWTExpiry:    time.Hour,
		SiteName:     "Streamflix",
		SiteUrl:      "http://localhost:8000",
		HomeCacheTTL: time.Minute,
	}
	h := handler.NewHandler(repos, cfg, utils.NewLayeredCache(nil, "test:home:", time.Minute))
	return &testApp{engine: New(h), repos: repos}
}

func (a *testApp) movie(t *testing.T, title string, active bool) *model.Movie {
	t.Helper()
	m := &model.Movie{Title: title, IsActive: active}
	if err := a.repos.Movie.Create(m); err != nil {
		t.Fatalf("create movie: %v", err)
	}
	return m
}

func (a *testApp) token(t *testing.T, email string) string {
	t.Helper()
	u := &model.User{Email: email, Username: "viewer"}
	if err := a.repos.User.Create(u, "secret123"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := middleware.GenerateToken(u.ID, u.Email, u.Role, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path, body, token string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)
	w := app.do(httptest.NewRequest(http.MethodGet, "/health-check", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	if _, err := time.Parse(time.RFC3339, body["timestamp"].(string)); err != nil {
		t.Errorf("timestamp not RFC3339: %v", err)
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestHomeReturnsPageObjectForPageVisits(t *testing.T) {
	app := newTestApp(t)
	app.movie(t, "Heat", true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Inertia", "true")
	w := app.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	page := decode(t, w)
	if page["component"] != "welcome" {
		t.Errorf("component = %v", page["component"])
	}
	if page["url"] != "/" {
		t.Errorf("url = %v", page["url"])
	}
	props := page["props"].(map[string]interface{})
	for _, key := range []string{"heroMovie", "latestMovies", "popularMovies", "moviesByGenres", "continueWatching", "genres", "heroAds", "sidebarAds", "siteName", "auth"} {
		if _, ok := props[key]; !ok {
			t.Errorf("missing prop %q", key)
		}
	}
	if cw := props["continueWatching"].([]interface{}); len(cw) != 0 {
		t.Errorf("anonymous continueWatching = %v", cw)
	}
}

func TestBrowserGetsHTMLShell(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/movies", nil)
	req.Header.Set("Accept", "text/html")
	w := app.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `id="app"`) || !strings.Contains(body, "data-page=") {
		t.Errorf("shell missing app root: %s", body)
	}
	if !strings.Contains(body, "movies/index") {
		t.Errorf("shell missing component name: %s", body)
	}
}

func TestMovieIndexPaginates(t *testing.T) {
	app := newTestApp(t)
	app.movie(t, "Alien", true)
	app.movie(t, "Blade Runner", true)
	app.movie(t, "Hidden", false)

	w := app.do(jsonRequest(http.MethodGet, "/movies?search=a&sort=title", "", ""))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	props := decode(t, w)["props"].(map[string]interface{})
	movies := props["movies"].(map[string]interface{})
	if movies["total"].(float64) != 2 {
		t.Errorf("total = %v, want 2", movies["total"])
	}
	data := movies["data"].([]interface{})
	if first := data[0].(map[string]interface{}); first["title"] != "Alien" {
		t.Errorf("first = %v, want Alien", first["title"])
	}
}

func TestMovieShowHidesInactive(t *testing.T) {
	app := newTestApp(t)
	hidden := app.movie(t, "Hidden", false)

	for _, path := range []string{"/movies/" + strconv.Itoa(hidden.ID), "/movies/999", "/movies/abc", "/no-such-page"} {
		w := app.do(jsonRequest(http.MethodGet, path, "", ""))
		if w.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", path, w.Code)
		}
	}
}

func TestMovieShowReportsWatchState(t *testing.T) {
	app := newTestApp(t)
	m := app.movie(t, "Heat", true)
	token := app.token(t, "viewer@example.com")

	w := app.do(jsonRequest(http.MethodPost, "/movies", `{"movie_id":`+strconv.Itoa(m.ID)+`,"action":"add_to_watchlist"}`, token))
	if w.Code != http.StatusOK {
		t.Fatalf("add: status = %d, body = %s", w.Code, w.Body.String())
	}

	w = app.do(jsonRequest(http.MethodGet, "/movies/"+strconv.Itoa(m.ID), "", token))
	if w.Code != http.StatusOK {
		t.Fatalf("show: status = %d", w.Code)
	}
	props := decode(t, w)["props"].(map[string]interface{})
	if props["isInWatchlist"] != true {
		t.Errorf("isInWatchlist = %v", props["isInWatchlist"])
	}
	if props["watchHistory"] != nil {
		t.Errorf("watchHistory = %v, want null", props["watchHistory"])
	}
}

func TestMovieStoreRequiresLogin(t *testing.T) {
	app := newTestApp(t)
	m := app.movie(t, "Heat", true)

	w := app.do(jsonRequest(http.MethodPost, "/movies", `{"movie_id":`+strconv.Itoa(m.ID)+`,"action":"add_to_watchlist"}`, ""))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestUpdateProgressRecordsCompletion(t *testing.T) {
	app := newTestApp(t)
	m := app.movie(t, "Heat", true)
	token := app.token(t, "viewer@example.com")

	body := `{"movie_id":` + strconv.Itoa(m.ID) + `,"action":"update_progress","progress":5400,"duration":6000}`
	w := app.do(jsonRequest(http.MethodPost, "/movies", body, token))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	data := decode(t, w)["data"].(map[string]interface{})
	history := data["watchHistory"].(map[string]interface{})
	if history["completed"] != true {
		t.Errorf("completed = %v, want true", history["completed"])
	}

	// 再次上报只更新同一条记录
	body = `{"movie_id":` + strconv.Itoa(m.ID) + `,"action":"update_progress","progress":100,"duration":6000}`
	if w := app.do(jsonRequest(http.MethodPost, "/movies", body, token)); w.Code != http.StatusOK {
		t.Fatalf("second update: status = %d", w.Code)
	}
	var count int64
	app.repos.DB.Model(&model.WatchHistory{}).Count(&count)
	if count != 1 {
		t.Errorf("history rows = %d, want 1", count)
	}
}

func TestMovieStoreValidation(t *testing.T) {
	app := newTestApp(t)
	m := app.movie(t, "Heat", true)
	token := app.token(t, "viewer@example.com")

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"unknown action", `{"movie_id":` + strconv.Itoa(m.ID) + `,"action":"rate"}`, http.StatusBadRequest, "action"},
		{"missing movie", `{"action":"add_to_watchlist"}`, http.StatusBadRequest, "movie_id"},
		{"missing progress", `{"movie_id":` + strconv.Itoa(m.ID) + `,"action":"update_progress","duration":10}`, http.StatusBadRequest, "progress"},
		{"negative progress", `{"movie_id":` + strconv.Itoa(m.ID) + `,"action":"update_progress","progress":-1,"duration":10}`, http.StatusBadRequest, "progress"},
		{"unknown movie", `{"movie_id":999,"action":"add_to_watchlist"}`, http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(jsonRequest(http.MethodPost, "/movies", tt.body, token))
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.status, w.Body.String())
			}
			if tt.field == "" {
				return
			}
			errs := decode(t, w)["errors"].(map[string]interface{})
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("errors = %v, want field %q", errs, tt.field)
			}
		})
	}
}

func TestWatchlistAddIsIdempotent(t *testing.T) {
	app := newTestApp(t)
	m := app.movie(t, "Heat", true)
	token := app.token(t, "viewer@example.com")

	body := `{"movie_id":` + strconv.Itoa(m.ID) + `,"action":"add_to_watchlist"}`
	for i := 0; i < 2; i++ {
		if w := app.do(jsonRequest(http.MethodPost, "/movies", body, token)); w.Code != http.StatusOK {
			t.Fatalf("add #%d: status = %d", i, w.Code)
		}
	}

	w := app.do(jsonRequest(http.MethodGet, "/watchlist", "", token))
	if w.Code != http.StatusOK {
		t.Fatalf("watchlist: status = %d", w.Code)
	}
	items := decode(t, w)["props"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Errorf("items = %d, want 1", len(items))
	}
	if total := decode(t, w)["props"].(map[string]interface{})["total"]; total != float64(1) {
		t.Errorf("total = %v, want 1", total)
	}

	body = `{"movie_id":` + strconv.Itoa(m.ID) + `,"action":"remove_from_watchlist"}`
	for i := 0; i < 2; i++ {
		if w := app.do(jsonRequest(http.MethodPost, "/movies", body, token)); w.Code != http.StatusOK {
			t.Fatalf("remove #%d: status = %d", i, w.Code)
		}
	}
}

func TestStoreCommentValidatesContent(t *testing.T) {
	app := newTestApp(t)
	m := app.movie(t, "Heat", true)
	token := app.token(t, "viewer@example.com")
	path := "/movies/" + strconv.Itoa(m.ID) + "/comments"

	w := app.do(jsonRequest(http.MethodPost, path, `{"content":"123456789","rating":4}`, token))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short content: status = %d", w.Code)
	}
	errs := decode(t, w)["errors"].(map[string]interface{})
	if _, ok := errs["content"]; !ok {
		t.Errorf("errors = %v, want content", errs)
	}

	w = app.do(jsonRequest(http.MethodPost, path, `{"content":"A tense and stylish crime epic.","rating":4.5}`, token))
	if w.Code != http.StatusOK {
		t.Fatalf("valid comment: status = %d, body = %s", w.Code, w.Body.String())
	}

	w = app.do(jsonRequest(http.MethodGet, "/movies/"+strconv.Itoa(m.ID), "", ""))
	props := decode(t, w)["props"].(map[string]interface{})
	if comments := props["comments"].([]interface{}); len(comments) != 1 {
		t.Errorf("comments = %d, want 1", len(comments))
	}
	if props["commentCount"] != float64(1) {
		t.Errorf("commentCount = %v, want 1", props["commentCount"])
	}
}

func TestRemoveMissingMovieFromWatchlist(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "viewer@example.com")

	w := app.do(jsonRequest(http.MethodPost, "/movies", `{"movie_id":9999,"action":"remove_from_watchlist"}`, token))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404, body = %s", w.Code, w.Body.String())
	}
}

func TestFormSubmissionRedirectsWithFlash(t *testing.T) {
	app := newTestApp(t)
	m := app.movie(t, "Heat", true)
	token := app.token(t, "viewer@example.com")

	form := url.Values{"movie_id": {strconv.Itoa(m.ID)}, "action": {"add_to_watchlist"}}
	req := httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "http://example.com/movies/"+strconv.Itoa(m.ID))
	req.Host = "example.com"
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	w := app.do(req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/movies/"+strconv.Itoa(m.ID) {
		t.Errorf("Location = %q", loc)
	}

	// 跳转后的页面带出一次性提示
	next := httptest.NewRequest(http.MethodGet, "/movies/"+strconv.Itoa(m.ID), nil)
	next.Header.Set("X-Inertia", "true")
	for _, ck := range w.Result().Cookies() {
		next.AddCookie(ck)
	}
	props := decode(t, app.do(next))["props"].(map[string]interface{})
	flash := props["flash"].(map[string]interface{})
	if flash["success"] != "已加入片单" {
		t.Errorf("flash = %v", flash)
	}
}

func TestForeignRefererFallsBackHome(t *testing.T) {
	app := newTestApp(t)
	m := app.movie(t, "Heat", true)
	token := app.token(t, "viewer@example.com")

	form := url.Values{"movie_id": {strconv.Itoa(m.ID)}, "action": {"add_to_watchlist"}}
	req := httptest.NewRequest(http.MethodPost, "/movies", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "https://evil.example.net/phish")
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	w := app.do(req)

	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}
}

func TestLoginRejectsOffsiteRedirect(t *testing.T) {
	app := newTestApp(t)
	app.token(t, "viewer@example.com")

	cases := map[string]string{
		`/\evil.example`:   "/",
		"//evil.example":    "/",
		"https://evil.test": "/",
		"/watchlist?page=2": "/watchlist?page=2",
	}
	for target, want := range cases {
		form := url.Values{"email": {"viewer@example.com"}, "password": {"secret123"}, "redirect": {target}}
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := app.do(req)

		if w.Code != http.StatusSeeOther {
			t.Fatalf("%q: status = %d, want 303", target, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != want {
			t.Errorf("%q: Location = %q, want %q", target, loc, want)
		}
	}
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)

	w := app.do(jsonRequest(http.MethodPost, "/auth/register",
		`{"email":"New@Example.com","password":"secret123","confirm_password":"secret123"}`, ""))
	if w.Code != http.StatusOK {
		t.Fatalf("register: status = %d, body = %s", w.Code, w.Body.String())
	}
	user := decode(t, w)["data"].(map[string]interface{})["user"].(map[string]interface{})
	if user["email"] != "new@example.com" || user["role"] != model.RoleBasic {
		t.Errorf("user = %v", user)
	}

	// 重复注册
	w = app.do(jsonRequest(http.MethodPost, "/auth/register",
		`{"email":"new@example.com","password":"secret123"}`, ""))
	if w.Code != http.StatusBadRequest {
		t.Errorf("duplicate register: status = %d, want 400", w.Code)
	}

	w = app.do(jsonRequest(http.MethodPost, "/auth/login", `{"email":"new@example.com","password":"wrong-pass"}`, ""))
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad password: status = %d, want 400", w.Code)
	}

	w = app.do(jsonRequest(http.MethodPost, "/auth/login", `{"email":"new@example.com","password":"secret123"}`, ""))
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d", w.Code)
	}
	token := decode(t, w)["data"].(map[string]interface{})["token"].(string)

	w = app.do(jsonRequest(http.MethodGet, "/watchlist", "", token))
	if w.Code != http.StatusOK {
		t.Errorf("watchlist with fresh token: status = %d", w.Code)
	}
}

func TestProtectedPageRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/watchlist", nil)
	req.Header.Set("Accept", "text/html")
	w := app.do(req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/auth/login?redirect=%2Fwatchlist" {
		t.Errorf("Location = %q", loc)
	}
}
