package router

import (
	_ "embed"
	"encoding/gob"
	"html/template"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/user/streamflix/internal/handler"
	"github.com/user/streamflix/internal/middleware"
	"github.com/user/streamflix/internal/model"
)

//go:embed templates/app.html
var appTemplate string

// AssetsDir 前端构建产物目录
const AssetsDir = "./public/build"

// New 创建 Gin 引擎，装配中间件、模板与路由
func New(h *handler.Handler) *gin.Engine {
	// 注册 Session 中保存的类型
	gob.Register(model.SessionUser{})
	gob.Register(map[string]string{})

	cfg := h.Config
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.Security(cfg.IsProduction()))
	r.Use(middleware.CORS(cfg.SiteUrl))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	store := cookie.NewStore([]byte(cfg.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 天
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("streamflix_session", store))
	r.Use(middleware.OptionalAuth(cfg.AppSecret))

	r.HTMLRender = LoadTemplates()
	r.Static("/build", AssetsDir)

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	r.GET("/health-check", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ==================== 公开页面 ====================
	r.GET("/", h.Home)
	r.GET("/search", h.Search)
	r.GET("/movies", h.MovieIndex)
	r.GET("/movies/:id", h.MovieShow)

	// ==================== 认证 ====================
	auth := r.Group("/auth")
	{
		auth.GET("/login", h.LoginPage)
		auth.POST("/login", h.Login)
		auth.GET("/register", h.RegisterPage)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
	}

	// ==================== 需要登录 ====================
	user := r.Group("")
	user.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		user.POST("/movies", h.MovieStore)
		user.POST("/movies/:id/comments", h.StoreComment)
		user.GET("/watchlist", h.Watchlist)
	}

	r.NoRoute(h.NotFound)
}

// LoadTemplates 使用 multitemplate 注册页面外壳
func LoadTemplates() multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	funcMap := template.FuncMap{
		"asset": func(name string) string {
			return "/build/" + name
		},
	}
	r.AddFromStringsFuncs(handler.AppTemplate, funcMap, appTemplate)
	return r
}
