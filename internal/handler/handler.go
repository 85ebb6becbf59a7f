package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/user/streamflix/internal/config"
	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/middleware"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
	"github.com/user/streamflix/internal/service"
	"github.com/user/streamflix/internal/utils"
)

// AppTemplate HTML 外壳模板名
const AppTemplate = "app.html"

// Handler HTTP 处理器
type Handler struct {
	Repos            *repository.Repositories
	Config           *config.Config
	ProgressTracker  *service.ProgressTracker
	WatchlistService *service.WatchlistService
	CommentService   *service.CommentService
	CatalogService   *service.CatalogService
	HomeService      *service.HomeService
	AccountService   *service.AccountService
}

var bindingOnce sync.Once

// NewHandler 创建处理器；homeCache 为首页共享内容缓存
func NewHandler(repos *repository.Repositories, cfg *config.Config, homeCache *utils.LayeredCache) *Handler {
	bindingOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(func(f reflect.StructField) string { return service.FieldName(f) })
		}
	})

	progress := service.NewProgressTracker(repos)
	return &Handler{
		Repos:            repos,
		Config:           cfg,
		ProgressTracker:  progress,
		WatchlistService: service.NewWatchlistService(repos),
		CommentService:   service.NewCommentService(repos),
		CatalogService:   service.NewCatalogService(repos),
		HomeService:      service.NewHomeService(repos, progress, homeCache),
		AccountService:   service.NewAccountService(repos),
	}
}

// Page 页面对象：前端按 component 选择页面组件
type Page struct {
	Component string `json:"component"`
	Props     gin.H  `json:"props"`
	URL       string `json:"url"`
}

// sharedProps 每个页面都带的数据：站点信息、当前用户、一次性提示
func (h *Handler) sharedProps(c *gin.Context) gin.H {
	props := gin.H{
		"siteName": h.Config.SiteName,
		"siteUrl":  h.Config.SiteUrl,
		"auth":     gin.H{"user": nil},
		"flash":    gin.H{},
	}

	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil && middleware.GetUserID(c) > 0 {
		if su, ok := userinfo.(model.SessionUser); ok {
			props["auth"] = gin.H{"user": su}
		}
	}

	flash := gin.H{}
	for _, key := range []string{"success", "error"} {
		if msgs := session.Flashes(key); len(msgs) > 0 {
			flash[key] = msgs[len(msgs)-1]
		}
	}
	if errs := session.Flashes("errors"); len(errs) > 0 {
		flash["errors"] = errs[len(errs)-1]
	}
	if len(flash) > 0 {
		props["flash"] = flash
		_ = session.Save()
	}
	return props
}

// render 渲染页面：JSON 客户端直接返回页面对象，浏览器返回嵌入页面对象的 HTML 外壳
func (h *Handler) render(c *gin.Context, status int, component string, props gin.H) {
	merged := h.sharedProps(c)
	for k, v := range props {
		merged[k] = v
	}
	page := Page{
		Component: component,
		Props:     merged,
		URL:       c.Request.URL.RequestURI(),
	}

	c.Header("Vary", "X-Inertia")
	if utils.WantsJSON(c) {
		c.Header("X-Inertia", "true")
		c.JSON(status, page)
		return
	}

	data, err := json.Marshal(page)
	if err != nil {
		logging.Error().Err(err).Str("component", component).Msg("[Render] 序列化页面失败")
		c.String(http.StatusInternalServerError, "服务器内部错误")
		return
	}
	c.HTML(status, AppTemplate, gin.H{
		"Title": h.Config.SiteName,
		"Page":  string(data),
	})
}

// back 变更成功：JSON 客户端返回结果，浏览器写入提示并跳回来源页
func (h *Handler) back(c *gin.Context, message string, data interface{}) {
	if utils.WantsJSON(c) {
		utils.SuccessWithMessage(c, message, data)
		return
	}
	session := sessions.Default(c)
	session.AddFlash(message, "success")
	_ = session.Save()
	c.Redirect(http.StatusSeeOther, backURL(c, "/"))
}

// backURL 来源页，只接受本站地址
func backURL(c *gin.Context, fallback string) string {
	referer := c.Request.Referer()
	if referer == "" {
		return fallback
	}
	ref, err := url.Parse(referer)
	if err != nil {
		return fallback
	}
	if ref.Host != "" && ref.Host != c.Request.Host {
		return fallback
	}
	if path, ok := localPath(ref.RequestURI()); ok {
		return path
	}
	return fallback
}

// localPath 站内绝对路径：无协议、无主机、不含反斜杠，且不以 "//" 开头
func localPath(raw string) (string, bool) {
	if !strings.HasPrefix(raw, "/") || strings.ContainsRune(raw, '\\') {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "", false
	}
	path := u.RequestURI()
	if strings.HasPrefix(path, "//") {
		return "", false
	}
	return path, true
}

// fail 把服务层错误映射为响应
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		if utils.WantsJSON(c) {
			utils.ValidationFailed(c, service.ErrValidation.Error(), verr.Fields)
			return
		}
		session := sessions.Default(c)
		session.AddFlash(service.ErrValidation.Error(), "error")
		session.AddFlash(verr.Fields, "errors")
		_ = session.Save()
		c.Redirect(http.StatusSeeOther, backURL(c, "/"))

	case errors.Is(err, service.ErrNotFound):
		if utils.WantsJSON(c) {
			utils.NotFound(c, err.Error())
			return
		}
		h.render(c, http.StatusNotFound, "errors/404", gin.H{"message": err.Error()})

	case errors.Is(err, service.ErrUnauthenticated):
		utils.Unauthorized(c, "")

	default:
		logging.Error().Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("[Handler] 请求处理失败")
		utils.InternalServerError(c, "")
	}
}

// Home 首页
func (h *Handler) Home(c *gin.Context) {
	page, err := h.HomeService.Build(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "welcome", gin.H{
		"heroMovie":        page.HeroMovie,
		"latestMovies":     page.LatestMovies,
		"popularMovies":    page.PopularMovies,
		"moviesByGenres":   page.MoviesByGenres,
		"continueWatching": page.ContinueWatching,
		"genres":           page.Genres,
		"heroAds":          page.HeroAds,
		"sidebarAds":       page.SidebarAds,
	})
}

// Search 搜索页
func (h *Handler) Search(c *gin.Context) {
	var q service.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, service.AsValidationError(err))
		return
	}

	res, err := h.CatalogService.Search(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	genres, err := h.CatalogService.Genres()
	if err != nil {
		h.fail(c, err)
		return
	}

	typ := q.Type
	if typ == "" {
		typ = service.SearchAll
	}
	h.render(c, http.StatusOK, "search", gin.H{
		"query":        q.Q,
		"movies":       res.Movies,
		"series":       res.Series,
		"genres":       genres,
		"totalResults": res.TotalResults,
		"filters": gin.H{
			"genre":  q.Genre,
			"year":   q.Year,
			"rating": q.Rating,
			"type":   typ,
		},
	})
}

// HealthCheck 存活探针
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// NotFound 未匹配的路由
func (h *Handler) NotFound(c *gin.Context) {
	h.fail(c, service.ErrNotFound)
}
