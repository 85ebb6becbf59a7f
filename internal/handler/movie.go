package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/user/streamflix/internal/middleware"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/service"
)

// 电影变更动作
const (
	ActionAddToWatchlist      = "add_to_watchlist"
	ActionRemoveFromWatchlist = "remove_from_watchlist"
	ActionUpdateProgress      = "update_progress"
)

// movieActionForm POST /movies 参数
type movieActionForm struct {
	MovieID  int    `form:"movie_id" json:"movie_id" binding:"required,gte=1"`
	Action   string `form:"action" json:"action" binding:"required,oneof=add_to_watchlist remove_from_watchlist update_progress"`
	Progress *int   `form:"progress" json:"progress"`
	Duration *int   `form:"duration" json:"duration"`
}

func paramID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, service.ErrNotFound
	}
	return id, nil
}

// MovieIndex 电影列表
func (h *Handler) MovieIndex(c *gin.Context) {
	var q service.MovieQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, service.AsValidationError(err))
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	movies, err := h.CatalogService.ListMovies(q, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	genres, err := h.CatalogService.Genres()
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, "movies/index", gin.H{
		"movies":  movies,
		"genres":  genres,
		"filters": q,
	})
}

// MovieShow 电影详情
func (h *Handler) MovieShow(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	detail, err := h.CatalogService.MovieDetail(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	similar, err := h.CatalogService.SimilarMovies(detail.Movie, service.SimilarLimit)
	if err != nil {
		h.fail(c, err)
		return
	}

	userID := middleware.GetUserID(c)
	target := model.MovieTarget(detail.Movie.ID)
	history, err := h.ProgressTracker.GetProgress(userID, target)
	if err != nil {
		h.fail(c, err)
		return
	}
	inWatchlist, err := h.WatchlistService.IsMember(userID, target)
	if err != nil {
		h.fail(c, err)
		return
	}

	topAds, err := h.Repos.Advertisement.ListActive(model.PlacementMovieDetailTop)
	if err != nil {
		h.fail(c, err)
		return
	}
	bottomAds, err := h.Repos.Advertisement.ListActive(model.PlacementMovieDetailBottom)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, "movies/show", gin.H{
		"movie":         detail.Movie,
		"comments":      detail.Comments,
		"commentCount":  detail.CommentCount,
		"similarMovies": similar,
		"watchHistory":  history,
		"isInWatchlist": inWatchlist,
		"topAds":        topAds,
		"bottomAds":     bottomAds,
	})
}

// MovieStore 按 action 分发：加入/移出片单、上报进度
func (h *Handler) MovieStore(c *gin.Context) {
	var form movieActionForm
	if err := c.ShouldBind(&form); err != nil {
		h.fail(c, service.AsValidationError(err))
		return
	}

	userID := middleware.GetUserID(c)
	target := model.MovieTarget(form.MovieID)

	switch form.Action {
	case ActionAddToWatchlist:
		if err := h.WatchlistService.Add(userID, target); err != nil {
			h.fail(c, err)
			return
		}
		h.back(c, "已加入片单", gin.H{"isInWatchlist": true})

	case ActionRemoveFromWatchlist:
		if err := h.WatchlistService.Remove(userID, target); err != nil {
			h.fail(c, err)
			return
		}
		h.back(c, "已移出片单", gin.H{"isInWatchlist": false})

	case ActionUpdateProgress:
		fields := map[string]string{}
		if form.Progress == nil {
			fields["progress"] = "不能为空"
		}
		if form.Duration == nil {
			fields["duration"] = "不能为空"
		}
		if len(fields) > 0 {
			h.fail(c, &service.ValidationError{Fields: fields})
			return
		}

		history, err := h.ProgressTracker.RecordProgress(userID, target, *form.Progress, *form.Duration)
		if err != nil {
			h.fail(c, err)
			return
		}
		h.back(c, "进度已更新", gin.H{"watchHistory": history})
	}
}

// StoreComment 发表影评
func (h *Handler) StoreComment(c *gin.Context) {
	movieID, err := paramID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var in service.CommentInput
	if err := c.ShouldBind(&in); err != nil {
		h.fail(c, service.AsValidationError(err))
		return
	}

	comment, err := h.CommentService.Submit(middleware.GetUserID(c), movieID, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.back(c, "影评已发布", gin.H{"comment": comment})
}

// Watchlist 我的片单
func (h *Handler) Watchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	items, err := h.WatchlistService.List(userID, 100)
	if err != nil {
		h.fail(c, err)
		return
	}
	total, err := h.WatchlistService.Count(userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "watchlist", gin.H{"items": items, "total": total})
}
