package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
	"github.com/user/streamflix/internal/utils"
)

const (
	// MoviesPerPage 电影列表每页数量
	MoviesPerPage = 24
	// SearchLimit 搜索每类结果上限
	SearchLimit = 50
	// SimilarLimit 相似电影数量
	SimilarLimit = 12
	// CommentLimit 详情页展示的评论数量
	CommentLimit = 50
)

// 搜索范围
const (
	SearchAll    = "all"
	SearchMovies = "movies"
	SearchSeries = "series"
)

// MovieQuery 电影列表查询参数
type MovieQuery struct {
	Search string  `form:"search" json:"search"`
	Genre  int     `form:"genre" json:"genre"`
	Year   int     `form:"year" json:"year"`
	Rating float64 `form:"rating" json:"rating"`
	Sort   string  `form:"sort" json:"sort"`
}

// MoviePage 分页结果
type MoviePage struct {
	Data        []*model.Movie `json:"data"`
	CurrentPage int            `json:"current_page"`
	LastPage    int            `json:"last_page"`
	PerPage     int            `json:"per_page"`
	Total       int64          `json:"total"`
}

// SearchQuery 搜索参数
type SearchQuery struct {
	Q      string  `form:"q" json:"q"`
	Genre  int     `form:"genre" json:"genre"`
	Year   int     `form:"year" json:"year"`
	Rating float64 `form:"rating" json:"rating"`
	Type   string  `form:"type" json:"type"`
}

// Active 至少设置了一个条件才执行搜索
func (q SearchQuery) Active() bool {
	return strings.TrimSpace(q.Q) != "" || q.Genre > 0 || q.Year > 0 || q.Rating > 0
}

func (q SearchQuery) cacheKey() string {
	return fmt.Sprintf("%s|%d|%d|%g|%s", strings.ToLower(strings.TrimSpace(q.Q)), q.Genre, q.Year, q.Rating, q.Type)
}

// SearchResult 搜索结果
type SearchResult struct {
	Movies       []*model.Movie  `json:"movies"`
	Series       []*model.Series `json:"series"`
	TotalResults int             `json:"totalResults"`
}

// MovieDetail 详情页数据
type MovieDetail struct {
	Movie        *model.Movie     `json:"movie"`
	Comments     []*model.Comment `json:"comments"`
	CommentCount int64            `json:"commentCount"`
}

// CatalogService 片库浏览与搜索
type CatalogService struct {
	movies   *repository.MovieRepository
	series   *repository.SeriesRepository
	genres   *repository.GenreRepository
	comments *repository.CommentRepository
	cache    *utils.SearchCache[*SearchResult]
	sf       singleflight.Group
}

func NewCatalogService(repos *repository.Repositories) *CatalogService {
	return &CatalogService{
		movies:   repos.Movie,
		series:   repos.Series,
		genres:   repos.Genre,
		comments: repos.Comment,
		cache:    utils.NewSearchCache[*SearchResult](500, 5*time.Minute),
	}
}

// ListMovies 上架电影分页列表，page 从 1 开始，越界时落到首页或末页
func (s *CatalogService) ListMovies(q MovieQuery, page int) (*MoviePage, error) {
	filter := repository.MovieFilter{
		Search:    q.Search,
		GenreID:   q.Genre,
		Year:      q.Year,
		MinRating: q.Rating,
		Sort:      q.Sort,
	}

	movies, total, page, err := s.movies.List(filter, page, MoviesPerPage)
	if err != nil {
		return nil, fmt.Errorf("查询电影列表失败: %w", err)
	}

	return &MoviePage{
		Data:        movies,
		CurrentPage: page,
		LastPage:    repository.LastPage(total, MoviesPerPage),
		PerPage:     MoviesPerPage,
		Total:       total,
	}, nil
}

// Search 搜索电影与剧集，结果短时缓存，相同查询并发时只查一次
func (s *CatalogService) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	switch q.Type {
	case SearchAll, SearchMovies, SearchSeries:
	default:
		q.Type = SearchAll
	}
	if !q.Active() {
		return &SearchResult{Movies: []*model.Movie{}, Series: []*model.Series{}}, nil
	}

	key := q.cacheKey()
	if res, ok := s.cache.Get(key); ok {
		return res, nil
	}

	val, err, shared := s.sf.Do(key, func() (interface{}, error) {
		return s.search(q)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.Debug().Str("key", key).Msg("[Search] 合并了并发的相同查询")
	}

	res := val.(*SearchResult)
	s.cache.Set(key, res)
	return res, nil
}

func (s *CatalogService) search(q SearchQuery) (*SearchResult, error) {
	res := &SearchResult{Movies: []*model.Movie{}, Series: []*model.Series{}}

	if q.Type == SearchAll || q.Type == SearchMovies {
		movies, err := s.movies.Search(repository.MovieFilter{
			Search:            q.Q,
			SearchDescription: true,
			GenreID:           q.Genre,
			Year:              q.Year,
			MinRating:         q.Rating,
		}, SearchLimit)
		if err != nil {
			return nil, fmt.Errorf("搜索电影失败: %w", err)
		}
		res.Movies = movies
	}

	if q.Type == SearchAll || q.Type == SearchSeries {
		series, err := s.series.Search(repository.SeriesFilter{
			Search:    q.Q,
			Year:      q.Year,
			MinRating: q.Rating,
		}, SearchLimit)
		if err != nil {
			return nil, fmt.Errorf("搜索剧集失败: %w", err)
		}
		res.Series = series
	}

	res.TotalResults = len(res.Movies) + len(res.Series)
	return res, nil
}

// InvalidateSearch 清空搜索缓存（片库变化后调用）
func (s *CatalogService) InvalidateSearch() {
	s.cache.Clear()
}

// SimilarMovies 与给定电影共享类型的其他上架电影
func (s *CatalogService) SimilarMovies(movie *model.Movie, limit int) ([]*model.Movie, error) {
	if limit <= 0 {
		limit = SimilarLimit
	}
	return s.movies.Similar(movie, limit)
}

// MovieDetail 上架电影详情，附带已审核评论及作者
func (s *CatalogService) MovieDetail(id int) (*MovieDetail, error) {
	movie, err := s.movies.FindActiveWithGenres(id)
	if err != nil {
		return nil, fmt.Errorf("查询电影失败: %w", err)
	}
	if movie == nil {
		return nil, ErrNotFound
	}

	target := model.MovieTarget(movie.ID)
	comments, err := s.comments.ListApproved(target, CommentLimit)
	if err != nil {
		return nil, fmt.Errorf("查询评论失败: %w", err)
	}
	count, err := s.comments.CountApproved(target)
	if err != nil {
		return nil, fmt.Errorf("统计评论失败: %w", err)
	}
	return &MovieDetail{Movie: movie, Comments: comments, CommentCount: count}, nil
}

// Genres 全部类型（筛选项）
func (s *CatalogService) Genres() ([]*model.Genre, error) {
	return s.genres.ListAll()
}
