package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/user/streamflix/internal/model"
)

// 排序方式
const (
	SortLatest  = "latest"
	SortPopular = "popular"
	SortRating  = "rating"
	SortTitle   = "title"
	SortYear    = "year"
)

// NormalizeSort 未知排序方式回落到 latest
func NormalizeSort(sort string) string {
	switch sort {
	case SortLatest, SortPopular, SortRating, SortTitle, SortYear:
		return sort
	default:
		return SortLatest
	}
}

// MovieFilter 电影筛选条件，零值表示不限制
type MovieFilter struct {
	Search            string  // 标题子串
	SearchDescription bool    // 子串同时匹配简介
	GenreID           int     // 类型
	Year              int     // 上映年份
	MinRating         float64 // 最低评分
	Sort              string
}

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// active 仅上架内容
func (r *MovieRepository) active() *gorm.DB {
	return r.db.Model(&model.Movie{}).Where("movies.is_active = ?", true)
}

// applyMovieFilter 组合筛选条件（全部为 AND）
func applyMovieFilter(q *gorm.DB, f MovieFilter) *gorm.DB {
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		if f.SearchDescription {
			q = q.Where("(LOWER(movies.title) LIKE ? OR LOWER(movies.description) LIKE ?)", like, like)
		} else {
			q = q.Where("LOWER(movies.title) LIKE ?", like)
		}
	}
	if f.GenreID > 0 {
		q = q.Where("EXISTS (SELECT 1 FROM genre_movie gm WHERE gm.movie_id = movies.id AND gm.genre_id = ?)", f.GenreID)
	}
	if f.Year > 0 {
		q = q.Where("movies.release_year = ?", f.Year)
	}
	if f.MinRating > 0 {
		q = q.Where("movies.rating >= ?", f.MinRating)
	}
	return q
}

func applyMovieSort(q *gorm.DB, sort string) *gorm.DB {
	switch NormalizeSort(sort) {
	case SortPopular:
		return q.Order("movies.rating DESC").Order("movies.created_at DESC")
	case SortRating:
		return q.Order("movies.rating DESC")
	case SortTitle:
		return q.Order("movies.title ASC")
	case SortYear:
		return q.Order("movies.release_year DESC")
	default:
		return q.Order("movies.created_at DESC")
	}
}

// List 分页查询上架电影，page 从 1 开始，超出末页时取末页；返回当前页数据、总数与实际页码
func (r *MovieRepository) List(f MovieFilter, page, perPage int) ([]*model.Movie, int64, int, error) {
	var total int64
	if err := applyMovieFilter(r.active(), f).Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	lastPage := LastPage(total, perPage)
	if page < 1 {
		page = 1
	}
	if page > lastPage {
		page = lastPage
	}

	var movies []*model.Movie
	err := applyMovieSort(applyMovieFilter(r.active(), f), f.Sort).
		Preload("Genres").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&movies).Error
	return movies, total, page, err
}

// LastPage 总页数，至少 1 页
func LastPage(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// Search 搜索上架电影（不分页，最多 limit 条）
func (r *MovieRepository) Search(f MovieFilter, limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	q := applyMovieFilter(r.active(), f).Preload("Genres").Limit(limit)
	if f.Sort != "" {
		q = applyMovieSort(q, f.Sort)
	}
	err := q.Find(&movies).Error
	return movies, err
}

// FindByID 根据 ID 查找电影（含下架），不存在返回 nil
func (r *MovieRepository) FindByID(id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindActiveWithGenres 详情页使用，仅上架电影
func (r *MovieRepository) FindActiveWithGenres(id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.active().Preload("Genres").Where("movies.id = ?", id).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// Latest 最新上架
func (r *MovieRepository) Latest(limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := applyMovieSort(r.active(), SortLatest).Preload("Genres").Limit(limit).Find(&movies).Error
	return movies, err
}

// Popular 热门：评分降序，同分按上架时间降序
func (r *MovieRepository) Popular(limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := applyMovieSort(r.active(), SortPopular).Preload("Genres").Limit(limit).Find(&movies).Error
	return movies, err
}

// ByGenre 某类型下的上架电影
func (r *MovieRepository) ByGenre(genreID, limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := applyMovieFilter(r.active(), MovieFilter{GenreID: genreID}).
		Preload("Genres").
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

// Random 随机取一部上架电影（首页主推），没有时返回 nil
func (r *MovieRepository) Random() (*model.Movie, error) {
	var movies []*model.Movie
	if err := r.active().Preload("Genres").Order("RANDOM()").Limit(1).Find(&movies).Error; err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, nil
	}
	return movies[0], nil
}

// Similar 与给定电影至少共享一个类型的其他上架电影
func (r *MovieRepository) Similar(movie *model.Movie, limit int) ([]*model.Movie, error) {
	genreIDs := movie.GenreIDs()
	if len(genreIDs) == 0 {
		return []*model.Movie{}, nil
	}

	var movies []*model.Movie
	err := r.active().
		Where("movies.id <> ?", movie.ID).
		Where("EXISTS (SELECT 1 FROM genre_movie gm WHERE gm.movie_id = movies.id AND gm.genre_id IN ?)", genreIDs).
		Preload("Genres").
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

// Create 新建电影（含类型关联）
func (r *MovieRepository) Create(movie *model.Movie) error {
	return r.db.Create(movie).Error
}

// FirstOrCreateByTitle 按标题查找，不存在则创建
func (r *MovieRepository) FirstOrCreateByTitle(movie *model.Movie) (bool, error) {
	var existing model.Movie
	err := r.db.Where("title = ?", movie.Title).First(&existing).Error
	if err == nil {
		*movie = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return true, r.db.Create(movie).Error
}

// ReplaceGenres 重置电影的类型关联
func (r *MovieRepository) ReplaceGenres(movie *model.Movie, genres []model.Genre) error {
	return r.db.Model(movie).Association("Genres").Replace(genres)
}
