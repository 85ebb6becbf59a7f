package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/user/streamflix/internal/model"
)

// SeriesFilter 剧集筛选条件（剧集没有类型关联）
type SeriesFilter struct {
	Search    string
	Year      int
	MinRating float64
}

type SeriesRepository struct {
	db *gorm.DB
}

func NewSeriesRepository(db *gorm.DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

// Search 搜索上架剧集，标题或简介包含关键词
func (r *SeriesRepository) Search(f SeriesFilter, limit int) ([]*model.Series, error) {
	q := r.db.Model(&model.Series{}).Where("series.is_active = ?", true)
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(series.title) LIKE ? OR LOWER(series.description) LIKE ?)", like, like)
	}
	if f.Year > 0 {
		q = q.Where("series.release_year = ?", f.Year)
	}
	if f.MinRating > 0 {
		q = q.Where("series.rating >= ?", f.MinRating)
	}

	var list []*model.Series
	err := q.Limit(limit).Find(&list).Error
	return list, err
}

// FindByID 根据 ID 查找剧集，不存在返回 nil
func (r *SeriesRepository) FindByID(id int) (*model.Series, error) {
	var s model.Series
	err := r.db.First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create 新建剧集（可带季与单集）
func (r *SeriesRepository) Create(s *model.Series) error {
	return r.db.Create(s).Error
}

type EpisodeRepository struct {
	db *gorm.DB
}

func NewEpisodeRepository(db *gorm.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

// FindByID 根据 ID 查找单集，不存在返回 nil
func (r *EpisodeRepository) FindByID(id int) (*model.Episode, error) {
	var ep model.Episode
	err := r.db.First(&ep, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ep, nil
}
