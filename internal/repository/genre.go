package repository

import (
	"gorm.io/gorm"

	"github.com/user/streamflix/internal/model"
)

type GenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// ListAll 全部类型
func (r *GenreRepository) ListAll() ([]*model.Genre, error) {
	var genres []*model.Genre
	err := r.db.Order("name ASC").Find(&genres).Error
	return genres, err
}

// WithActiveMovies 至少有一部上架电影的类型
func (r *GenreRepository) WithActiveMovies(limit int) ([]*model.Genre, error) {
	var genres []*model.Genre
	err := r.db.
		Where(`EXISTS (SELECT 1 FROM genre_movie gm JOIN movies m ON m.id = gm.movie_id
			WHERE gm.genre_id = genres.id AND m.is_active = ?)`, true).
		Order("genres.id ASC").
		Limit(limit).
		Find(&genres).Error
	return genres, err
}

// FirstOrCreate 按名称查找或创建
func (r *GenreRepository) FirstOrCreate(name, slug string) (*model.Genre, error) {
	genre := &model.Genre{}
	err := r.db.Where(model.Genre{Name: name}).Attrs(model.Genre{Slug: slug}).FirstOrCreate(genre).Error
	return genre, err
}
