package model

import (
	"time"
)

// VideoQualities 清晰度 -> 播放地址，如 {"720p": "https://..."}
type VideoQualities map[string]string

// Movie 电影
type Movie struct {
	ID             int            `json:"id" gorm:"primaryKey"`
	Title          string         `json:"title" gorm:"not null;index"`
	Description    string         `json:"description" gorm:"type:text"`
	PosterURL      string         `json:"poster_url"`
	BackdropURL    string         `json:"backdrop_url"`
	ReleaseYear    *int           `json:"release_year" gorm:"index"`
	Rating         float64        `json:"rating" gorm:"type:decimal(3,1);default:0;index"`
	Duration       *int           `json:"duration"` // 分钟
	VideoURL       string         `json:"video_url"`
	VideoQualities VideoQualities `json:"video_qualities" gorm:"serializer:json"`
	TmdbID         *int           `json:"tmdb_id" gorm:"uniqueIndex"`
	ImdbID         string         `json:"imdb_id"`
	TrailerURL     string         `json:"trailer_url"`
	IsPremium      bool           `json:"is_premium" gorm:"index"`
	IsActive       bool           `json:"is_active" gorm:"index;index:idx_movies_active_created,priority:1"`
	CreatedAt      time.Time      `json:"created_at" gorm:"index:idx_movies_active_created,priority:2"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Genres         []Genre        `json:"genres,omitempty" gorm:"many2many:genre_movie;"`
}

// Genre 类型
type Genre struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Movies    []Movie   `json:"movies,omitempty" gorm:"many2many:genre_movie;"`
}

// GenreIDs 返回电影所属类型 ID
func (m *Movie) GenreIDs() []int {
	ids := make([]int, 0, len(m.Genres))
	for _, g := range m.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}
