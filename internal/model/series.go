package model

import "time"

// Series 剧集
type Series struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	PosterURL   string    `json:"poster_url"`
	BackdropURL string    `json:"backdrop_url"`
	ReleaseYear *int      `json:"release_year" gorm:"index"`
	Rating      float64   `json:"rating" gorm:"type:decimal(3,1);default:0;index"`
	TmdbID      *int      `json:"tmdb_id" gorm:"uniqueIndex"`
	IsPremium   bool      `json:"is_premium" gorm:"index"`
	IsActive    bool      `json:"is_active" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Seasons     []Season  `json:"seasons,omitempty"`
}

// TableName 复数形式与单数相同
func (Series) TableName() string {
	return "series"
}

// Season 季
type Season struct {
	ID           int       `json:"id" gorm:"primaryKey"`
	SeriesID     int       `json:"series_id" gorm:"not null;index;uniqueIndex:idx_seasons_series_number,priority:1"`
	Title        string    `json:"title"`
	SeasonNumber int       `json:"season_number" gorm:"not null;index;uniqueIndex:idx_seasons_series_number,priority:2"`
	Description  string    `json:"description" gorm:"type:text"`
	PosterURL    string    `json:"poster_url"`
	ReleaseYear  *int      `json:"release_year"`
	TmdbID       *int      `json:"tmdb_id" gorm:"index"`
	IsActive     bool      `json:"is_active" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Series       *Series   `json:"series,omitempty"`
	Episodes     []Episode `json:"episodes,omitempty"`
}

// Episode 单集
type Episode struct {
	ID             int            `json:"id" gorm:"primaryKey"`
	SeasonID       int            `json:"season_id" gorm:"not null;index;uniqueIndex:idx_episodes_season_number,priority:1"`
	Title          string         `json:"title"`
	EpisodeNumber  int            `json:"episode_number" gorm:"not null;index;uniqueIndex:idx_episodes_season_number,priority:2"`
	Description    string         `json:"description" gorm:"type:text"`
	ThumbnailURL   string         `json:"thumbnail_url"`
	Duration       *int           `json:"duration"` // 分钟
	VideoURL       string         `json:"video_url"`
	VideoQualities VideoQualities `json:"video_qualities" gorm:"serializer:json"`
	Rating         float64        `json:"rating" gorm:"type:decimal(3,1);default:0"`
	AirDate        *time.Time     `json:"air_date" gorm:"type:date;index"`
	TmdbID         *int           `json:"tmdb_id" gorm:"index"`
	IsActive       bool           `json:"is_active" gorm:"index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Season         *Season        `json:"season,omitempty"`
}
