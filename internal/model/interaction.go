package model

import "time"

// Comment 评论/影评
type Comment struct {
	ID         int        `json:"id" gorm:"primaryKey"`
	UserID     int        `json:"user_id" gorm:"not null;index"`
	TargetType TargetType `json:"commentable_type" gorm:"column:commentable_type;type:varchar(32);not null;index:idx_comments_target,priority:1"`
	TargetID   int        `json:"commentable_id" gorm:"column:commentable_id;not null;index:idx_comments_target,priority:2"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	Rating     *float64   `json:"rating" gorm:"type:decimal(3,1)"`
	IsApproved bool       `json:"is_approved" gorm:"index;index:idx_comments_approved_created,priority:1"`
	CreatedAt  time.Time  `json:"created_at" gorm:"index:idx_comments_approved_created,priority:2"`
	UpdatedAt  time.Time  `json:"updated_at"`
	User       *User      `json:"user,omitempty"`
}

// Placement 广告位
type Placement string

const (
	PlacementHomepageHero      Placement = "homepage_hero"
	PlacementHomepageSidebar   Placement = "homepage_sidebar"
	PlacementMovieDetailTop    Placement = "movie_detail_top"
	PlacementMovieDetailBottom Placement = "movie_detail_bottom"
	PlacementPlayerOverlay     Placement = "player_overlay"
)

// Placements 全部广告位
var Placements = []Placement{
	PlacementHomepageHero,
	PlacementHomepageSidebar,
	PlacementMovieDetailTop,
	PlacementMovieDetailBottom,
	PlacementPlayerOverlay,
}

// Valid 是否为已知广告位
func (p Placement) Valid() bool {
	for _, v := range Placements {
		if p == v {
			return true
		}
	}
	return false
}

// Advertisement 广告
type Advertisement struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Code      string    `json:"code" gorm:"type:text;not null"` // 原始广告代码
	Placement Placement `json:"placement" gorm:"type:varchar(32);not null;index;index:idx_ads_placement_active_sort,priority:1"`
	IsActive  bool      `json:"is_active" gorm:"index;index:idx_ads_placement_active_sort,priority:2"`
	SortOrder int       `json:"sort_order" gorm:"index:idx_ads_placement_active_sort,priority:3"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
