package model

import "time"

// CompletionPercent 进度达到时长的该百分比即视为看完
const CompletionPercent = 90

// IsCompleted 判断进度是否达到完成阈值 progress >= 0.9 * duration
// 阈值取 ceil(duration*90/100)，按商和余数分开计算，避免乘法溢出
func IsCompleted(progress, duration int) bool {
	if duration <= 0 {
		return progress >= 0
	}
	q, r := duration/100, duration%100
	threshold := q*CompletionPercent + (r*CompletionPercent+99)/100
	return progress >= threshold
}

// WatchHistory 观看进度，每个用户每个目标仅一条
type WatchHistory struct {
	ID            int        `json:"id" gorm:"primaryKey"`
	UserID        int        `json:"user_id" gorm:"not null;index;uniqueIndex:idx_history_user_target,priority:1;index:idx_history_user_completed,priority:1"`
	TargetType    TargetType `json:"watchable_type" gorm:"column:watchable_type;type:varchar(32);not null;uniqueIndex:idx_history_user_target,priority:2;index:idx_history_target,priority:1"`
	TargetID      int        `json:"watchable_id" gorm:"column:watchable_id;not null;uniqueIndex:idx_history_user_target,priority:3;index:idx_history_target,priority:2"`
	Progress      int        `json:"progress"` // 秒
	Duration      int        `json:"duration"` // 秒
	Completed     bool       `json:"completed" gorm:"index:idx_history_user_completed,priority:2"`
	LastWatchedAt time.Time  `json:"last_watched_at" gorm:"not null;index"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Watchable     *Watchable `json:"watchable,omitempty" gorm:"-"`
	PercentDone   int        `json:"percent" gorm:"-"` // 列表展示用，由 Percent 填充
}

// TableName 沿用单数表名
func (WatchHistory) TableName() string {
	return "watch_history"
}

// Target 返回多态引用
func (h *WatchHistory) Target() Target {
	return Target{Type: h.TargetType, ID: h.TargetID}
}

// Percent 观看百分比（0-100）
func (h *WatchHistory) Percent() int {
	if h.Duration <= 0 {
		return 0
	}
	if h.Progress >= h.Duration {
		return 100
	}
	if h.Progress <= 0 {
		return 0
	}
	return int(float64(h.Progress) * 100 / float64(h.Duration))
}

// Watchlist 片单
type Watchlist struct {
	ID         int        `json:"id" gorm:"primaryKey"`
	UserID     int        `json:"user_id" gorm:"not null;index;uniqueIndex:idx_watchlist_user_target,priority:1"`
	TargetType TargetType `json:"watchable_type" gorm:"column:watchable_type;type:varchar(32);not null;uniqueIndex:idx_watchlist_user_target,priority:2;index:idx_watchlist_target,priority:1"`
	TargetID   int        `json:"watchable_id" gorm:"column:watchable_id;not null;uniqueIndex:idx_watchlist_user_target,priority:3;index:idx_watchlist_target,priority:2"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Watchable  *Watchable `json:"watchable,omitempty" gorm:"-"`
}

// Target 返回多态引用
func (w *Watchlist) Target() Target {
	return Target{Type: w.TargetType, ID: w.TargetID}
}
