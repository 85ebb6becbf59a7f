package model

import "fmt"

// TargetType 多态关联的类型标签
type TargetType string

const (
	TargetMovie   TargetType = "movie"
	TargetEpisode TargetType = "episode"
	TargetSeries  TargetType = "series"
)

// 各表允许的目标类型集合
var (
	HistoryTargets   = []TargetType{TargetMovie, TargetEpisode}
	WatchlistTargets = []TargetType{TargetMovie, TargetSeries}
	CommentTargets   = []TargetType{TargetMovie, TargetEpisode}
)

// In 判断类型是否属于给定集合
func (t TargetType) In(allowed []TargetType) bool {
	for _, a := range allowed {
		if t == a {
			return true
		}
	}
	return false
}

// Target 多态引用：类型 + ID
type Target struct {
	Type TargetType `json:"type"`
	ID   int        `json:"id"`
}

// MovieTarget 构造电影引用
func MovieTarget(id int) Target {
	return Target{Type: TargetMovie, ID: id}
}

func (t Target) String() string {
	return fmt.Sprintf("%s#%d", t.Type, t.ID)
}

// Watchable 已解析的目标，仅 Type 对应的字段非空
type Watchable struct {
	Type    TargetType `json:"type"`
	Movie   *Movie     `json:"movie,omitempty"`
	Episode *Episode   `json:"episode,omitempty"`
	Series  *Series    `json:"series,omitempty"`
}

// Title 目标标题，单集附带剧名
func (w *Watchable) Title() string {
	if w == nil {
		return ""
	}
	switch w.Type {
	case TargetMovie:
		if w.Movie != nil {
			return w.Movie.Title
		}
	case TargetSeries:
		if w.Series != nil {
			return w.Series.Title
		}
	case TargetEpisode:
		if w.Episode == nil {
			return ""
		}
		if s := w.Episode.Season; s != nil && s.Series != nil {
			return fmt.Sprintf("%s S%02dE%02d", s.Series.Title, s.SeasonNumber, w.Episode.EpisodeNumber)
		}
		return w.Episode.Title
	}
	return ""
}
