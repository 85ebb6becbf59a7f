package repository

import (
	"gorm.io/gorm"

	"github.com/user/streamflix/internal/model"
)

// TargetResolver 把多态引用解析为具体内容
type TargetResolver struct {
	db *gorm.DB
}

func NewTargetResolver(db *gorm.DB) *TargetResolver {
	return &TargetResolver{db: db}
}

// Exists 目标是否存在（不区分上下架）
func (r *TargetResolver) Exists(target model.Target) (bool, error) {
	table, ok := targetTables[target.Type]
	if !ok {
		return false, nil
	}
	var count int64
	err := r.db.Table(table).Where("id = ?", target.ID).Count(&count).Error
	return count > 0, err
}

// Resolve 批量解析目标，按类型各查一次
// 电影带类型，单集带季与剧集，剧集原样加载；找不到的目标不出现在结果中
func (r *TargetResolver) Resolve(targets []model.Target) (map[model.Target]*model.Watchable, error) {
	ids := make(map[model.TargetType][]int)
	for _, t := range targets {
		ids[t.Type] = append(ids[t.Type], t.ID)
	}

	out := make(map[model.Target]*model.Watchable, len(targets))

	if len(ids[model.TargetMovie]) > 0 {
		var movies []*model.Movie
		if err := r.db.Preload("Genres").Where("id IN ?", ids[model.TargetMovie]).Find(&movies).Error; err != nil {
			return nil, err
		}
		for _, m := range movies {
			out[model.Target{Type: model.TargetMovie, ID: m.ID}] = &model.Watchable{Type: model.TargetMovie, Movie: m}
		}
	}

	if len(ids[model.TargetEpisode]) > 0 {
		var eps []*model.Episode
		if err := r.db.Preload("Season.Series").Where("id IN ?", ids[model.TargetEpisode]).Find(&eps).Error; err != nil {
			return nil, err
		}
		for _, ep := range eps {
			out[model.Target{Type: model.TargetEpisode, ID: ep.ID}] = &model.Watchable{Type: model.TargetEpisode, Episode: ep}
		}
	}

	if len(ids[model.TargetSeries]) > 0 {
		var list []*model.Series
		if err := r.db.Where("id IN ?", ids[model.TargetSeries]).Find(&list).Error; err != nil {
			return nil, err
		}
		for _, s := range list {
			out[model.Target{Type: model.TargetSeries, ID: s.ID}] = &model.Watchable{Type: model.TargetSeries, Series: s}
		}
	}

	return out, nil
}

// AttachHistory 为观看记录填充 Watchable，返回能解析到目标的记录
func (r *TargetResolver) AttachHistory(histories []*model.WatchHistory) ([]*model.WatchHistory, error) {
	targets := make([]model.Target, 0, len(histories))
	for _, h := range histories {
		targets = append(targets, h.Target())
	}
	resolved, err := r.Resolve(targets)
	if err != nil {
		return nil, err
	}

	out := make([]*model.WatchHistory, 0, len(histories))
	for _, h := range histories {
		if w, ok := resolved[h.Target()]; ok {
			h.Watchable = w
			out = append(out, h)
		}
	}
	return out, nil
}

// AttachWatchlist 为片单条目填充 Watchable，返回能解析到目标的条目
func (r *TargetResolver) AttachWatchlist(items []*model.Watchlist) ([]*model.Watchlist, error) {
	targets := make([]model.Target, 0, len(items))
	for _, it := range items {
		targets = append(targets, it.Target())
	}
	resolved, err := r.Resolve(targets)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Watchlist, 0, len(items))
	for _, it := range items {
		if w, ok := resolved[it.Target()]; ok {
			it.Watchable = w
			out = append(out, it)
		}
	}
	return out, nil
}
