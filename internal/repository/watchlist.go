package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/user/streamflix/internal/model"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add 加入片单，已存在时不做任何事
func (r *WatchlistRepository) Add(userID int, target model.Target) error {
	item := &model.Watchlist{
		UserID:     userID,
		TargetType: target.Type,
		TargetID:   target.ID,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(item).Error
}

// Remove 移出片单，不存在时不报错
func (r *WatchlistRepository) Remove(userID int, target model.Target) error {
	return r.db.
		Where("user_id = ? AND watchable_type = ? AND watchable_id = ?", userID, target.Type, target.ID).
		Delete(&model.Watchlist{}).Error
}

// IsMember 检查是否在片单中
func (r *WatchlistRepository) IsMember(userID int, target model.Target) (bool, error) {
	var count int64
	err := r.db.Model(&model.Watchlist{}).
		Where("user_id = ? AND watchable_type = ? AND watchable_id = ?", userID, target.Type, target.ID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser 用户片单，最近加入在前
func (r *WatchlistRepository) ListByUser(userID, limit, offset int) ([]*model.Watchlist, error) {
	var items []*model.Watchlist
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

// CountByUser 统计用户片单数量
func (r *WatchlistRepository) CountByUser(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.Watchlist{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

// DeleteOrphans 删除目标已不存在的记录
func (r *WatchlistRepository) DeleteOrphans() (int64, error) {
	return deleteOrphans(r.db, &model.Watchlist{}, "watchable_type", "watchable_id", model.WatchlistTargets)
}
