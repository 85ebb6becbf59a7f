package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/user/streamflix/internal/model"
)

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Upsert 更新或插入观看进度，(user, type, id) 唯一；完成后 h 为库中的最新行
func (r *HistoryRepository) Upsert(h *model.WatchHistory) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "watchable_type"}, {Name: "watchable_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress", "duration", "completed", "last_watched_at", "updated_at"}),
	}).Create(h).Error
	if err != nil {
		return err
	}

	// 冲突更新时内存中的 id、created_at 不是库中的值，回读一次
	var stored model.WatchHistory
	err = r.db.
		Where("user_id = ? AND watchable_type = ? AND watchable_id = ?", h.UserID, h.TargetType, h.TargetID).
		First(&stored).Error
	if err != nil {
		return err
	}
	*h = stored
	return nil
}

// Find 查找用户对某目标的进度，不存在返回 nil
func (r *HistoryRepository) Find(userID int, target model.Target) (*model.WatchHistory, error) {
	var h model.WatchHistory
	err := r.db.
		Where("user_id = ? AND watchable_type = ? AND watchable_id = ?", userID, target.Type, target.ID).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ListIncomplete 未看完且目标仍存在的记录，最近观看在前
func (r *HistoryRepository) ListIncomplete(userID, limit int) ([]*model.WatchHistory, error) {
	var histories []*model.WatchHistory
	err := r.db.Where("user_id = ? AND completed = ?", userID, false).
		Where(targetExists(r.db, "watch_history", "watchable_type", "watchable_id", model.HistoryTargets)).
		Order("last_watched_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&histories).Error
	return histories, err
}

// DeleteOrphans 删除目标已不存在的记录
func (r *HistoryRepository) DeleteOrphans() (int64, error) {
	return deleteOrphans(r.db, &model.WatchHistory{}, "watchable_type", "watchable_id", model.HistoryTargets)
}

// targetTables 目标类型对应的表
var targetTables = map[model.TargetType]string{
	model.TargetMovie:   "movies",
	model.TargetEpisode: "episodes",
	model.TargetSeries:  "series",
}

// targetExists 多态引用的目标行存在：按类型各自 EXISTS 后 OR 组合
func targetExists(db *gorm.DB, table, typeCol, idCol string, allowed []model.TargetType) *gorm.DB {
	cond := db.Session(&gorm.Session{NewDB: true})
	for i, t := range allowed {
		expr := table + "." + typeCol + " = ? AND EXISTS (SELECT 1 FROM " + targetTables[t] +
			" x WHERE x.id = " + table + "." + idCol + ")"
		if i == 0 {
			cond = cond.Where(expr, t)
		} else {
			cond = cond.Or(expr, t)
		}
	}
	return cond
}

// deleteOrphans 按类型逐一删除悬空的多态引用，未知类型的行一并删除
func deleteOrphans(db *gorm.DB, value interface{}, typeCol, idCol string, allowed []model.TargetType) (int64, error) {
	var total int64
	for _, t := range allowed {
		table := targetTables[t]
		res := db.Where(typeCol+" = ?", t).
			Where("NOT EXISTS (SELECT 1 FROM " + table + " x WHERE x.id = " + idCol + ")").
			Delete(value)
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected
	}

	res := db.Where(typeCol+" NOT IN ?", allowed).Delete(value)
	if res.Error != nil {
		return total, res.Error
	}
	return total + res.RowsAffected, nil
}
