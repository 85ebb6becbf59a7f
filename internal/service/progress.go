package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/metrics"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
)

// ProgressTracker 观看进度
type ProgressTracker struct {
	history *repository.HistoryRepository
	targets *repository.TargetResolver
	now     func() time.Time
}

func NewProgressTracker(repos *repository.Repositories) *ProgressTracker {
	return &ProgressTracker{
		history: repos.History,
		targets: repos.Targets,
		now:     time.Now,
	}
}

// RecordProgress 写入进度，同一用户同一目标只保留一条，后写覆盖
func (s *ProgressTracker) RecordProgress(userID int, target model.Target, progress, duration int) (*model.WatchHistory, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	fields := map[string]string{}
	if !target.Type.In(model.HistoryTargets) {
		fields["watchable_type"] = fmt.Sprintf("不支持的类型: %s", target.Type)
	}
	if progress < 0 {
		fields["progress"] = "不能小于 0"
	}
	if duration < 1 {
		fields["duration"] = "不能小于 1"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	exists, err := s.targets.Exists(target)
	if err != nil {
		return nil, fmt.Errorf("查询目标失败: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	h := &model.WatchHistory{
		UserID:        userID,
		TargetType:    target.Type,
		TargetID:      target.ID,
		Progress:      progress,
		Duration:      duration,
		Completed:     model.IsCompleted(progress, duration),
		LastWatchedAt: s.now(),
	}
	if err := s.history.Upsert(h); err != nil {
		return nil, fmt.Errorf("保存观看进度失败: %w", err)
	}

	metrics.ProgressUpdates.WithLabelValues(string(target.Type), strconv.FormatBool(h.Completed)).Inc()
	logging.Debug().
		Int("user_id", userID).
		Str("target", target.String()).
		Int("progress", progress).
		Bool("completed", h.Completed).
		Msg("[Progress] 进度已更新")
	return h, nil
}

// GetProgress 用户对目标的进度，从未观看返回 nil
func (s *ProgressTracker) GetProgress(userID int, target model.Target) (*model.WatchHistory, error) {
	if userID <= 0 {
		return nil, nil
	}
	return s.history.Find(userID, target)
}

// ContinueWatching 未看完的内容，最近观看在前；目标已删除的记录跳过
func (s *ProgressTracker) ContinueWatching(userID, limit int) ([]*model.WatchHistory, error) {
	if userID <= 0 {
		return []*model.WatchHistory{}, nil
	}
	rows, err := s.history.ListIncomplete(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("查询观看记录失败: %w", err)
	}
	for _, h := range rows {
		h.PercentDone = h.Percent()
	}
	return s.targets.AttachHistory(rows)
}
