package service

import (
	"context"
	"time"

	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/metrics"
	"github.com/user/streamflix/internal/repository"
)

// CleanupService 清理服务
type CleanupService struct {
	repos    *repository.Repositories
	home     *HomeService
	catalog  *CatalogService
	interval time.Duration
}

// NewCleanupService 创建清理服务
func NewCleanupService(repos *repository.Repositories, home *HomeService, catalog *CatalogService) *CleanupService {
	return &CleanupService{
		repos:    repos,
		home:     home,
		catalog:  catalog,
		interval: 24 * time.Hour,
	}
}

// Start 启动定时清理任务，ctx 取消后退出
func (s *CleanupService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()

		// 启动时先运行一次
		s.RunOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				logging.Info().Msg("[CleanupService] 已停止")
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce 删除目标已不存在的多态记录，并刷新首页与搜索缓存
func (s *CleanupService) RunOnce(ctx context.Context) {
	logging.Info().Msg("[CleanupService] 开始清理孤立记录...")

	jobs := []struct {
		table string
		run   func() (int64, error)
	}{
		{"watch_history", s.repos.History.DeleteOrphans},
		{"watchlists", s.repos.Watchlist.DeleteOrphans},
		{"comments", s.repos.Comment.DeleteOrphans},
	}

	for _, job := range jobs {
		affected, err := job.run()
		if err != nil {
			logging.Error().Err(err).Str("table", job.table).Msg("[CleanupService] 清理失败")
			continue
		}
		if affected > 0 {
			metrics.OrphansRemoved.WithLabelValues(job.table).Add(float64(affected))
			logging.Info().Str("table", job.table).Int64("affected", affected).Msg("[CleanupService] 已清理孤立记录")
		}
	}

	if s.home != nil {
		if err := s.home.Invalidate(ctx); err != nil {
			logging.Warn().Err(err).Msg("[CleanupService] 刷新首页缓存失败")
		}
	}
	if s.catalog != nil {
		s.catalog.InvalidateSearch()
	}
}
