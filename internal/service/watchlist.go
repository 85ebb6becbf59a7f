package service

import (
	"fmt"

	"github.com/user/streamflix/internal/metrics"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
)

// WatchlistService 片单，(user, target) 集合语义
type WatchlistService struct {
	watchlist *repository.WatchlistRepository
	targets   *repository.TargetResolver
}

func NewWatchlistService(repos *repository.Repositories) *WatchlistService {
	return &WatchlistService{
		watchlist: repos.Watchlist,
		targets:   repos.Targets,
	}
}

func (s *WatchlistService) check(userID int, target model.Target) error {
	if userID <= 0 {
		return ErrUnauthenticated
	}
	if !target.Type.In(model.WatchlistTargets) {
		return invalid("watchable_type", fmt.Sprintf("不支持的类型: %s", target.Type))
	}
	return nil
}

// Add 加入片单，已存在时保持原记录
func (s *WatchlistService) Add(userID int, target model.Target) error {
	if err := s.check(userID, target); err != nil {
		return err
	}
	exists, err := s.targets.Exists(target)
	if err != nil {
		return fmt.Errorf("查询目标失败: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	if err := s.watchlist.Add(userID, target); err != nil {
		return fmt.Errorf("加入片单失败: %w", err)
	}
	metrics.WatchlistChanges.WithLabelValues("add").Inc()
	return nil
}

// Remove 移出片单，目标存在但不在片单中时什么也不做
func (s *WatchlistService) Remove(userID int, target model.Target) error {
	if err := s.check(userID, target); err != nil {
		return err
	}
	exists, err := s.targets.Exists(target)
	if err != nil {
		return fmt.Errorf("查询目标失败: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	if err := s.watchlist.Remove(userID, target); err != nil {
		return fmt.Errorf("移出片单失败: %w", err)
	}
	metrics.WatchlistChanges.WithLabelValues("remove").Inc()
	return nil
}

// IsMember 是否在片单中，未登录视为不在
func (s *WatchlistService) IsMember(userID int, target model.Target) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	return s.watchlist.IsMember(userID, target)
}

// List 用户片单，附带解析后的内容
func (s *WatchlistService) List(userID, limit int) ([]*model.Watchlist, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	items, err := s.watchlist.ListByUser(userID, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("查询片单失败: %w", err)
	}
	return s.targets.AttachWatchlist(items)
}

// Count 用户片单总数
func (s *WatchlistService) Count(userID int) (int, error) {
	if userID <= 0 {
		return 0, ErrUnauthenticated
	}
	return s.watchlist.CountByUser(userID)
}
