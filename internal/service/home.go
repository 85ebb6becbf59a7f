package service

import (
	"context"
	"fmt"

	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/model"
	"github.com/user/streamflix/internal/repository"
	"github.com/user/streamflix/internal/utils"
)

const (
	homeRowSize          = 20
	homeGenreRows        = 3
	continueWatchingSize = 10
)

// GenreRow 首页按类型分组的一行
type GenreRow struct {
	Genre  *model.Genre   `json:"genre"`
	Movies []*model.Movie `json:"movies"`
}

// HomeSections 与用户无关的首页内容，可缓存
type HomeSections struct {
	HeroMovie      *model.Movie           `json:"heroMovie"`
	LatestMovies   []*model.Movie         `json:"latestMovies"`
	PopularMovies  []*model.Movie         `json:"popularMovies"`
	MoviesByGenres []GenreRow             `json:"moviesByGenres"`
	Genres         []*model.Genre         `json:"genres"`
	HeroAds        []*model.Advertisement `json:"heroAds"`
	SidebarAds     []*model.Advertisement `json:"sidebarAds"`
}

// HomePage 首页数据
type HomePage struct {
	*HomeSections
	ContinueWatching []*model.WatchHistory `json:"continueWatching"`
}

// HomeService 首页聚合
type HomeService struct {
	repos    *repository.Repositories
	progress *ProgressTracker
	cache    *utils.LayeredCache
}

func NewHomeService(repos *repository.Repositories, progress *ProgressTracker, cache *utils.LayeredCache) *HomeService {
	return &HomeService{repos: repos, progress: progress, cache: cache}
}

// Build 组装首页；共享部分走缓存，继续观看按用户实时查询
func (s *HomeService) Build(ctx context.Context, userID int) (*HomePage, error) {
	sections, err := utils.Remember(ctx, s.cache, "sections", s.loadSections)
	if err != nil {
		return nil, err
	}

	page := &HomePage{
		HomeSections:     sections,
		ContinueWatching: []*model.WatchHistory{},
	}
	if userID > 0 {
		rows, err := s.progress.ContinueWatching(userID, continueWatchingSize)
		if err != nil {
			logging.Error().Err(err).Int("user_id", userID).Msg("[Home] 查询继续观看失败")
		} else {
			page.ContinueWatching = rows
		}
	}
	return page, nil
}

// Invalidate 清空首页缓存
func (s *HomeService) Invalidate(ctx context.Context) error {
	return s.cache.Flush(ctx)
}

func (s *HomeService) loadSections() (*HomeSections, error) {
	movies := s.repos.Movie

	hero, err := movies.Random()
	if err != nil {
		return nil, fmt.Errorf("查询主推电影失败: %w", err)
	}
	latest, err := movies.Latest(homeRowSize)
	if err != nil {
		return nil, fmt.Errorf("查询最新电影失败: %w", err)
	}
	popular, err := movies.Popular(homeRowSize)
	if err != nil {
		return nil, fmt.Errorf("查询热门电影失败: %w", err)
	}

	topGenres, err := s.repos.Genre.WithActiveMovies(homeGenreRows)
	if err != nil {
		return nil, fmt.Errorf("查询类型失败: %w", err)
	}
	rows := make([]GenreRow, 0, len(topGenres))
	for _, g := range topGenres {
		list, err := movies.ByGenre(g.ID, homeRowSize)
		if err != nil {
			return nil, fmt.Errorf("查询类型 %s 的电影失败: %w", g.Name, err)
		}
		rows = append(rows, GenreRow{Genre: g, Movies: list})
	}

	genres, err := s.repos.Genre.ListAll()
	if err != nil {
		return nil, fmt.Errorf("查询类型失败: %w", err)
	}
	heroAds, err := s.repos.Advertisement.ListActive(model.PlacementHomepageHero)
	if err != nil {
		return nil, fmt.Errorf("查询广告失败: %w", err)
	}
	sidebarAds, err := s.repos.Advertisement.ListActive(model.PlacementHomepageSidebar)
	if err != nil {
		return nil, fmt.Errorf("查询广告失败: %w", err)
	}

	return &HomeSections{
		HeroMovie:      hero,
		LatestMovies:   latest,
		PopularMovies:  popular,
		MoviesByGenres: rows,
		Genres:         genres,
		HeroAds:        heroAds,
		SidebarAds:     sidebarAds,
	}, nil
}
