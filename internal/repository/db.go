package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/model"
)

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 gorm 失败: %w", err)
	}
	return db, nil
}

// Migrate 自动迁移全部表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Genre{},
		&model.Movie{},
		&model.Series{},
		&model.Season{},
		&model.Episode{},
		&model.WatchHistory{},
		&model.Watchlist{},
		&model.Comment{},
		&model.Advertisement{},
	)
}

// InitRedis 连接 Redis，地址为空或不可达时返回 nil（Redis 可选）
func InitRedis(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logging.Warn().Err(err).Str("addr", addr).Msg("Redis 连接失败，仅使用进程内缓存")
		_ = rdb.Close()
		return nil
	}
	logging.Info().Str("addr", addr).Msg("Redis 已连接")
	return rdb
}

// Repositories 仓库集合
type Repositories struct {
	DB            *gorm.DB
	User          *UserRepository
	Movie         *MovieRepository
	Series        *SeriesRepository
	Episode       *EpisodeRepository
	Genre         *GenreRepository
	History       *HistoryRepository
	Watchlist     *WatchlistRepository
	Comment       *CommentRepository
	Advertisement *AdvertisementRepository
	Targets       *TargetResolver
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:            db,
		User:          NewUserRepository(db),
		Movie:         NewMovieRepository(db),
		Series:        NewSeriesRepository(db),
		Episode:       NewEpisodeRepository(db),
		Genre:         NewGenreRepository(db),
		History:       NewHistoryRepository(db),
		Watchlist:     NewWatchlistRepository(db),
		Comment:       NewCommentRepository(db),
		Advertisement: NewAdvertisementRepository(db),
		Targets:       NewTargetResolver(db),
	}
}
