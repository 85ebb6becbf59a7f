package main

import (
	"github.com/joho/godotenv"

	"github.com/user/streamflix/internal/config"
	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/repository"
	"github.com/user/streamflix/internal/service"
)

// 写入演示数据：类型、电影、广告位、演示账号，可重复执行
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("数据库连接失败")
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := repository.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("数据库迁移失败")
	}

	report, err := service.NewSeeder(repository.NewRepositories(db)).Run()
	if err != nil {
		logging.Fatal().Err(err).Msg("写入演示数据失败")
	}
	logging.Info().
		Int("users", report.Users).
		Int("genres", report.Genres).
		Int("movies", report.Movies).
		Int("ads", report.Ads).
		Msg("演示数据已就绪")
}
