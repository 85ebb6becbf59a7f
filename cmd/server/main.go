package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/user/streamflix/internal/config"
	"github.com/user/streamflix/internal/handler"
	"github.com/user/streamflix/internal/logging"
	"github.com/user/streamflix/internal/repository"
	"github.com/user/streamflix/internal/router"
	"github.com/user/streamflix/internal/service"
	"github.com/user/streamflix/internal/utils"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logging.Info().Msg("未找到 .env 文件，使用系统环境变量")
	}
	if cfg.UsesDefaultSecret() {
		logging.Warn().Msg("APP_SECRET 使用默认值，请在生产环境中修改")
	}

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("数据库连接失败")
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := repository.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("数据库迁移失败")
	}

	// 初始化仓库与缓存
	repos := repository.NewRepositories(db)
	rdb := repository.InitRedis(cfg.RedisAddr, cfg.RedisPassword)
	if rdb != nil {
		defer rdb.Close()
	}
	homeCache := utils.NewLayeredCache(rdb, "streamflix:home:", cfg.HomeCacheTTL)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	h := handler.NewHandler(repos, cfg, homeCache)
	r := router.New(h)

	// 启动定时清理任务
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	service.NewCleanupService(repos, h.HomeService, h.CatalogService).Start(ctx)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msgf("服务器启动于 %s", cfg.SiteUrl)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("正在关闭服务器...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("服务器强制关闭")
		return
	}
	logging.Info().Msg("服务器已退出")
}
