// @title           HOA Helper API
// @version         1.0
// @description     Condominium administration: residents, vendors, staff, finances, maintenance, events and violations
// @BasePath        /api
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zYagamiBR/hoa-helper/internal/app/routes"
	"github.com/zYagamiBR/hoa-helper/internal/domain/models"
	"github.com/zYagamiBR/hoa-helper/internal/infrastructure/config"
	"github.com/zYagamiBR/hoa-helper/internal/infrastructure/database"
	Logger "github.com/zYagamiBR/hoa-helper/pkg/logger"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	// .env is optional, the variables may come from the environment
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := Logger.Setup(Logger.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "hoa-helper",
	}); err != nil {
		fmt.Printf("Failed to set up logger: %v\n", err)
		os.Exit(1)
	}
	defer Logger.Sync()
	if envErr != nil {
		Logger.Warning("could not load .env file: %v", envErr)
	}
	if cfg.EnvType == "SERVER" {
		gin.SetMode(gin.ReleaseMode)
	}

	pool, err := database.NewConnectionPool(cfg, Logger.L())
	if err != nil {
		Logger.Error("could not create database pool: %v", err)
		os.Exit(1)
	}
	defer pool.Close()
	db := pool.GetDB()

	if cfg.DBMigrationMode == "drop" {
		Logger.Warning("running in drop mode, every table is recreated")
		err = dropAndRecreateTables(db)
	} else {
		err = autoMigrate(db)
	}
	if err != nil {
		Logger.Error("migration failed: %v", err)
		os.Exit(1)
	}

	r := routes.SetupRouter(db, cfg, newRedisClient(cfg), Logger.L())

	printSystemInfo(pool)

	Logger.Info("server listening on http://0.0.0.0:%s", cfg.ServerPort)
	if err := r.Run("0.0.0.0:" + cfg.ServerPort); err != nil {
		Logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
}

// newRedisClient returns nil when redis is disabled
func newRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.RedisEnabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		Logger.Warning("redis at %s unreachable, continuing without it: %v", cfg.GetRedisAddr(), err)
		_ = client.Close()
		return nil
	}
	return client
}

// autoMigrate only adds tables and columns
func autoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	Logger.Info("database migration completed")
	return nil
}

// dropAndRecreateTables drops every table in reverse dependency order, then migrates
func dropAndRecreateTables(db *gorm.DB) error {
	all := models.All()
	for i := len(all) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(all[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return autoMigrate(db)
}

func printSystemInfo(pool *database.ConnectionPool) {
	log := Logger.L()
	if stats, err := pool.Stats(); err == nil {
		log.Info("database pool", zap.Any("stats", stats))
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Info("system",
		zap.Int("cpus", runtime.NumCPU()),
		zap.Int("goroutines", runtime.NumGoroutine()),
		zap.Uint64("alloc_mib", m.Alloc/1024/1024),
		zap.Uint64("sys_mib", m.Sys/1024/1024))
}
