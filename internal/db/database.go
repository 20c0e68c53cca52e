package db

import (
	"fmt"

	"github.com/ikkim/wallhub-backend/config"
	appLogger "github.com/ikkim/wallhub-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// slowQueryWriter gorm 로거 출력을 앱 로거 경고로 전달
type slowQueryWriter struct{}

func (slowQueryWriter) Printf(format string, args ...interface{}) {
	appLogger.Warn("Slow query", map[string]interface{}{
		"detail": fmt.Sprintf(format, args...),
	})
}

// newGormLogger 느린 쿼리만 기록. 레코드 없음은 서비스에서 NotFound로 처리하므로 무시
func newGormLogger(cfg *config.DatabaseConfig) logger.Interface {
	if cfg.SlowQueryThreshold <= 0 {
		return logger.Default.LogMode(logger.Silent)
	}
	return logger.New(slowQueryWriter{}, logger.Config{
		SlowThreshold:             cfg.SlowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Initialize PostgreSQL 연결 풀 생성
func Initialize(cfg *config.DatabaseConfig) error {
	appLogger.Info("Connecting to database", map[string]interface{}{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.DBName,
		"user":     cfg.User,
	})

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         newGormLogger(cfg),
		TranslateError: true, // unique 위반 → gorm.ErrDuplicatedKey
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	appLogger.Info("Database connection established", map[string]interface{}{
		"max_idle_conns":    cfg.MaxIdleConns,
		"max_open_conns":    cfg.MaxOpenConns,
		"conn_max_lifetime": cfg.ConnMaxLifetime.String(),
	})
	return nil
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func GetDB() *gorm.DB {
	return DB
}
