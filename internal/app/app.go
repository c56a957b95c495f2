package app

import (
	"os"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/zytsoft/zytbooks/config"
	"github.com/zytsoft/zytbooks/internal/bootstrap"
	"github.com/zytsoft/zytbooks/internal/domain"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	sched     *cron.Cron
	settings  *SettingsManager
	startTime time.Time
}

// Ensure Application implements all interfaces
var (
	_ DBProvider       = (*Application)(nil)
	_ ConfigProvider   = (*Application)(nil)
	_ SettingsProvider = (*Application)(nil)
	_ InitProvider     = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{
		appConfig: appConfig,
		settings:  NewSettingsManager(),
		startTime: time.Now(),
	}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
	a.settings.Refresh(db)
}

func (a *Application) StartTime() time.Time {
	return a.startTime
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	// Initialize zap logger
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}

	// Build logger with file rotation if enabled
	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)

	// The system schema may not exist yet; the bootstrap endpoints must still
	// come up, so a failed open only logs a warning.
	if err := a.ReloadDB(); err != nil {
		zap.S().Warnf("system schema not reachable yet, waiting for initialization: %v", err)
	} else {
		zap.S().Infof("database connection successful, type: %s", cfg.Database.Type)
	}

	a.initJob()
}

// ConnectionParams maps the configured administrative database to the
// bootstrap connection shape.
func (a *Application) ConnectionParams() bootstrap.ConnectionParams {
	db := a.appConfig.Database
	return bootstrap.ConnectionParams{
		Type:     db.Type,
		Host:     db.Host,
		Port:     db.Port,
		Username: db.User,
		Password: db.Passwd,
		Schema:   db.Name,
	}
}

// ReloadDB opens (or re-opens) the connection to the system schema and
// refreshes the settings cache from it. Called at startup and again after a
// successful initialization run.
func (a *Application) ReloadDB() error {
	params := a.ConnectionParams()
	dialect, err := bootstrap.DialectFor(params.Type)
	if err != nil {
		return err
	}
	db, err := gorm.Open(dialect.SchemaDialector(params), &gorm.Config{})
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(a.appConfig.Database.MaxConn)
	sqlDB.SetMaxIdleConns(a.appConfig.Database.IdleConn)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return err
	}

	if a.gormDB != nil {
		if old, err := a.gormDB.DB(); err == nil {
			_ = old.Close()
		}
	}
	a.gormDB = db
	a.settings.Refresh(db)
	return nil
}

func (a *Application) MigrateDB(track bool) error {
	if track {
		return a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...)
	}
	return a.gormDB.Migrator().AutoMigrate(domain.Tables...)
}

// Settings returns the system settings manager
func (a *Application) Settings() *SettingsManager {
	return a.settings
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(key string) string {
	return a.settings.GetString(key)
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(key string) bool {
	return a.settings.GetBool(key)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = zap.L().Sync()
}
