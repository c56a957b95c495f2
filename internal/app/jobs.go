package app

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func (a *Application) initJob() {
	a.sched = cron.New()

	// Keep the settings cache in step with sys_config edits made through the
	// admin API or by other instances.
	_, err := a.sched.AddFunc("@every 1m", func() {
		a.settings.Refresh(a.gormDB)
	})
	if err != nil {
		zap.L().Error("failed to register settings refresh job", zap.Error(err))
	}

	_, err = a.sched.AddFunc("@every 5m", func() {
		if a.gormDB == nil {
			return
		}
		sqlDB, err := a.gormDB.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Ping(); err != nil {
			zap.L().Warn("database health check failed", zap.Error(err))
		}
	})
	if err != nil {
		zap.L().Error("failed to register db health job", zap.Error(err))
	}

	a.sched.Start()
}
