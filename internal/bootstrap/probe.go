package bootstrap

import (
	"context"

	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func openQuiet(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:               glogger.Default.LogMode(glogger.Silent),
		DisableAutomaticPing: true,
	})
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Probe verifies that the database server is reachable and the credentials
// are valid, without assuming the system schema exists. The dialectors open
// lazily, so the first dial happens inside PingContext and is bounded by ctx.
// The throwaway connection is closed on every exit path. A failure is
// returned as a ConnectionError carrying the driver's message.
func Probe(ctx context.Context, params ConnectionParams) error {
	dialect, err := DialectFor(params.Type)
	if err != nil {
		return &ValidationError{Field: "dbConfig.type", Reason: err.Error()}
	}

	db, err := openQuiet(dialect.ServerDialector(params))
	if err != nil {
		closeDB(db)
		return &ConnectionError{Err: err}
	}
	defer closeDB(db)

	sqlDB, err := db.DB()
	if err != nil {
		return &ConnectionError{Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &ConnectionError{Err: err}
	}
	return nil
}
