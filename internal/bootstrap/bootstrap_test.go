package bootstrap

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// sharedMemDB returns connection params for a shared in-memory sqlite
// database plus a handle held open for the duration of the test; the shared
// database lives only while at least one connection stays open.
func sharedMemDB(t *testing.T) (ConnectionParams, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	keeper, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := keeper.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	params := ConnectionParams{Type: "sqlite", Schema: dsn}
	return params, keeper
}
