package app

import (
	"gorm.io/gorm"

	"github.com/zytsoft/zytbooks/config"
	"github.com/zytsoft/zytbooks/internal/bootstrap"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides system settings access
type SettingsProvider interface {
	Settings() *SettingsManager
	GetSettingsStringValue(key string) string
	GetSettingsBoolValue(key string) bool
}

// InitProvider exposes the pieces the bootstrap endpoints need: the
// configured connection and the ability to re-open the schema handle after a
// successful initialization.
type InitProvider interface {
	ConnectionParams() bootstrap.ConnectionParams
	ReloadDB() error
}
