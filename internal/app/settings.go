package app

import (
	"sync"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zytsoft/zytbooks/internal/domain"
)

// SettingsManager caches the sys_config table in memory. The cache is
// refreshed on a schedule and after initialization; readers never touch the
// database.
type SettingsManager struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewSettingsManager() *SettingsManager {
	return &SettingsManager{values: map[string]string{}}
}

// Refresh reloads the cache from the sys_config table. A nil handle or a
// missing table leaves the previous cache in place.
func (s *SettingsManager) Refresh(db *gorm.DB) {
	if db == nil {
		return
	}
	var rows []domain.SysConfig
	if err := db.Find(&rows).Error; err != nil {
		zap.L().Debug("settings refresh skipped", zap.Error(err))
		return
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.ConfigKey] = row.ConfigValue
	}
	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
}

func (s *SettingsManager) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *SettingsManager) GetBool(key string) bool {
	return cast.ToBool(s.GetString(key))
}

func (s *SettingsManager) GetInt64(key string) int64 {
	return cast.ToInt64(s.GetString(key))
}
