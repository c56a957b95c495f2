package bootstrap

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zytsoft/zytbooks/internal/domain"
	"github.com/zytsoft/zytbooks/pkg/common"
)

// Well-known system configuration keys.
const (
	ConfigKeySystemInitialized = "system_initialized"
	ConfigKeyInitTime          = "init_time"
	ConfigKeyDbType            = "db_type"
	ConfigKeyDbHost            = "db_host"
	ConfigKeyDbPort            = "db_port"
	ConfigKeyDbUser            = "db_user"
	ConfigKeyDbName            = "db_name"
)

type ConfigEntry struct {
	Key         string
	Value       string
	Description string
}

// PersistConfig upserts each entry keyed on config_key, overwriting the
// value and updated_at of an existing row.
func PersistConfig(tx *gorm.DB, entries []ConfigEntry) error {
	now := time.Now()
	for _, e := range entries {
		row := domain.SysConfig{
			ID:          common.UUIDint64(),
			ConfigKey:   e.Key,
			ConfigValue: e.Value,
			Description: e.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "config_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"config_value": e.Value,
				"updated_at":   now,
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
	}
	return nil
}
