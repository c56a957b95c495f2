package bootstrap

import (
	"gorm.io/gorm"

	"github.com/zytsoft/zytbooks/internal/domain"
)

// EnsureSchema idempotently creates the system schema through a server-level
// connection. MySQL auto-commits DDL, so this runs before the transactional
// span rather than inside it.
func EnsureSchema(serverDB *gorm.DB, dialect Dialect, name string) error {
	return dialect.CreateSchema(serverDB, name)
}

// ProvisionTables creates every registered table inside the supplied
// transaction. The migrator uses create-if-not-exists semantics, so re-running
// against an already provisioned schema is safe. Registry order puts the
// accounting-system reference table ahead of the company table that
// references it.
func ProvisionTables(tx *gorm.DB) error {
	return tx.Migrator().AutoMigrate(domain.Tables...)
}
