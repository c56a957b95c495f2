package bootstrap

import (
	"fmt"
	"regexp"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// ConnectionParams identifies a database server and the system schema on it.
// Schema is ignored by ServerDialector so the connection succeeds before the
// schema exists. Timeout bounds the driver-level dial and is set by the
// caller (the orchestrator uses its own configured timeout).
type ConnectionParams struct {
	Type     string        `json:"type"`
	Host     string        `json:"host"`
	Port     int           `json:"port"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Schema   string        `json:"schema"`
	Timeout  time.Duration `json:"-"`
}

func (p ConnectionParams) dialTimeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return DefaultTimeout
}

// Dialect abstracts the per-engine pieces of the bootstrap flow: how to
// connect with and without a target schema, and how to check for and create
// the schema itself. Everything table-level goes through the GORM migrator
// and needs no dialect knowledge.
type Dialect interface {
	Name() string
	// ServerDialector connects with no schema selected.
	ServerDialector(p ConnectionParams) gorm.Dialector
	// SchemaDialector connects to the system schema.
	SchemaDialector(p ConnectionParams) gorm.Dialector
	SchemaExists(db *gorm.DB, name string) (bool, error)
	CreateSchema(db *gorm.DB, name string) error
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validIdentifier guards schema names interpolated into DDL, which cannot be
// bound as statement parameters.
func validIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("unsafe schema name %q", name)
	}
	return nil
}

// DialectFor resolves a dialect by database type name.
func DialectFor(dbType string) (Dialect, error) {
	switch dbType {
	case "mysql":
		return mysqlDialect{}, nil
	case "postgres":
		return postgresDialect{}, nil
	case "sqlserver", "mssql":
		return sqlserverDialect{}, nil
	case "sqlite":
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }

// lazyMysql defers the version query a plain mysql.Open runs at gorm.Open
// time, so the first dial happens inside the caller's PingContext and is
// bounded by its context.
func lazyMysql(dsn string) gorm.Dialector {
	return mysql.New(mysql.Config{DSN: dsn, SkipInitializeWithVersion: true})
}

func (mysqlDialect) ServerDialector(p ConnectionParams) gorm.Dialector {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/?charset=utf8mb4&parseTime=True&loc=Local&timeout=%s",
		p.Username, p.Password, p.Host, p.Port, p.dialTimeout())
	return lazyMysql(dsn)
}

func (mysqlDialect) SchemaDialector(p ConnectionParams) gorm.Dialector {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%s",
		p.Username, p.Password, p.Host, p.Port, p.Schema, p.dialTimeout())
	return lazyMysql(dsn)
}

func (mysqlDialect) SchemaExists(db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.Raw("SELECT COUNT(*) FROM information_schema.SCHEMATA WHERE SCHEMA_NAME = ?", name).
		Scan(&count).Error
	return count > 0, err
}

func (mysqlDialect) CreateSchema(db *gorm.DB, name string) error {
	if err := validIdentifier(name); err != nil {
		return err
	}
	return db.Exec(fmt.Sprintf(
		"CREATE DATABASE IF NOT EXISTS `%s` DEFAULT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", name)).Error
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) ServerDialector(p ConnectionParams) gorm.Dialector {
	// The maintenance database is always present, so the probe works before
	// the system schema exists.
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=postgres sslmode=disable connect_timeout=%d",
		p.Host, p.Port, p.Username, p.Password, int(p.dialTimeout().Seconds()))
	return postgres.Open(dsn)
}

func (postgresDialect) SchemaDialector(p ConnectionParams) gorm.Dialector {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable connect_timeout=%d",
		p.Host, p.Port, p.Username, p.Password, p.Schema, int(p.dialTimeout().Seconds()))
	return postgres.Open(dsn)
}

func (postgresDialect) SchemaExists(db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.Raw("SELECT COUNT(*) FROM pg_database WHERE datname = ?", name).Scan(&count).Error
	return count > 0, err
}

func (d postgresDialect) CreateSchema(db *gorm.DB, name string) error {
	if err := validIdentifier(name); err != nil {
		return err
	}
	// No IF NOT EXISTS for CREATE DATABASE, so check first.
	exists, err := d.SchemaExists(db, name)
	if err != nil || exists {
		return err
	}
	return db.Exec(fmt.Sprintf(`CREATE DATABASE "%s" ENCODING 'UTF8'`, name)).Error
}

type sqlserverDialect struct{}

func (sqlserverDialect) Name() string { return "sqlserver" }

func (sqlserverDialect) ServerDialector(p ConnectionParams) gorm.Dialector {
	dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%d?dial+timeout=%d",
		p.Username, p.Password, p.Host, p.Port, int(p.dialTimeout().Seconds()))
	return sqlserver.Open(dsn)
}

func (sqlserverDialect) SchemaDialector(p ConnectionParams) gorm.Dialector {
	dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s&dial+timeout=%d",
		p.Username, p.Password, p.Host, p.Port, p.Schema, int(p.dialTimeout().Seconds()))
	return sqlserver.Open(dsn)
}

func (sqlserverDialect) SchemaExists(db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.Raw("SELECT COUNT(*) FROM sys.databases WHERE name = ?", name).Scan(&count).Error
	return count > 0, err
}

func (d sqlserverDialect) CreateSchema(db *gorm.DB, name string) error {
	if err := validIdentifier(name); err != nil {
		return err
	}
	exists, err := d.SchemaExists(db, name)
	if err != nil || exists {
		return err
	}
	return db.Exec(fmt.Sprintf("CREATE DATABASE [%s]", name)).Error
}

// sqliteDialect backs the test suites; a file (or shared in-memory) database
// plays the role of the server and the schema at once.
type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) ServerDialector(p ConnectionParams) gorm.Dialector {
	return sqlite.Open(p.Schema)
}

func (sqliteDialect) SchemaDialector(p ConnectionParams) gorm.Dialector {
	return sqlite.Open(p.Schema)
}

func (sqliteDialect) SchemaExists(db *gorm.DB, name string) (bool, error) {
	// Opening the handle is what creates the database file.
	return true, nil
}

func (sqliteDialect) CreateSchema(db *gorm.DB, name string) error {
	return nil
}
