package bootstrap

import (
	"context"
	"fmt"

	"github.com/zytsoft/zytbooks/internal/domain"
	"gorm.io/gorm"
)

// Phase is the bootstrap phase the system is currently in.
type Phase string

const (
	PhaseNoSchema Phase = "no-schema"
	PhaseNoTables Phase = "no-tables"
	PhaseNoAdmin  Phase = "no-admin"
	PhaseReady    Phase = "ready"
	// PhaseUnknown means inspection itself failed; callers must treat it the
	// same as "not ready".
	PhaseUnknown Phase = "unknown"
)

type InspectResult struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message"`
}

// Inspector determines the bootstrap phase with three nested checks: schema
// exists, all required tables exist, an admin user row exists.
type Inspector struct {
	dialect Dialect
	params  ConnectionParams
}

func NewInspector(params ConnectionParams) (*Inspector, error) {
	dialect, err := DialectFor(params.Type)
	if err != nil {
		return nil, &ValidationError{Field: "dbConfig.type", Reason: err.Error()}
	}
	return &Inspector{dialect: dialect, params: params}, nil
}

// Inspect opens its own throwaway connections; both are closed before it
// returns. On any underlying error the result is PhaseUnknown together with
// a StateInspectionError, never a false "ready".
func (ins *Inspector) Inspect(ctx context.Context) (InspectResult, error) {
	serverDB, err := openQuiet(ins.dialect.ServerDialector(ins.params))
	if err != nil {
		closeDB(serverDB)
		return unknownResult(err)
	}

	exists, err := ins.dialect.SchemaExists(serverDB.WithContext(ctx), ins.params.Schema)
	closeDB(serverDB)
	if err != nil {
		return unknownResult(err)
	}
	if !exists {
		return InspectResult{
			Phase:   PhaseNoSchema,
			Message: fmt.Sprintf("system schema %s does not exist", ins.params.Schema),
		}, nil
	}

	schemaDB, err := openQuiet(ins.dialect.SchemaDialector(ins.params))
	if err != nil {
		closeDB(schemaDB)
		return unknownResult(err)
	}
	defer closeDB(schemaDB)

	return InspectSchema(schemaDB.WithContext(ctx))
}

// InspectSchema runs the table and admin-row checks against an already open
// handle connected to the system schema. The required-table list comes from
// the same registry the provisioner migrates.
func InspectSchema(db *gorm.DB) (InspectResult, error) {
	for _, name := range domain.TableNames() {
		if !db.Migrator().HasTable(name) {
			return InspectResult{
				Phase:   PhaseNoTables,
				Message: fmt.Sprintf("required table %s is missing", name),
			}, nil
		}
	}

	var admins int64
	if err := db.Model(&domain.SysUser{}).
		Where("is_admin = ?", true).
		Count(&admins).Error; err != nil {
		return unknownResult(err)
	}
	if admins == 0 {
		return InspectResult{Phase: PhaseNoAdmin, Message: "no administrator account exists"}, nil
	}
	return InspectResult{Phase: PhaseReady, Message: "system initialized"}, nil
}

func unknownResult(err error) (InspectResult, error) {
	inspErr := &StateInspectionError{Err: err}
	return InspectResult{Phase: PhaseUnknown, Message: inspErr.Error()}, inspErr
}
