package bootstrap

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// State names a stop of the initialization state machine.
type State string

const (
	StateIdle              State = "idle"
	StateProbingConnection State = "probing-connection"
	StateProvisioning      State = "provisioning"
	StateSeeding           State = "seeding"
	StateWritingAdmin      State = "writing-admin"
	StatePersistingConfig  State = "persisting-config"
	StateCommitted         State = "committed"
	StateFailed            State = "failed"
)

// DefaultTimeout bounds the probe plus the transactional span.
const DefaultTimeout = 60 * time.Second

// InitRequest carries everything one initialization attempt needs.
type InitRequest struct {
	DB    ConnectionParams `json:"db_config"`
	Admin AdminAccount     `json:"admin_user"`
}

// InitResult reports the terminal state of a successful attempt.
type InitResult struct {
	State              State `json:"state"`
	AdminUserID        int64 `json:"admin_user_id,string"`
	AccountingSystemID int64 `json:"accounting_system_id,string"`
}

// Orchestrator drives the bootstrap sequence:
//
//	Idle -> ProbingConnection -> Provisioning -> Seeding -> WritingAdmin
//	     -> PersistingConfig -> Committed
//
// with Failed reachable from every non-terminal state. The four mutating
// states share one transaction; any failure rolls the whole attempt back, so
// a half-applied bootstrap is never observable and re-running after a failure
// is always safe. Every write is an upsert, which also makes a full re-run
// with the same input idempotent.
type Orchestrator struct {
	timeout time.Duration
}

func NewOrchestrator(timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{timeout: timeout}
}

func (o *Orchestrator) validate(req InitRequest) (Dialect, error) {
	dialect, err := DialectFor(req.DB.Type)
	if err != nil {
		return nil, &ValidationError{Field: "dbConfig.type", Reason: err.Error()}
	}
	if dialect.Name() != "sqlite" && strings.TrimSpace(req.DB.Host) == "" {
		return nil, &ValidationError{Field: "dbConfig.host", Reason: "must not be empty"}
	}
	if strings.TrimSpace(req.DB.Schema) == "" {
		return nil, &ValidationError{Field: "dbConfig.schema", Reason: "must not be empty"}
	}
	if err := req.Admin.validate(); err != nil {
		return nil, err
	}
	return dialect, nil
}

// Initialize runs one bootstrap attempt. No I/O happens before validation
// passes, and no transaction is opened before the connection probe succeeds.
func (o *Orchestrator) Initialize(ctx context.Context, req InitRequest) (*InitResult, error) {
	state := StateIdle

	dialect, err := o.validate(req)
	if err != nil {
		return nil, o.failed(state, err)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	req.DB.Timeout = o.timeout

	state = o.transition(state, StateProbingConnection)
	if err := Probe(ctx, req.DB); err != nil {
		return nil, o.failed(state, err)
	}

	// Schema creation auto-commits on MySQL, so it runs idempotently on the
	// server-level connection ahead of the transactional span.
	serverDB, err := openQuiet(dialect.ServerDialector(req.DB))
	if err != nil {
		closeDB(serverDB)
		return nil, o.failed(state, &ConnectionError{Err: err})
	}
	err = EnsureSchema(serverDB.WithContext(ctx), dialect, req.DB.Schema)
	closeDB(serverDB)
	if err != nil {
		return nil, o.failed(state, &ProvisioningError{Step: StateProvisioning, Err: err})
	}

	schemaDB, err := openQuiet(dialect.SchemaDialector(req.DB))
	if err != nil {
		closeDB(schemaDB)
		return nil, o.failed(state, &ConnectionError{Err: err})
	}
	defer closeDB(schemaDB)

	result := &InitResult{}
	err = schemaDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state = o.transition(state, StateProvisioning)
		if err := ProvisionTables(tx); err != nil {
			return &ProvisioningError{Step: StateProvisioning, Err: err}
		}

		state = o.transition(state, StateSeeding)
		accountingSystemID, err := SeedReferenceData(tx)
		if err != nil {
			return &ProvisioningError{Step: StateSeeding, Err: err}
		}
		result.AccountingSystemID = accountingSystemID

		state = o.transition(state, StateWritingAdmin)
		adminID, err := WriteAdmin(tx, req.Admin)
		if err != nil {
			if _, ok := err.(*ValidationError); ok {
				return err
			}
			return &ProvisioningError{Step: StateWritingAdmin, Err: err}
		}
		result.AdminUserID = adminID

		state = o.transition(state, StatePersistingConfig)
		if err := PersistConfig(tx, initConfigEntries(req.DB)); err != nil {
			return &ProvisioningError{Step: StatePersistingConfig, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, o.failed(state, err)
	}

	state = o.transition(state, StateCommitted)
	result.State = state
	zap.L().Info("system initialization committed",
		zap.String("schema", req.DB.Schema),
		zap.String("admin", req.Admin.Username))
	return result, nil
}

func (o *Orchestrator) transition(from, to State) State {
	zap.L().Debug("initialization state transition",
		zap.String("from", string(from)), zap.String("to", string(to)))
	return to
}

func (o *Orchestrator) failed(from State, err error) error {
	zap.L().Error("system initialization failed",
		zap.String("state", string(from)), zap.Error(err))
	return err
}

func initConfigEntries(p ConnectionParams) []ConfigEntry {
	return []ConfigEntry{
		{Key: ConfigKeySystemInitialized, Value: "true", Description: "completion marker written by the initialization flow"},
		{Key: ConfigKeyInitTime, Value: time.Now().Format(time.RFC3339), Description: "time of the last successful initialization"},
		{Key: ConfigKeyDbType, Value: p.Type, Description: "database type used at initialization"},
		{Key: ConfigKeyDbHost, Value: p.Host, Description: "database host used at initialization"},
		{Key: ConfigKeyDbPort, Value: strconv.Itoa(p.Port), Description: "database port used at initialization"},
		{Key: ConfigKeyDbUser, Value: p.Username, Description: "database user used at initialization"},
		{Key: ConfigKeyDbName, Value: p.Schema, Description: "system schema name"},
	}
}
