package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zytsoft/zytbooks/internal/domain"
	"github.com/zytsoft/zytbooks/pkg/common"
)

func testAdmin() AdminAccount {
	return AdminAccount{Username: "admin", Password: "Secret123"}
}

func TestInitializeEndToEnd(t *testing.T) {
	params, keeper := sharedMemDB(t)

	orch := NewOrchestrator(DefaultTimeout)
	result, err := orch.Initialize(context.Background(), InitRequest{DB: params, Admin: testAdmin()})
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)
	assert.NotZero(t, result.AdminUserID)
	assert.NotZero(t, result.AccountingSystemID)

	inspect, err := InspectSchema(keeper)
	require.NoError(t, err)
	assert.Equal(t, PhaseReady, inspect.Phase)

	var admins []domain.SysUser
	require.NoError(t, keeper.Where("username = ?", "admin").Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.True(t, admins[0].IsAdmin)
	assert.Equal(t, common.StatusEnabled, admins[0].Status)
	assert.NotEqual(t, "Secret123", admins[0].Password)
	assert.True(t, common.VerifyPassword("Secret123", admins[0].Password))

	var marker domain.SysConfig
	require.NoError(t, keeper.Where("config_key = ?", ConfigKeySystemInitialized).First(&marker).Error)
	assert.Equal(t, "true", marker.ConfigValue)

	var initTime domain.SysConfig
	require.NoError(t, keeper.Where("config_key = ?", ConfigKeyInitTime).First(&initTime).Error)
	_, err = time.Parse(time.RFC3339, initTime.ConfigValue)
	assert.NoError(t, err)
}

func TestInitializeIsIdempotent(t *testing.T) {
	params, keeper := sharedMemDB(t)
	orch := NewOrchestrator(DefaultTimeout)

	first, err := orch.Initialize(context.Background(), InitRequest{DB: params, Admin: testAdmin()})
	require.NoError(t, err)

	second, err := orch.Initialize(context.Background(), InitRequest{DB: params, Admin: testAdmin()})
	require.NoError(t, err)

	assert.Equal(t, first.AdminUserID, second.AdminUserID)
	assert.Equal(t, first.AccountingSystemID, second.AccountingSystemID)

	var admins int64
	require.NoError(t, keeper.Model(&domain.SysUser{}).Where("username = ?", "admin").Count(&admins).Error)
	assert.EqualValues(t, 1, admins)

	var systems int64
	require.NoError(t, keeper.Model(&domain.AccountingSystem{}).Count(&systems).Error)
	assert.EqualValues(t, 2, systems)

	var companies int64
	require.NoError(t, keeper.Model(&domain.Company{}).
		Where("company_code = ?", DefaultCompanyCode).Count(&companies).Error)
	assert.EqualValues(t, 1, companies)
}

func TestInitializeReusesAdminRowWithNewPassword(t *testing.T) {
	params, keeper := sharedMemDB(t)
	orch := NewOrchestrator(DefaultTimeout)

	_, err := orch.Initialize(context.Background(), InitRequest{DB: params, Admin: testAdmin()})
	require.NoError(t, err)

	var before domain.SysUser
	require.NoError(t, keeper.Where("username = ?", "admin").First(&before).Error)

	_, err = orch.Initialize(context.Background(), InitRequest{
		DB:    params,
		Admin: AdminAccount{Username: "admin", Password: "Changed456"},
	})
	require.NoError(t, err)

	var after domain.SysUser
	require.NoError(t, keeper.Where("username = ?", "admin").First(&after).Error)
	assert.Equal(t, before.ID, after.ID)
	assert.True(t, common.VerifyPassword("Changed456", after.Password))
	assert.False(t, common.VerifyPassword("Secret123", after.Password))
}

func TestInitializeValidatesBeforeAnyIO(t *testing.T) {
	params, keeper := sharedMemDB(t)
	orch := NewOrchestrator(DefaultTimeout)

	_, err := orch.Initialize(context.Background(), InitRequest{
		DB:    params,
		Admin: AdminAccount{Username: "admin", Password: ""},
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Nothing may have been written.
	assert.False(t, keeper.Migrator().HasTable("sys_user"))
	assert.False(t, keeper.Migrator().HasTable("sys_config"))
}

func TestInitializeRejectsUnknownDatabaseType(t *testing.T) {
	orch := NewOrchestrator(DefaultTimeout)
	_, err := orch.Initialize(context.Background(), InitRequest{
		DB:    ConnectionParams{Type: "oracle", Host: "localhost", Schema: "zyt_sys"},
		Admin: testAdmin(),
	})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestTransactionalSpanRollsBackEverything(t *testing.T) {
	_, keeper := sharedMemDB(t)

	injected := errors.New("boom")
	err := keeper.Transaction(func(tx *gorm.DB) error {
		require.NoError(t, ProvisionTables(tx))
		_, err := SeedReferenceData(tx)
		require.NoError(t, err)
		_, err = WriteAdmin(tx, testAdmin())
		require.NoError(t, err)
		return injected
	})
	require.ErrorIs(t, err, injected)

	// Rollback must leave no trace of the attempt: the inspector sees the
	// tables as missing, never "ready".
	inspect, err := InspectSchema(keeper)
	require.NoError(t, err)
	assert.Equal(t, PhaseNoTables, inspect.Phase)
}

func TestInitializeHonorsContextCancellation(t *testing.T) {
	params, _ := sharedMemDB(t)
	orch := NewOrchestrator(DefaultTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := orch.Initialize(ctx, InitRequest{DB: params, Admin: testAdmin()})
	require.Error(t, err)
}
