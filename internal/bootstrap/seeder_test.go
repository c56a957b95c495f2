package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zytsoft/zytbooks/internal/domain"
)

func TestSeedReferenceDataIsUpsertSafe(t *testing.T) {
	_, keeper := sharedMemDB(t)
	require.NoError(t, keeper.Migrator().AutoMigrate(domain.Tables...))

	firstID, err := SeedReferenceData(keeper)
	require.NoError(t, err)
	require.NotZero(t, firstID)

	secondID, err := SeedReferenceData(keeper)
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)

	var systems int64
	require.NoError(t, keeper.Model(&domain.AccountingSystem{}).Count(&systems).Error)
	assert.EqualValues(t, 2, systems)

	var companies int64
	require.NoError(t, keeper.Model(&domain.Company{}).Count(&companies).Error)
	assert.EqualValues(t, 1, companies)
}

func TestSeedKeepsExistingRows(t *testing.T) {
	_, keeper := sharedMemDB(t)
	require.NoError(t, keeper.Migrator().AutoMigrate(domain.Tables...))

	_, err := SeedReferenceData(keeper)
	require.NoError(t, err)

	// Delete one preset and seed again: only the missing one comes back.
	require.NoError(t, keeper.Where("code = ?", "PRC-SBAS").
		Delete(&domain.AccountingSystem{}).Error)

	_, err = SeedReferenceData(keeper)
	require.NoError(t, err)

	var systems int64
	require.NoError(t, keeper.Model(&domain.AccountingSystem{}).Count(&systems).Error)
	assert.EqualValues(t, 2, systems)
}

func TestSeedDefaultCompanyShape(t *testing.T) {
	_, keeper := sharedMemDB(t)
	require.NoError(t, keeper.Migrator().AutoMigrate(domain.Tables...))

	defaultID, err := SeedReferenceData(keeper)
	require.NoError(t, err)

	var company domain.Company
	require.NoError(t, keeper.Where("company_code = ?", DefaultCompanyCode).First(&company).Error)
	assert.Equal(t, defaultID, company.AccountingSystemID)
	assert.Equal(t, "CNY", company.CurrencyCode)
	assert.Equal(t, 12, company.PeriodType)
	assert.NotEmpty(t, company.DbName)
}
