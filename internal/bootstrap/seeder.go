package bootstrap

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/zytsoft/zytbooks/internal/domain"
	"github.com/zytsoft/zytbooks/pkg/common"
)

const (
	// DefaultAccountingSystemCode designates the preset whose id seeds the
	// default company.
	DefaultAccountingSystemCode = "PRC-GAAP"
	DefaultCompanyCode          = "DEFAULT"
	defaultCompanyDbName        = "zyt_book_default"
)

func accountingSystemPresets() []domain.AccountingSystem {
	return []domain.AccountingSystem{
		{
			ID:            common.UUIDint64(),
			Code:          "PRC-GAAP",
			Version:       "2006",
			Name:          "Enterprise Accounting Standards",
			Description:   "Accounting standards for business enterprises",
			EffectiveDate: time.Date(2007, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:        common.StatusEnabled,
		},
		{
			ID:            common.UUIDint64(),
			Code:          "PRC-SBAS",
			Version:       "2013",
			Name:          "Small Business Accounting Standards",
			Description:   "Accounting standards for small business enterprises",
			EffectiveDate: time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:        common.StatusEnabled,
		},
	}
}

// SeedReferenceData inserts the accounting-standard presets that are not yet
// present and one default company. Existing rows are kept untouched, so the
// id returned for the default accounting system is stable across runs.
func SeedReferenceData(tx *gorm.DB) (int64, error) {
	presets := accountingSystemPresets()

	codes := make([]string, 0, len(presets))
	for _, p := range presets {
		codes = append(codes, p.Code)
	}

	var existing []domain.AccountingSystem
	if err := tx.Where("code IN ?", codes).Find(&existing).Error; err != nil {
		return 0, err
	}

	known := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		known[e.Code] = struct{}{}
	}

	var missing []domain.AccountingSystem
	for _, p := range presets {
		if _, ok := known[p.Code]; !ok {
			p.CreatedAt = time.Now()
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		if err := tx.Create(&missing).Error; err != nil {
			return 0, err
		}
	}

	var def domain.AccountingSystem
	if err := tx.Where("code = ?", DefaultAccountingSystemCode).First(&def).Error; err != nil {
		return 0, fmt.Errorf("default accounting system %s not found after seeding: %w",
			DefaultAccountingSystemCode, err)
	}

	if err := seedDefaultCompany(tx, def.ID); err != nil {
		return 0, err
	}
	return def.ID, nil
}

// seedDefaultCompany creates the default account set unless a company with
// the fixed code already exists.
func seedDefaultCompany(tx *gorm.DB, accountingSystemID int64) error {
	var count int64
	if err := tx.Model(&domain.Company{}).
		Where("company_code = ?", DefaultCompanyCode).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	return tx.Create(&domain.Company{
		ID:                 common.UUIDint64(),
		CompanyCode:        DefaultCompanyCode,
		CompanyName:        "Default Account Set",
		DbName:             defaultCompanyDbName,
		FiscalYear:         now.Year(),
		PeriodType:         12,
		BeginDate:          time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.Local),
		CurrencyCode:       "CNY",
		AccountingSystemID: accountingSystemID,
		Status:             common.StatusEnabled,
		CreatedAt:          now,
	}).Error
}
