package domain

import (
	"time"
)

// AccountingSystem is the immutable reference catalogue of accounting
// standards; rows are seeded during initialization and looked up by code.
type AccountingSystem struct {
	ID            int64     `json:"id,string" form:"id"`
	Code          string    `gorm:"size:50;uniqueIndex:uk_accounting_system_code_version" json:"code" form:"code"`
	Version       string    `gorm:"size:20;uniqueIndex:uk_accounting_system_code_version" json:"version" form:"version"`
	Name          string    `gorm:"size:100" json:"name" form:"name"`
	Description   string    `gorm:"size:200" json:"description" form:"description"`
	EffectiveDate time.Time `json:"effective_date" form:"effective_date"`
	Status        int       `gorm:"default:1" json:"status" form:"status"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     int64     `json:"created_by,string"`
}

// TableName Specify table name
func (AccountingSystem) TableName() string {
	return "sys_accounting_system"
}

// Company is an account set: one tenant's isolated set of books, backed by
// its own database named DbName.
type Company struct {
	ID                 int64     `json:"id,string" form:"id"`
	CompanyCode        string    `gorm:"size:50;uniqueIndex" json:"company_code" form:"company_code"`
	CompanyName        string    `gorm:"size:100" json:"company_name" form:"company_name"`
	TaxCode            string    `gorm:"size:50" json:"tax_code" form:"tax_code"`
	LegalPerson        string    `gorm:"size:50" json:"legal_person" form:"legal_person"`
	Contact            string    `gorm:"size:50" json:"contact" form:"contact"`
	Phone              string    `gorm:"size:20" json:"phone" form:"phone"`
	Address            string    `gorm:"size:200" json:"address" form:"address"`
	Email              string    `gorm:"size:100" json:"email" form:"email"`
	DbName             string    `gorm:"size:50;uniqueIndex" json:"db_name" form:"db_name"`
	FiscalYear         int       `json:"fiscal_year" form:"fiscal_year"`
	PeriodType         int       `gorm:"default:12" json:"period_type" form:"period_type"`
	BeginDate          time.Time `json:"begin_date" form:"begin_date"`
	CurrencyCode       string    `gorm:"size:10" json:"currency_code" form:"currency_code"`
	AccountingSystemID int64     `gorm:"index" json:"accounting_system_id,string" form:"accounting_system_id"`
	Status             int       `gorm:"default:1" json:"status" form:"status"`
	CreatedAt          time.Time `json:"created_at"`
	CreatedBy          int64     `json:"created_by,string"`
	UpdatedAt          time.Time `json:"updated_at"`
	UpdatedBy          int64     `json:"updated_by,string"`
}

// TableName Specify table name
func (Company) TableName() string {
	return "sys_company"
}
