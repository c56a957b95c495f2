package domain

import (
	"time"
)

// Voucher rows are plain storage; posting and balancing rules live with the
// per-company bookkeeping services, not in the administration backend.
type Voucher struct {
	ID              int64     `json:"id,string" form:"id"`
	CompanyID       int64     `gorm:"index" json:"company_id,string" form:"company_id"`
	VoucherNo       string    `gorm:"size:50;index" json:"voucher_no" form:"voucher_no"`
	VoucherDate     time.Time `json:"voucher_date" form:"voucher_date"`
	Period          string    `gorm:"size:10" json:"period" form:"period"`
	Summary         string    `gorm:"size:200" json:"summary" form:"summary"`
	AttachmentCount int       `json:"attachment_count" form:"attachment_count"`
	Status          int       `gorm:"default:1" json:"status" form:"status"`
	CreatedAt       time.Time `json:"created_at"`
	CreatedBy       int64     `json:"created_by,string"`
	UpdatedAt       time.Time `json:"updated_at"`
	UpdatedBy       int64     `json:"updated_by,string"`
}

// TableName Specify table name
func (Voucher) TableName() string {
	return "sys_voucher"
}

type VoucherEntry struct {
	ID          int64     `json:"id,string" form:"id"`
	VoucherID   int64     `gorm:"index" json:"voucher_id,string" form:"voucher_id"`
	LineNo      int       `json:"line_no" form:"line_no"`
	Summary     string    `gorm:"size:200" json:"summary" form:"summary"`
	AccountCode string    `gorm:"size:50;index" json:"account_code" form:"account_code"`
	Debit       float64   `json:"debit" form:"debit"`
	Credit      float64   `json:"credit" form:"credit"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName Specify table name
func (VoucherEntry) TableName() string {
	return "sys_voucher_entry"
}
