package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zytsoft/zytbooks/internal/domain"
	"github.com/zytsoft/zytbooks/internal/webserver"
	"github.com/zytsoft/zytbooks/pkg/common"
)

func registerVouchersRoutes() {
	webserver.ApiGET("/vouchers", listVouchers)
	webserver.ApiGET("/vouchers/:id", getVoucher)
	webserver.ApiPOST("/vouchers", createVoucher)
	webserver.ApiPUT("/vouchers/:id", updateVoucher)
	webserver.ApiDELETE("/vouchers/:id", deleteVoucher)
}

func listVouchers(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	page, pageSize := parsePagination(c)

	base := db.Model(&domain.Voucher{})
	if companyID := c.QueryParam("company_id"); companyID != "" {
		base = base.Where("company_id = ?", companyID)
	}
	if period := c.QueryParam("period"); period != "" {
		base = base.Where("period = ?", period)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query vouchers", err.Error())
	}

	var vouchers []domain.Voucher
	if err := base.Order("voucher_date DESC, id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&vouchers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query vouchers", err.Error())
	}
	return paged(c, vouchers, total, page, pageSize)
}

type voucherDetail struct {
	domain.Voucher
	Entries []domain.VoucherEntry `json:"entries"`
}

func getVoucher(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid voucher ID", nil)
	}
	var voucher domain.Voucher
	if err := db.Where("id = ?", id).First(&voucher).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "VOUCHER_NOT_FOUND", "Voucher not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query voucher", err.Error())
	}
	var entries []domain.VoucherEntry
	if err := db.Where("voucher_id = ?", id).Order("line_no").Find(&entries).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query voucher entries", err.Error())
	}
	return ok(c, voucherDetail{Voucher: voucher, Entries: entries})
}

type voucherEntryPayload struct {
	LineNo      int     `json:"line_no"`
	Summary     string  `json:"summary"`
	AccountCode string  `json:"account_code"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

type voucherPayload struct {
	CompanyID       int64                 `json:"company_id,string"`
	VoucherNo       string                `json:"voucher_no"`
	VoucherDate     string                `json:"voucher_date"`
	Period          string                `json:"period"`
	Summary         string                `json:"summary"`
	AttachmentCount int                   `json:"attachment_count"`
	Entries         []voucherEntryPayload `json:"entries"`
}

func createVoucher(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	var payload voucherPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse voucher parameters", nil)
	}
	if payload.CompanyID == 0 || strings.TrimSpace(payload.VoucherNo) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_FIELDS", "Company and voucher number are required", nil)
	}

	voucherDate, err := time.ParseInLocation("2006-01-02", payload.VoucherDate, time.Local)
	if err != nil {
		voucherDate = time.Now()
	}

	now := time.Now()
	voucher := domain.Voucher{
		ID:              common.UUIDint64(),
		CompanyID:       payload.CompanyID,
		VoucherNo:       strings.TrimSpace(payload.VoucherNo),
		VoucherDate:     voucherDate,
		Period:          payload.Period,
		Summary:         payload.Summary,
		AttachmentCount: payload.AttachmentCount,
		Status:          common.StatusEnabled,
		CreatedAt:       now,
		CreatedBy:       currentUserID(c),
		UpdatedAt:       now,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&voucher).Error; err != nil {
			return err
		}
		for _, e := range payload.Entries {
			entry := domain.VoucherEntry{
				ID:          common.UUIDint64(),
				VoucherID:   voucher.ID,
				LineNo:      e.LineNo,
				Summary:     e.Summary,
				AccountCode: e.AccountCode,
				Debit:       e.Debit,
				Credit:      e.Credit,
				CreatedAt:   now,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create voucher", err.Error())
	}
	return ok(c, voucher)
}

func updateVoucher(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid voucher ID", nil)
	}
	var payload voucherPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse voucher parameters", nil)
	}
	var voucher domain.Voucher
	if err := db.Where("id = ?", id).First(&voucher).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "VOUCHER_NOT_FOUND", "Voucher not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query voucher", err.Error())
	}

	now := time.Now()
	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"updated_at": now,
			"updated_by": currentUserID(c),
		}
		if payload.Summary != "" {
			updates["summary"] = payload.Summary
		}
		if payload.Period != "" {
			updates["period"] = payload.Period
		}
		if payload.AttachmentCount != 0 {
			updates["attachment_count"] = payload.AttachmentCount
		}
		if payload.VoucherDate != "" {
			if d, err := time.ParseInLocation("2006-01-02", payload.VoucherDate, time.Local); err == nil {
				updates["voucher_date"] = d
			}
		}
		if err := tx.Model(&voucher).Updates(updates).Error; err != nil {
			return err
		}
		// Entries are replaced wholesale when supplied.
		if payload.Entries != nil {
			if err := tx.Where("voucher_id = ?", id).Delete(&domain.VoucherEntry{}).Error; err != nil {
				return err
			}
			for _, e := range payload.Entries {
				entry := domain.VoucherEntry{
					ID:          common.UUIDint64(),
					VoucherID:   id,
					LineNo:      e.LineNo,
					Summary:     e.Summary,
					AccountCode: e.AccountCode,
					Debit:       e.Debit,
					Credit:      e.Credit,
					CreatedAt:   now,
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update voucher", err.Error())
	}
	db.Where("id = ?", id).First(&voucher)
	return ok(c, voucher)
}

func deleteVoucher(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid voucher ID", nil)
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("voucher_id = ?", id).Delete(&domain.VoucherEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Voucher{}).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete voucher", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
