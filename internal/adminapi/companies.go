package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zytsoft/zytbooks/internal/bootstrap"
	"github.com/zytsoft/zytbooks/internal/domain"
	"github.com/zytsoft/zytbooks/internal/webserver"
	"github.com/zytsoft/zytbooks/pkg/common"
)

func registerAccountRoutes() {
	webserver.ApiGET("/account/accounting-systems", listAccountingSystems)
	webserver.ApiGET("/account/companies", listCompanies)
	webserver.ApiGET("/account/companies/:id", getCompany)
	webserver.ApiPOST("/account/companies", createCompany)
	webserver.ApiPUT("/account/companies/:id", updateCompany)
	webserver.ApiDELETE("/account/companies/:id", deleteCompany)
	webserver.ApiPUT("/account/companies/:id/status", updateCompanyStatus)
}

func listAccountingSystems(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	var systems []domain.AccountingSystem
	if err := db.Order("code").Find(&systems).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query accounting systems", err.Error())
	}
	return ok(c, systems)
}

func listCompanies(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	page, pageSize := parsePagination(c)

	base := db.Model(&domain.Company{})
	if keyword := strings.TrimSpace(c.QueryParam("keyword")); keyword != "" {
		like := "%" + keyword + "%"
		base = base.Where("company_code LIKE ? OR company_name LIKE ?", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query companies", err.Error())
	}

	var companies []domain.Company
	if err := base.Order("id DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&companies).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query companies", err.Error())
	}
	return paged(c, companies, total, page, pageSize)
}

func getCompany(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid company ID", nil)
	}
	var company domain.Company
	if err := db.Where("id = ?", id).First(&company).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "COMPANY_NOT_FOUND", "Company not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query company", err.Error())
	}
	return ok(c, company)
}

type companyPayload struct {
	CompanyCode        string `json:"company_code"`
	CompanyName        string `json:"company_name"`
	TaxCode            string `json:"tax_code"`
	LegalPerson        string `json:"legal_person"`
	Contact            string `json:"contact"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	Email              string `json:"email"`
	DbName             string `json:"db_name"`
	FiscalYear         int    `json:"fiscal_year"`
	PeriodType         int    `json:"period_type"`
	BeginDate          string `json:"begin_date"`
	CurrencyCode       string `json:"currency_code"`
	AccountingSystemID int64  `json:"accounting_system_id,string"`
}

func createCompany(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	var payload companyPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse company parameters", nil)
	}
	if strings.TrimSpace(payload.CompanyCode) == "" || strings.TrimSpace(payload.CompanyName) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_FIELDS", "Company code and name are required", nil)
	}
	if strings.TrimSpace(payload.DbName) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_DB_NAME", "Company database name is required", nil)
	}

	var dup domain.Company
	if err := db.Where("company_code = ? OR db_name = ?", payload.CompanyCode, payload.DbName).
		First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_COMPANY", "Company code or database name already in use", nil)
	}

	beginDate, err := time.ParseInLocation("2006-01-02", payload.BeginDate, time.Local)
	if err != nil {
		beginDate = time.Date(time.Now().Year(), 1, 1, 0, 0, 0, 0, time.Local)
	}

	fiscalYear := payload.FiscalYear
	if fiscalYear == 0 {
		fiscalYear = time.Now().Year()
	}
	periodType := payload.PeriodType
	if periodType == 0 {
		periodType = 12
	}
	currency := payload.CurrencyCode
	if currency == "" {
		currency = "CNY"
	}

	now := time.Now()
	company := domain.Company{
		ID:                 common.UUIDint64(),
		CompanyCode:        strings.TrimSpace(payload.CompanyCode),
		CompanyName:        strings.TrimSpace(payload.CompanyName),
		TaxCode:            payload.TaxCode,
		LegalPerson:        payload.LegalPerson,
		Contact:            payload.Contact,
		Phone:              payload.Phone,
		Address:            payload.Address,
		Email:              payload.Email,
		DbName:             strings.TrimSpace(payload.DbName),
		FiscalYear:         fiscalYear,
		PeriodType:         periodType,
		BeginDate:          beginDate,
		CurrencyCode:       currency,
		AccountingSystemID: payload.AccountingSystemID,
		Status:             common.StatusEnabled,
		CreatedAt:          now,
		CreatedBy:          currentUserID(c),
		UpdatedAt:          now,
	}
	if err := db.Create(&company).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create company", err.Error())
	}
	return ok(c, company)
}

func updateCompany(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid company ID", nil)
	}
	var payload companyPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse company parameters", nil)
	}
	var company domain.Company
	if err := db.Where("id = ?", id).First(&company).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "COMPANY_NOT_FOUND", "Company not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query company", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.CompanyName != "" {
		updates["company_name"] = strings.TrimSpace(payload.CompanyName)
	}
	if payload.TaxCode != "" {
		updates["tax_code"] = payload.TaxCode
	}
	if payload.LegalPerson != "" {
		updates["legal_person"] = payload.LegalPerson
	}
	if payload.Contact != "" {
		updates["contact"] = payload.Contact
	}
	if payload.Phone != "" {
		updates["phone"] = payload.Phone
	}
	if payload.Address != "" {
		updates["address"] = payload.Address
	}
	if payload.Email != "" {
		updates["email"] = payload.Email
	}
	if payload.AccountingSystemID != 0 {
		updates["accounting_system_id"] = payload.AccountingSystemID
	}
	updates["updated_at"] = time.Now()
	updates["updated_by"] = currentUserID(c)

	if err := db.Model(&company).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update company", err.Error())
	}
	db.Where("id = ?", id).First(&company)
	return ok(c, company)
}

func deleteCompany(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid company ID", nil)
	}
	var company domain.Company
	if err := db.Where("id = ?", id).First(&company).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "COMPANY_NOT_FOUND", "Company not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query company", err.Error())
	}
	if company.CompanyCode == bootstrap.DefaultCompanyCode {
		return fail(c, http.StatusConflict, "DEFAULT_COMPANY", "The default account set cannot be deleted", nil)
	}
	if err := db.Where("id = ?", id).Delete(&domain.Company{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete company", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

func updateCompanyStatus(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid company ID", nil)
	}
	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", nil)
	}
	if payload.Status != common.StatusEnabled && payload.Status != common.StatusDisabled {
		return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be 0 or 1", nil)
	}
	if err := db.Model(&domain.Company{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     payload.Status,
		"updated_at": time.Now(),
		"updated_by": currentUserID(c),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update status", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id, "status": payload.Status})
}
