package adminapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zytsoft/zytbooks/internal/bootstrap"
	"github.com/zytsoft/zytbooks/internal/domain"
	"github.com/zytsoft/zytbooks/pkg/common"
)

func seedReference(t *testing.T, s *testServer) int64 {
	t.Helper()
	id, err := bootstrap.SeedReferenceData(s.db)
	require.NoError(t, err)
	return id
}

func TestCompanyCRUD(t *testing.T) {
	s := newTestServer(t, true)
	accountingSystemID := seedReference(t, s)
	admin := seedUser(t, s.db, "admin", "Secret123", true)
	token := issueToken(t, admin)

	body := fmt.Sprintf(`{
		"company_code": "ACME",
		"company_name": "Acme Trading Ltd",
		"db_name": "zyt_book_acme",
		"begin_date": "2026-01-01",
		"accounting_system_id": "%d"
	}`, accountingSystemID)
	rec := s.request(t, http.MethodPost, "/api/account/companies", body, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec.Body.Bytes())
	var created domain.Company
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "CNY", created.CurrencyCode)
	assert.Equal(t, 12, created.PeriodType)
	assert.Equal(t, time.Now().Year(), created.FiscalYear)

	// Duplicate code or db name conflicts.
	rec = s.request(t, http.MethodPost, "/api/account/companies", body, token)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Update
	rec = s.request(t, http.MethodPut, fmt.Sprintf("/api/account/companies/%d", created.ID),
		`{"company_name":"Acme Holdings Ltd"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored domain.Company
	require.NoError(t, s.db.First(&stored, created.ID).Error)
	assert.Equal(t, "Acme Holdings Ltd", stored.CompanyName)

	// Status toggle
	rec = s.request(t, http.MethodPut, fmt.Sprintf("/api/account/companies/%d/status", created.ID),
		`{"status":0}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, s.db.First(&stored, created.ID).Error)
	assert.Equal(t, common.StatusDisabled, stored.Status)

	// Delete
	rec = s.request(t, http.MethodDelete, fmt.Sprintf("/api/account/companies/%d", created.ID), "", token)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDefaultCompanyCannotBeDeleted(t *testing.T) {
	s := newTestServer(t, true)
	seedReference(t, s)
	admin := seedUser(t, s.db, "admin", "Secret123", true)
	token := issueToken(t, admin)

	var def domain.Company
	require.NoError(t, s.db.Where("company_code = ?", bootstrap.DefaultCompanyCode).First(&def).Error)

	rec := s.request(t, http.MethodDelete, fmt.Sprintf("/api/account/companies/%d", def.ID), "", token)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestListAccountingSystems(t *testing.T) {
	s := newTestServer(t, true)
	seedReference(t, s)
	admin := seedUser(t, s.db, "admin", "Secret123", true)
	token := issueToken(t, admin)

	rec := s.request(t, http.MethodGet, "/api/account/accounting-systems", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec.Body.Bytes())
	var systems []domain.AccountingSystem
	require.NoError(t, json.Unmarshal(env.Data, &systems))
	require.Len(t, systems, 2)
	assert.Equal(t, "PRC-GAAP", systems[0].Code)
}
