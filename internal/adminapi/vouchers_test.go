package adminapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zytsoft/zytbooks/internal/domain"
)

func TestVoucherCRUD(t *testing.T) {
	s := newTestServer(t, true)
	admin := seedUser(t, s.db, "admin", "Secret123", true)
	token := issueToken(t, admin)

	body := `{
		"company_id": "42",
		"voucher_no": "JV-2026-0001",
		"voucher_date": "2026-08-31",
		"period": "2026-08",
		"summary": "Opening balances",
		"entries": [
			{"line_no": 1, "summary": "Cash", "account_code": "1001", "debit": 1000, "credit": 0},
			{"line_no": 2, "summary": "Capital", "account_code": "4001", "debit": 0, "credit": 1000}
		]
	}`
	rec := s.request(t, http.MethodPost, "/api/vouchers", body, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec.Body.Bytes())
	var created domain.Voucher
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.EqualValues(t, 42, created.CompanyID)

	var entryCount int64
	require.NoError(t, s.db.Model(&domain.VoucherEntry{}).
		Where("voucher_id = ?", created.ID).Count(&entryCount).Error)
	assert.EqualValues(t, 2, entryCount)

	// Detail returns entries in line order.
	rec = s.request(t, http.MethodGet, fmt.Sprintf("/api/vouchers/%d", created.ID), "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeEnvelope(t, rec.Body.Bytes())
	var detail struct {
		domain.Voucher
		Entries []domain.VoucherEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	require.Len(t, detail.Entries, 2)
	assert.Equal(t, "1001", detail.Entries[0].AccountCode)

	// Update replaces the entry set wholesale.
	rec = s.request(t, http.MethodPut, fmt.Sprintf("/api/vouchers/%d", created.ID),
		`{"summary":"Adjusted opening","entries":[{"line_no":1,"account_code":"1002","debit":500,"credit":500}]}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.NoError(t, s.db.Model(&domain.VoucherEntry{}).
		Where("voucher_id = ?", created.ID).Count(&entryCount).Error)
	assert.EqualValues(t, 1, entryCount)

	var stored domain.Voucher
	require.NoError(t, s.db.First(&stored, created.ID).Error)
	assert.Equal(t, "Adjusted opening", stored.Summary)

	// Delete removes the voucher and its entries.
	rec = s.request(t, http.MethodDelete, fmt.Sprintf("/api/vouchers/%d", created.ID), "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, s.db.Model(&domain.VoucherEntry{}).
		Where("voucher_id = ?", created.ID).Count(&entryCount).Error)
	assert.EqualValues(t, 0, entryCount)
}

func TestVoucherFilters(t *testing.T) {
	s := newTestServer(t, true)
	admin := seedUser(t, s.db, "admin", "Secret123", true)
	token := issueToken(t, admin)

	for i, period := range []string{"2026-07", "2026-07", "2026-08"} {
		body := fmt.Sprintf(`{"company_id":"7","voucher_no":"JV-%d","voucher_date":"2026-07-0%d","period":"%s"}`,
			i+1, i+1, period)
		rec := s.request(t, http.MethodPost, "/api/vouchers", body, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := s.request(t, http.MethodGet, "/api/vouchers?company_id=7&period=2026-07", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool             `json:"success"`
		Data    []domain.Voucher `json:"data"`
		Total   int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body.Total)
	require.Len(t, body.Data, 2)
}

func TestVoucherRequiresCompanyAndNumber(t *testing.T) {
	s := newTestServer(t, true)
	admin := seedUser(t, s.db, "admin", "Secret123", true)
	token := issueToken(t, admin)

	rec := s.request(t, http.MethodPost, "/api/vouchers", `{"voucher_no":"JV-1"}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.request(t, http.MethodPost, "/api/vouchers", `{"company_id":"1"}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
