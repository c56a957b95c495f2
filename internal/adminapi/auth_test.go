package adminapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zytsoft/zytbooks/internal/domain"
	"github.com/zytsoft/zytbooks/pkg/common"
)

func TestLoginIssuesUsableToken(t *testing.T) {
	s := newTestServer(t, true)
	seedUser(t, s.db, "admin", "Secret123", true)

	rec := s.request(t, http.MethodPost, "/api/auth/login",
		`{"username":"admin","password":"Secret123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec.Body.Bytes())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)

	rec = s.request(t, http.MethodGet, "/api/auth/current-user", "", data.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	env = decodeEnvelope(t, rec.Body.Bytes())
	var user domain.SysUser
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "admin", user.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t, true)
	seedUser(t, s.db, "admin", "Secret123", true)

	rec := s.request(t, http.MethodPost, "/api/auth/login",
		`{"username":"admin","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.request(t, http.MethodPost, "/api/auth/login",
		`{"username":"ghost","password":"x"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsDisabledUser(t *testing.T) {
	s := newTestServer(t, true)
	user := seedUser(t, s.db, "closed", "Secret123", false)
	require.NoError(t, s.db.Model(&domain.SysUser{}).
		Where("id = ?", user.ID).Update("status", common.StatusDisabled).Error)

	rec := s.request(t, http.MethodPost, "/api/auth/login",
		`{"username":"closed","password":"Secret123"}`, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t, true)
	user := seedUser(t, s.db, "admin", "OldPass1", true)
	token := issueToken(t, user)

	rec := s.request(t, http.MethodPost, "/api/auth/change-password",
		`{"old_password":"OldPass1","new_password":"NewPass2"}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var stored domain.SysUser
	require.NoError(t, s.db.First(&stored, user.ID).Error)
	assert.True(t, common.VerifyPassword("NewPass2", stored.Password))
	assert.False(t, common.VerifyPassword("OldPass1", stored.Password))

	// Wrong old password is refused.
	rec = s.request(t, http.MethodPost, "/api/auth/change-password",
		`{"old_password":"OldPass1","new_password":"Again3"}`, token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
