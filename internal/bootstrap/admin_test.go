package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zytsoft/zytbooks/internal/domain"
	"github.com/zytsoft/zytbooks/pkg/common"
)

func TestWriteAdminValidation(t *testing.T) {
	_, keeper := sharedMemDB(t)
	require.NoError(t, keeper.Migrator().AutoMigrate(domain.Tables...))

	var validationErr *ValidationError

	_, err := WriteAdmin(keeper, AdminAccount{Username: "", Password: "x"})
	require.ErrorAs(t, err, &validationErr)

	_, err = WriteAdmin(keeper, AdminAccount{Username: "admin", Password: "  "})
	require.ErrorAs(t, err, &validationErr)

	var users int64
	require.NoError(t, keeper.Model(&domain.SysUser{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestWriteAdminNeverStoresPlaintext(t *testing.T) {
	_, keeper := sharedMemDB(t)
	require.NoError(t, keeper.Migrator().AutoMigrate(domain.Tables...))

	id, err := WriteAdmin(keeper, AdminAccount{Username: "admin", Password: "Secret123"})
	require.NoError(t, err)

	var user domain.SysUser
	require.NoError(t, keeper.First(&user, id).Error)
	assert.NotEqual(t, "Secret123", user.Password)
	assert.True(t, common.VerifyPassword("Secret123", user.Password))
	assert.True(t, user.IsAdmin)
	assert.Equal(t, common.StatusEnabled, user.Status)
	assert.Equal(t, "Administrator", user.RealName)
}

func TestWriteAdminUpsertPreservesID(t *testing.T) {
	_, keeper := sharedMemDB(t)
	require.NoError(t, keeper.Migrator().AutoMigrate(domain.Tables...))

	firstID, err := WriteAdmin(keeper, AdminAccount{Username: "admin", Password: "one", RealName: "First"})
	require.NoError(t, err)

	secondID, err := WriteAdmin(keeper, AdminAccount{Username: "admin", Password: "two", RealName: "Second"})
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)

	var users []domain.SysUser
	require.NoError(t, keeper.Find(&users).Error)
	require.Len(t, users, 1)
	// Only the password is rewritten on conflict.
	assert.Equal(t, "First", users[0].RealName)
	assert.True(t, common.VerifyPassword("two", users[0].Password))
}
