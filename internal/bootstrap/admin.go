package bootstrap

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zytsoft/zytbooks/internal/domain"
	"github.com/zytsoft/zytbooks/pkg/common"
)

// AdminAccount is the administrator to create during initialization.
type AdminAccount struct {
	Username string `json:"username"`
	Password string `json:"password"`
	RealName string `json:"real_name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
}

func (a AdminAccount) validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return &ValidationError{Field: "adminUser.username", Reason: "must not be empty"}
	}
	if strings.TrimSpace(a.Password) == "" {
		return &ValidationError{Field: "adminUser.password", Reason: "must not be empty"}
	}
	return nil
}

// WriteAdmin upserts the administrator row keyed on username. The password is
// bcrypt-hashed before it reaches the transaction; on conflict only the
// password and updated_at are overwritten, preserving the existing id.
func WriteAdmin(tx *gorm.DB, account AdminAccount) (int64, error) {
	if err := account.validate(); err != nil {
		return 0, err
	}

	hashed, err := common.HashPassword(account.Password)
	if err != nil {
		return 0, err
	}

	realName := account.RealName
	if realName == "" {
		realName = "Administrator"
	}

	now := time.Now()
	user := domain.SysUser{
		ID:        common.UUIDint64(),
		Username:  strings.TrimSpace(account.Username),
		Password:  hashed,
		RealName:  realName,
		Email:     account.Email,
		Mobile:    account.Mobile,
		IsAdmin:   true,
		Status:    common.StatusEnabled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "username"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"password":   hashed,
			"updated_at": now,
		}),
	}).Create(&user).Error
	if err != nil {
		return 0, err
	}

	// On conflict the struct keeps its generated id; fetch the row that
	// actually owns the username.
	var persisted domain.SysUser
	if err := tx.Where("username = ?", user.Username).First(&persisted).Error; err != nil {
		return 0, err
	}
	return persisted.ID, nil
}
