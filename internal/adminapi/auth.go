package adminapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zytsoft/zytbooks/internal/domain"
	"github.com/zytsoft/zytbooks/internal/webserver"
	"github.com/zytsoft/zytbooks/pkg/common"
)

const tokenTTL = 24 * time.Hour

func registerAuthRoutes() {
	webserver.PubPOST("/auth/login", login)
	webserver.ApiPOST("/auth/logout", logout)
	webserver.ApiGET("/auth/current-user", getCurrentUser)
	webserver.ApiPOST("/auth/change-password", changePassword)
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if strings.TrimSpace(payload.Username) == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "MISSING_CREDENTIALS", "Username and password are required", nil)
	}

	db, err := requireDB(c)
	if db == nil {
		return err
	}

	var user domain.SysUser
	if err := db.Where("username = ?", payload.Username).First(&user).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user", err.Error())
	}
	if user.Status != common.StatusEnabled {
		return fail(c, http.StatusForbidden, "USER_DISABLED", "Account is disabled", nil)
	}
	if !common.VerifyPassword(payload.Password, user.Password) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(user.ID, 10),
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(GetApp(c).Config().Web.JwtSecret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}

	db.Model(&domain.SysUser{}).Where("id = ?", user.ID).Update("last_login", now)

	return ok(c, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":        strconv.FormatInt(user.ID, 10),
			"username":  user.Username,
			"real_name": user.RealName,
			"is_admin":  user.IsAdmin,
		},
	})
}

// logout is stateless: the token simply expires. The endpoint exists so the
// UI has something to call.
func logout(c echo.Context) error {
	return ok(c, map[string]interface{}{"message": "logged out"})
}

func getCurrentUser(c echo.Context) error {
	db, err := requireDB(c)
	if db == nil {
		return err
	}
	id := currentUserID(c)
	if id == 0 {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not logged in", nil)
	}
	var user domain.SysUser
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	}
	return ok(c, user)
}

type changePasswordPayload struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func changePassword(c echo.Context) error {
	var payload changePasswordPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse parameters", nil)
	}
	if payload.NewPassword == "" {
		return fail(c, http.StatusBadRequest, "MISSING_PASSWORD", "New password is required", nil)
	}

	db, err := requireDB(c)
	if db == nil {
		return err
	}
	id := currentUserID(c)
	if id == 0 {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not logged in", nil)
	}

	var user domain.SysUser
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	}
	if !common.VerifyPassword(payload.OldPassword, user.Password) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Old password is incorrect", nil)
	}

	hashed, err := common.HashPassword(payload.NewPassword)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "HASH_ERROR", "Failed to hash password", nil)
	}
	if err := db.Model(&domain.SysUser{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password":   hashed,
		"updated_at": time.Now(),
		"updated_by": id,
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update password", err.Error())
	}
	return ok(c, map[string]interface{}{"message": "password changed"})
}
