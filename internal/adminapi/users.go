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

func registerUsersRoutes() {
	webserver.ApiGET("/system/users", listUsers)
	webserver.ApiGET("/system/users/:id", getUser)
	webserver.ApiPOST("/system/users", createUser)
	webserver.ApiPUT("/system/users/:id", updateUser)
	webserver.ApiDELETE("/system/users/:id", deleteUser)
	webserver.ApiPUT("/system/users/:id/status", updateUserStatus)
}

func listUsers(c echo.Context) error {
	db, err := requireDB(c)
	if db == nil {
		return err
	}
	page, pageSize := parsePagination(c)

	base := db.Model(&domain.SysUser{})
	if keyword := strings.TrimSpace(c.QueryParam("keyword")); keyword != "" {
		like := "%" + keyword + "%"
		base = base.Where("username LIKE ? OR real_name LIKE ?", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query users", err.Error())
	}

	var users []domain.SysUser
	if err := base.Order("id DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query users", err.Error())
	}
	return paged(c, users, total, page, pageSize)
}

func getUser(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	var user domain.SysUser
	if err := db.Where("id = ?", id).First(&user).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user", err.Error())
	}
	return ok(c, user)
}

type userPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	RealName string `json:"real_name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	IsAdmin  bool   `json:"is_admin"`
}

func createUser(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse user parameters", nil)
	}
	if strings.TrimSpace(payload.Username) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_USERNAME", "Username is required", nil)
	}
	if payload.Password == "" {
		return fail(c, http.StatusBadRequest, "MISSING_PASSWORD", "Password is required", nil)
	}

	var dup domain.SysUser
	if err := db.Where("username = ?", strings.TrimSpace(payload.Username)).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_USERNAME", "User with this username already exists", nil)
	}

	hashed, err := common.HashPassword(payload.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "HASH_ERROR", "Failed to hash password", nil)
	}

	now := time.Now()
	user := domain.SysUser{
		ID:        common.UUIDint64(),
		Username:  strings.TrimSpace(payload.Username),
		Password:  hashed,
		RealName:  payload.RealName,
		Email:     payload.Email,
		Mobile:    payload.Mobile,
		IsAdmin:   payload.IsAdmin,
		Status:    common.StatusEnabled,
		CreatedAt: now,
		CreatedBy: currentUserID(c),
		UpdatedAt: now,
	}
	if err := db.Create(&user).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user", err.Error())
	}
	return ok(c, user)
}

func updateUser(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse user parameters", nil)
	}
	var user domain.SysUser
	if err := db.Where("id = ?", id).First(&user).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.RealName != "" {
		updates["real_name"] = payload.RealName
	}
	if payload.Email != "" {
		updates["email"] = payload.Email
	}
	if payload.Mobile != "" {
		updates["mobile"] = payload.Mobile
	}
	if payload.Password != "" {
		hashed, err := common.HashPassword(payload.Password)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "HASH_ERROR", "Failed to hash password", nil)
		}
		updates["password"] = hashed
	}
	updates["updated_at"] = time.Now()
	updates["updated_by"] = currentUserID(c)

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update user", err.Error())
	}
	db.Where("id = ?", id).First(&user)
	return ok(c, user)
}

func deleteUser(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	var user domain.SysUser
	if err := db.Where("id = ?", id).First(&user).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query user", err.Error())
	}
	// The last admin account must stay; otherwise the system would report
	// itself uninitialized.
	if user.IsAdmin {
		var admins int64
		db.Model(&domain.SysUser{}).Where("is_admin = ?", true).Count(&admins)
		if admins <= 1 {
			return fail(c, http.StatusConflict, "LAST_ADMIN", "Cannot delete the last administrator", nil)
		}
	}
	if err := db.Where("id = ?", id).Delete(&domain.SysUser{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete user", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

type statusPayload struct {
	Status int `json:"status"`
}

func updateUserStatus(c echo.Context) error {
	db, errResp := requireDB(c)
	if db == nil {
		return errResp
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	var payload statusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", nil)
	}
	if payload.Status != common.StatusEnabled && payload.Status != common.StatusDisabled {
		return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be 0 or 1", nil)
	}
	if err := db.Model(&domain.SysUser{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     payload.Status,
		"updated_at": time.Now(),
		"updated_by": currentUserID(c),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update status", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id, "status": payload.Status})
}
