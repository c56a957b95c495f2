package adminapi

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/zytsoft/zytbooks/internal/app"
	"github.com/zytsoft/zytbooks/internal/webserver"
)

// RegisterRoutes wires every admin api route group.
func RegisterRoutes() {
	registerSystemRoutes()
	registerAuthRoutes()
	registerUsersRoutes()
	registerAccountRoutes()
	registerVouchersRoutes()
}

// GetApp returns the application bound to the request context.
func GetApp(c echo.Context) *app.Application {
	return c.Get(webserver.AppContextKey).(*app.Application)
}

// GetDB returns the system-schema handle, or nil before initialization.
func GetDB(c echo.Context) *gorm.DB {
	return GetApp(c).DB()
}

// requireDB answers handlers that cannot work before initialization.
func requireDB(c echo.Context) (*gorm.DB, error) {
	db := GetDB(c)
	if db == nil {
		return nil, fail(c, http.StatusServiceUnavailable, "SYSTEM_NOT_INITIALIZED",
			"System is not initialized", nil)
	}
	return db, nil
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"success": false,
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":   true,
		"data":      data,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// currentUserID extracts the authenticated user's id from the JWT claims, or
// zero on the public routes.
func currentUserID(c echo.Context) int64 {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}
	sub, _ := claims["sub"].(string)
	id, _ := strconv.ParseInt(sub, 10, 64)
	return id
}
