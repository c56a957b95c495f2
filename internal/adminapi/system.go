package adminapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"

	"github.com/zytsoft/zytbooks/internal/bootstrap"
	"github.com/zytsoft/zytbooks/internal/webserver"
)

const probeTimeout = 10 * time.Second

func registerSystemRoutes() {
	webserver.PubGET("/system/check-init", checkSystemInit)
	webserver.PubPOST("/system/validate-db", validateDbConfig)
	webserver.PubPOST("/system/initialize", initializeSystem)
	webserver.PubGET("/system/status", getSystemStatus)
}

// checkInitResponse maps inspector phases to the steps the setup wizard
// walks through.
type checkInitResponse struct {
	Initialized bool   `json:"initialized"`
	Step        string `json:"step,omitempty"`
	Message     string `json:"message"`
}

var phaseSteps = map[bootstrap.Phase]string{
	bootstrap.PhaseNoSchema: "database",
	bootstrap.PhaseNoTables: "tables",
	bootstrap.PhaseNoAdmin:  "admin",
}

func checkSystemInit(c echo.Context) error {
	params := GetApp(c).ConnectionParams()
	params.Timeout = probeTimeout
	inspector, err := bootstrap.NewInspector(params)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INVALID_DB_CONFIG",
			"Invalid database configuration", err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	result, err := inspector.Inspect(ctx)
	if err != nil {
		// Inspection failures are reported as "not initialized", never as
		// ready.
		return ok(c, checkInitResponse{Initialized: false, Message: result.Message})
	}
	return ok(c, checkInitResponse{
		Initialized: result.Phase == bootstrap.PhaseReady,
		Step:        phaseSteps[result.Phase],
		Message:     result.Message,
	})
}

type validateDbPayload struct {
	Type     string `json:"type"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func validateDbConfig(c echo.Context) error {
	var payload validateDbPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Unable to parse database parameters", nil)
	}
	params := GetApp(c).ConnectionParams()
	if payload.Type != "" {
		params.Type = payload.Type
	}
	params.Host = payload.Host
	params.Port = payload.Port
	params.Username = payload.Username
	params.Password = payload.Password
	params.Timeout = probeTimeout

	ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
	defer cancel()

	// One flat discriminated shape; the envelope's own success carries the
	// probe outcome.
	if err := bootstrap.Probe(ctx, params); err != nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "database configuration is valid",
	})
}

type initializePayload struct {
	DBConfig  *validateDbPayload      `json:"dbConfig"`
	AdminUser *bootstrap.AdminAccount `json:"adminUser"`
}

func initializeSystem(c echo.Context) error {
	var payload initializePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Unable to parse initialization parameters", nil)
	}
	if payload.DBConfig == nil || payload.AdminUser == nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"dbConfig and adminUser are required", nil)
	}

	application := GetApp(c)
	params := application.ConnectionParams()
	if payload.DBConfig.Type != "" {
		params.Type = payload.DBConfig.Type
	}
	params.Host = payload.DBConfig.Host
	params.Port = payload.DBConfig.Port
	params.Username = payload.DBConfig.Username
	params.Password = payload.DBConfig.Password

	orchestrator := bootstrap.NewOrchestrator(bootstrap.DefaultTimeout)
	result, err := orchestrator.Initialize(c.Request().Context(), bootstrap.InitRequest{
		DB:    params,
		Admin: *payload.AdminUser,
	})
	if err != nil {
		var validationErr *bootstrap.ValidationError
		var connErr *bootstrap.ConnectionError
		switch {
		case errors.As(err, &validationErr):
			return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error(), nil)
		case errors.As(err, &connErr):
			return fail(c, http.StatusBadGateway, "CONNECTION_ERROR", connErr.Error(), nil)
		default:
			return fail(c, http.StatusInternalServerError, "INITIALIZE_FAILED", err.Error(), nil)
		}
	}

	if err := application.ReloadDB(); err != nil {
		return fail(c, http.StatusInternalServerError, "RELOAD_FAILED",
			"System initialized but reconnect failed", err.Error())
	}
	return ok(c, map[string]interface{}{
		"message": "system initialized",
		"state":   result.State,
	})
}

func getSystemStatus(c echo.Context) error {
	application := GetApp(c)

	params := application.ConnectionParams()
	params.Timeout = probeTimeout

	initialized := false
	inspector, err := bootstrap.NewInspector(params)
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), probeTimeout)
		defer cancel()
		if result, err := inspector.Inspect(ctx); err == nil {
			initialized = result.Phase == bootstrap.PhaseReady
		}
	}

	status := map[string]interface{}{
		"uptime": time.Since(application.StartTime()).Round(time.Second).String(),
		"environment": map[string]interface{}{
			"mode": application.Config().Logger.Mode,
		},
		"database": map[string]interface{}{
			"type":        application.Config().Database.Type,
			"name":        application.Config().Database.Name,
			"initialized": initialized,
		},
	}

	if info, err := host.Info(); err == nil {
		status["host"] = map[string]interface{}{
			"hostname": info.Hostname,
			"os":       info.OS,
			"platform": info.Platform,
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status["memory"] = map[string]interface{}{
			"total":        vm.Total,
			"used_percent": vm.UsedPercent,
		}
	}
	return ok(c, status)
}
