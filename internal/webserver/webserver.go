package webserver

import (
	"context"
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/zytsoft/zytbooks/internal/app"
)

// AppContextKey is the echo context key holding the *app.Application.
const AppContextKey = "zytbooks_app"

type WebServer struct {
	root *echo.Echo
	app  *app.Application
	pub  *echo.Group
	api  *echo.Group
}

var server *WebServer

// Init builds the echo server: a public group for the bootstrap and login
// endpoints and a JWT-guarded group for everything else.
func Init(application *app.Application) *WebServer {
	root := echo.New()
	root.HideBanner = true
	root.HidePort = true
	root.Use(middleware.Recover())
	root.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, application)
			return next(c)
		}
	})
	root.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		message := "internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			message = fmt.Sprintf("%v", he.Message)
		}
		zap.L().Error("http error",
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", code),
			zap.Error(err))
		_ = c.JSON(code, map[string]interface{}{"success": false, "message": message})
	}

	pub := root.Group("/api")
	api := root.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(application.Config().Web.JwtSecret),
	}))

	server = &WebServer{root: root, app: application, pub: pub, api: api}
	return server
}

// Listen starts serving and blocks.
func (s *WebServer) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.app.Config().Web.Host, s.app.Config().Web.Port)
	zap.S().Infof("admin api listening on %s", addr)
	return s.root.Start(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests,
// bounded by ctx. Listen returns http.ErrServerClosed afterwards.
func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}

// Echo exposes the underlying router (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// PubGET registers an unauthenticated route.
func PubGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.GET(path, h, m...)
}

func PubPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.POST(path, h, m...)
}

// ApiGET registers a JWT-protected route.
func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PUT(path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.DELETE(path, h, m...)
}
