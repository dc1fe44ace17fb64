package webserver

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/app"
)

const contextAppKey = "heawabas_appctx"

type WebServer struct {
	root   *echo.Echo
	appCtx app.AppContext
}

var server *WebServer

// Init builds the web server around the application context. Call once
// during startup, before route registration.
func Init(appCtx app.AppContext) {
	server = NewWebServer(appCtx)
}

func NewWebServer(appCtx app.AppContext) *WebServer {
	s := &WebServer{root: echo.New(), appCtx: appCtx}
	s.initRouter()
	return s
}

func (s *WebServer) initRouter() {
	e := s.root
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	// inject the application context for handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(contextAppKey, s.appCtx)
			return next(c)
		}
	})

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))

	cfg := s.appCtx.Config()
	e.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.Secret),
		Skipper: func(c echo.Context) bool {
			return !requiresAuth(c.Request().URL.Path)
		},
	}))

	// uploaded objects are served from the local bucket directory
	e.Static("/static", path.Join(cfg.System.Workdir, "buckets"))
}

// requiresAuth gates the admin surface; the storefront, the auth endpoint
// and the image proxy stay public.
func requiresAuth(p string) bool {
	if p == "/api/admin/auth" {
		return false
	}
	if strings.HasPrefix(p, "/api/admin") {
		return true
	}
	return p == "/api/upload-product-image"
}

// GetAppContext returns the application context injected per request.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(contextAppKey).(app.AppContext)
}

func ApiGET(path string, h echo.HandlerFunc) {
	server.root.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.root.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE(path, h)
}

// Listen starts the HTTP listener and blocks.
func Listen() error {
	cfg := server.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	return server.root.Start(addr)
}

// Shutdown stops the listener gracefully.
func Shutdown(ctx context.Context) error {
	if server == nil {
		return nil
	}
	return server.root.Shutdown(ctx)
}
