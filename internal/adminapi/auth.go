package adminapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/webserver"
)

type authPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/api/admin/auth", adminAuth)
}

// adminAuth verifies the configured admin credentials and issues a signed
// token. Credentials and the signing key come from configuration, never
// from source.
func adminAuth(c echo.Context) error {
	cfg := GetApp(c).Config()

	var payload authPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}

	if cfg.Web.AdminPasswordHash == "" || cfg.Web.Secret == "" {
		zap.L().Error("admin auth misconfigured: missing password hash or secret")
		return fail(c, http.StatusInternalServerError, "AUTH_UNAVAILABLE", "Authentication is not configured", nil)
	}

	userOK := subtle.ConstantTimeCompare(
		[]byte(strings.TrimSpace(payload.Username)), []byte(cfg.Web.AdminUsername)) == 1
	passErr := bcrypt.CompareHashAndPassword(
		[]byte(cfg.Web.AdminPasswordHash), []byte(payload.Password))
	if !userOK || passErr != nil {
		GetApp(c).LogOperation(payload.Username, c.RealIP(), "auth", "failed admin login")
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error": "invalid username or password",
		})
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   cfg.Web.AdminUsername,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Web.TokenExpiry)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Web.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}

	GetApp(c).LogOperation(cfg.Web.AdminUsername, c.RealIP(), "auth", "admin login")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":   token,
		"success": true,
	})
}
