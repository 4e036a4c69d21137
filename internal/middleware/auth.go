package middleware

import (
	"context"
	"strings"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/White1313devil/medicals/internal/authctx"
	"github.com/White1313devil/medicals/internal/model"
	"github.com/White1313devil/medicals/internal/service"
	"github.com/White1313devil/medicals/pkg/logger"
	"github.com/White1313devil/medicals/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Authenticator resolves a bearer token to an admin.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Admin, error)
}

// ClientMiddleware records the caller's address and user agent on the
// request context for the activity log.
func ClientMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := authctx.WithClient(c.Request().Context(), authctx.Client{
				IP:        c.RealIP(),
				UserAgent: c.Request().UserAgent(),
			})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// AuthMiddleware validates the Bearer token and stores the admin on the request context
func AuthMiddleware(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			// Get the Authorization header
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return apperror.Auth("Not authorized, no token")
			}

			// Check if it's a Bearer token
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_header")
				return apperror.Auth("Not authorized, invalid authorization format")
			}

			admin, err := auth.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				log.Warn("Authentication failed", zap.Error(err))
				return err
			}

			ctx := authctx.WithCurrentAdmin(c.Request().Context(), service.CurrentAdmin(admin))
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(zap.Uint("admin_id", admin.ID)))
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireRole rejects authenticated admins whose role is not listed.
func RequireRole(roles ...model.AdminRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin := authctx.FromContext(c.Request().Context())
			if admin == nil {
				return apperror.Auth("Not authorized")
			}
			for _, role := range roles {
				if admin.Role == role {
					return next(c)
				}
			}
			return apperror.Forbidden("Not authorized for this action")
		}
	}
}
