package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/paycollect/paycollect/core/admin"
)

const contextSettingsKey = "settings"

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// PortalClosedResponse is returned while the collection form is unpublished.
type PortalClosedResponse struct {
	Error        string `json:"error"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
}

// portalAccessMiddleware gates the student portal behind the short URL code.
// A wrong or missing code is indistinguishable from an unknown route. The
// loaded settings are stashed in the context for the handlers.
func portalAccessMiddleware(svc *admin.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			s, err := svc.Settings()
			if err != nil {
				return errors.Wrap(err, "loading settings")
			}

			code := ctx.QueryParam("student")
			if code == "" || code != s.ShortURLCode {
				return errHttpNotFound
			}
			if !s.FormPublished {
				return ctx.JSON(http.StatusForbidden, PortalClosedResponse{
					Error:        "payment collection is currently closed",
					ContactEmail: s.ContactEmail,
					ContactPhone: s.ContactPhone,
				})
			}

			ctx.Set(contextSettingsKey, s)
			return next(ctx)
		}
	}
}

func getContextSettings(ctx echo.Context) (admin.Settings, error) {
	if s, ok := ctx.Get(contextSettingsKey).(admin.Settings); ok {
		return s, nil
	}
	return admin.Settings{}, errors.New("settings object not found in echo.Context")
}
