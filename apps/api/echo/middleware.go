package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core/activity"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

// roleMiddleware gates a route group to the given roles.
func roleMiddleware(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			for _, role := range roles {
				if claims.Role == string(role) {
					return next(ctx)
				}
			}
			return errHTTPForbidden
		}
	}
}

// recordActivity tags the action with the request's origin (client IP and
// user agent) before handing it to the recorder.
func recordActivity(ctx echo.Context, opts *Options, usr user.User, action string, details map[string]string) {
	opts.Activity.Record(ctx.Request().Context(), activity.Record{
		UserID:    usr.ID,
		Role:      string(usr.Role),
		Action:    action,
		Details:   details,
		IPAddress: ctx.RealIP(),
		UserAgent: ctx.Request().UserAgent(),
	})
}
