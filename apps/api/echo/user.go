package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core/activity"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

type authAPI struct {
	opts *Options
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := authAPI{opts: opts}

	ag := g.Group("/auth")

	// un-authed endpoints
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
	ag.POST("/student-login", api.studentLogin)
	ag.POST("/forgot-password", api.forgotPassword)
	ag.POST("/reset-password", api.resetPassword)

	ag.GET("/me", api.me, jwt)
}

func (api *authAPI) issueSession(ctx echo.Context, usr user.User) error {
	claims := GetUserClaims(api.opts.Conf, usr)
	token, err := GenerateToken(api.opts.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	recordActivity(ctx, api.opts, usr, activity.ActionLogin, nil)
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

// register creates a non-student account. Students are never self-registered;
// the NewUser payload rejects the student role outright.
func (api *authAPI) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.opts.UserSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		return err
	}

	recordActivity(ctx, api.opts, usr, activity.ActionUserCreated, map[string]string{"email": usr.Email})
	claims := GetUserClaims(api.opts.Conf, usr)
	token, err := GenerateToken(api.opts.Conf, claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusCreated, LoginResponse{Token: token, User: usr})
}

func (api *authAPI) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := authenticate(ctx.Request().Context(), data, api.opts.UserSvc, api.opts.Matcher)
	if err != nil {
		return err
	}
	return api.issueSession(ctx, usr)
}

func (api *authAPI) studentLogin(ctx echo.Context) error {
	var data StudentLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentLoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := authenticateStudent(ctx.Request().Context(), data.StudentID, api.opts.UserSvc)
	if err != nil {
		return err
	}
	return api.issueSession(ctx, usr)
}

func (api *authAPI) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *authAPI) forgotPassword(ctx echo.Context) error {
	var data user.ForgotPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ForgotPassword")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.opts.UserSvc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *authAPI) resetPassword(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.opts.UserSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			// same posture as forgot-password: do not leak account existence
			return errAuthenticationFailed
		}
		return err
	}
	if usr, err := api.opts.UserSvc.GetByEmail(ctx.Request().Context(), data.Email); err == nil {
		recordActivity(ctx, api.opts, usr, activity.ActionPasswordReset, nil)
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}
