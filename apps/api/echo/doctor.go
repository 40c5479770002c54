package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core"
	"github.com/Shriyanshsoni96/ERP/core/activity"
	"github.com/Shriyanshsoni96/ERP/core/medical"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

type doctorAPI struct {
	opts *Options
}

func registerDoctorAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := doctorAPI{opts: opts}

	dg := g.Group("/doctor", jwt, roleMiddleware(user.RoleDoctor))
	dg.GET("/dashboard", api.dashboard)
	dg.GET("/medical-requests", api.listRequests)
	dg.GET("/medical-requests/:id", api.getRequest)
	dg.POST("/medical-requests/:id/approve", api.approve)
	dg.POST("/medical-requests/:id/reject", api.reject)
}

func (api *doctorAPI) dashboard(ctx echo.Context) error {
	stats, err := api.opts.MedicalSvc.Stats(ctx.Request().Context())
	if err != nil {
		return err
	}
	pending, err := api.opts.MedicalSvc.List(ctx.Request().Context(), medical.StatusPending)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"stats":            stats,
		"pending_requests": pending,
	})
}

func (api *doctorAPI) listRequests(ctx echo.Context) error {
	status := medical.Status(ctx.QueryParam("status"))
	if status != "" && !status.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "must be one of pending, approved, rejected"})
	}

	reqs, err := api.opts.MedicalSvc.List(ctx.Request().Context(), status)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *doctorAPI) getRequest(ctx echo.Context) error {
	req, err := api.opts.MedicalSvc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}

	// when narration is unavailable the raw reason is still useful
	aiSummary := api.opts.Summarizer.Narrate(ctx.Request().Context(), core.NarrateRequest{
		Kind:     core.SummaryMedical,
		Data:     req,
		Fallback: req.Reason,
	})
	return ctx.JSON(http.StatusOK, echo.Map{
		"request":    req,
		"ai_summary": aiSummary,
	})
}

func (api *doctorAPI) decide(ctx echo.Context, status medical.Status) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}

	var data medical.Review
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Review")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	var req medical.Request
	if status == medical.StatusApproved {
		req, err = api.opts.MedicalSvc.Approve(ctx.Request().Context(), ctx.Param("id"), data)
	} else {
		req, err = api.opts.MedicalSvc.Reject(ctx.Request().Context(), ctx.Param("id"), data)
	}
	if err != nil {
		return err
	}

	recordActivity(ctx, api.opts, usr, activity.ActionMedicalDecision,
		map[string]string{"request_id": req.ID, "status": string(req.Status)})
	return ctx.JSON(http.StatusOK, req)
}

func (api *doctorAPI) approve(ctx echo.Context) error {
	return api.decide(ctx, medical.StatusApproved)
}

func (api *doctorAPI) reject(ctx echo.Context) error {
	return api.decide(ctx, medical.StatusRejected)
}
