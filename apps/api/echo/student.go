package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core"
	"github.com/Shriyanshsoni96/ERP/core/activity"
	"github.com/Shriyanshsoni96/ERP/core/checkin"
	"github.com/Shriyanshsoni96/ERP/core/medical"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

type studentAPI struct {
	opts *Options
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := studentAPI{opts: opts}

	sg := g.Group("/student", jwt, roleMiddleware(user.RoleStudent))
	sg.GET("/dashboard", api.dashboard)
	sg.POST("/checkin", api.checkin)
	sg.POST("/medical-request", api.createMedicalRequest)
	sg.GET("/medical-requests", api.listMedicalRequests)
	sg.POST("/mark-attendance", api.markAttendance)
	sg.GET("/daily-attendance", api.dailyAttendance)
	sg.POST("/chatbot", api.chatbot)
}

func (api *studentAPI) dashboard(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}

	summary, err := api.opts.ReportSvc.StudentSummary(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "building student summary")
	}

	aiSummary := api.opts.Summarizer.Narrate(ctx.Request().Context(), core.NarrateRequest{
		Kind: core.SummaryStudent,
		Data: summary,
	})
	return ctx.JSON(http.StatusOK, echo.Map{
		"student":    usr,
		"summary":    summary,
		"ai_summary": aiSummary,
	})
}

func (api *studentAPI) checkin(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}

	var data checkin.NewCheckin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCheckin")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ci, err := api.opts.CheckinSvc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return err
	}
	recordActivity(ctx, api.opts, usr, activity.ActionCheckin, map[string]string{"mood": string(ci.Mood)})
	return ctx.JSON(http.StatusCreated, ci)
}

func (api *studentAPI) createMedicalRequest(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}

	var data medical.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	req, err := api.opts.MedicalSvc.Create(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return err
	}
	recordActivity(ctx, api.opts, usr, activity.ActionMedicalRequest, map[string]string{"request_id": req.ID})
	return ctx.JSON(http.StatusCreated, req)
}

func (api *studentAPI) listMedicalRequests(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}

	reqs, err := api.opts.MedicalSvc.ListByStudent(ctx.Request().Context(), usr.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *studentAPI) markAttendance(ctx echo.Context) error {
	return markAttendance(ctx, api.opts)
}

func (api *studentAPI) dailyAttendance(ctx echo.Context) error {
	return dailyAttendanceHistory(ctx, api.opts)
}

func (api *studentAPI) chatbot(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}

	var data QuestionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuestionRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	summary, err := api.opts.ReportSvc.StudentSummary(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "building student summary")
	}

	answer := api.opts.Summarizer.Narrate(ctx.Request().Context(), core.NarrateRequest{
		Kind:     core.SummaryStudentQuestion,
		Question: data.Question,
		Data: echo.Map{
			"student": echo.Map{"name": usr.Name, "class_id": usr.ClassID, "student_id": usr.StudentID},
			"summary": summary,
		},
	})
	return ctx.JSON(http.StatusOK, AnswerResponse{Answer: answer})
}
