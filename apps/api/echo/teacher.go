package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core"
	"github.com/Shriyanshsoni96/ERP/core/activity"
	"github.com/Shriyanshsoni96/ERP/core/performance"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

type teacherAPI struct {
	opts *Options
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := teacherAPI{opts: opts}

	tg := g.Group("/teacher", jwt, roleMiddleware(user.RoleTeacher))
	tg.GET("/class-overview", api.classOverview)
	tg.GET("/students", api.students)
	tg.POST("/attendance", api.updateAttendance)
	tg.POST("/marks", api.updateMarks)
	tg.POST("/mark-attendance", api.markAttendance)
	tg.GET("/daily-attendance", api.dailyAttendance)
}

func (api *teacherAPI) classOverview(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}
	if usr.ClassID == "" {
		return performance.ErrTeacherUnassigned
	}

	summary, err := api.opts.ReportSvc.ClassSummary(ctx.Request().Context(), usr.ClassID)
	if err != nil {
		return errors.Wrap(err, "building class summary")
	}

	aiSummary := api.opts.Summarizer.Narrate(ctx.Request().Context(), core.NarrateRequest{
		Kind: core.SummaryClass,
		Data: summary,
	})
	return ctx.JSON(http.StatusOK, echo.Map{
		"summary":    summary,
		"ai_summary": aiSummary,
	})
}

func (api *teacherAPI) students(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}
	if usr.ClassID == "" {
		return performance.ErrTeacherUnassigned
	}

	students, err := api.opts.UserSvc.Query(ctx.Request().Context(), &user.QueryFilter{
		Role:    user.RoleStudent,
		ClassID: usr.ClassID,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *teacherAPI) updateAttendance(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}

	var data performance.UpsertAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpsertAttendance")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	student, err := api.opts.UserSvc.GetByID(ctx.Request().Context(), data.StudentID)
	if err != nil {
		return err
	}

	rec, err := api.opts.PerformanceSvc.UpdateAttendance(ctx.Request().Context(), teacher, student, data)
	if err != nil {
		return err
	}
	recordActivity(ctx, api.opts, teacher, activity.ActionUpdateAttendance,
		map[string]string{"student_id": student.ID, "subject": rec.Subject})
	return ctx.JSON(http.StatusOK, rec)
}

func (api *teacherAPI) updateMarks(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}

	var data performance.UpsertMarks
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpsertMarks")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	student, err := api.opts.UserSvc.GetByID(ctx.Request().Context(), data.StudentID)
	if err != nil {
		return err
	}

	rec, err := api.opts.PerformanceSvc.UpdateMarks(ctx.Request().Context(), teacher, student, data)
	if err != nil {
		return err
	}
	recordActivity(ctx, api.opts, teacher, activity.ActionUpdateMarks,
		map[string]string{"student_id": student.ID, "subject": rec.Subject})
	return ctx.JSON(http.StatusOK, rec)
}

func (api *teacherAPI) markAttendance(ctx echo.Context) error {
	return markAttendance(ctx, api.opts)
}

func (api *teacherAPI) dailyAttendance(ctx echo.Context) error {
	return dailyAttendanceHistory(ctx, api.opts)
}
