package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core"
	"github.com/Shriyanshsoni96/ERP/core/activity"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

type adminAPI struct {
	opts *Options
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := adminAPI{opts: opts}

	ag := g.Group("/admin", jwt, roleMiddleware(user.RoleAdmin))
	ag.GET("/dashboard", api.dashboard)
	ag.GET("/users", api.users)
	ag.GET("/activities", api.activities)
	ag.POST("/create-student", api.createStudent)
	ag.PUT("/assign-student-id/:userId", api.assignStudentID)
	ag.GET("/attendance-overview", api.attendanceOverview)
	ag.POST("/ask-question", api.askQuestion)
}

func (api *adminAPI) dashboard(ctx echo.Context) error {
	summary, err := api.opts.ReportSvc.InstitutionSummary(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building institution summary")
	}
	medStats, err := api.opts.MedicalSvc.Stats(ctx.Request().Context())
	if err != nil {
		return err
	}

	aiSummary := api.opts.Summarizer.Narrate(ctx.Request().Context(), core.NarrateRequest{
		Kind: core.SummaryInstitution,
		Data: summary,
	})
	return ctx.JSON(http.StatusOK, echo.Map{
		"summary":       summary,
		"medical_stats": medStats,
		"ai_summary":    aiSummary,
	})
}

func (api *adminAPI) users(ctx echo.Context) error {
	var filter user.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return core.NewValidationError(nil, core.FieldError{Field: "role", Error: "unknown role"})
	}

	users, err := api.opts.UserSvc.Query(ctx.Request().Context(), &filter)
	if err != nil {
		return err
	}

	grouped := make(map[string][]user.User, len(user.AllRoles))
	for _, role := range user.AllRoles {
		grouped[string(role)+"s"] = []user.User{}
	}
	for _, usr := range users {
		key := string(usr.Role) + "s"
		grouped[key] = append(grouped[key], usr)
	}
	counts := echo.Map{"total": len(users)}
	for key, grp := range grouped {
		counts[key] = len(grp)
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"users":         users,
		"grouped_users": grouped,
		"counts":        counts,
	})
}

func (api *adminAPI) activities(ctx echo.Context) error {
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	recs, err := api.opts.Activity.Query(ctx.Request().Context(), &activity.Filter{
		Role:   ctx.QueryParam("role"),
		UserID: ctx.QueryParam("userId"),
		Limit:  limit,
	})
	if err != nil {
		return err
	}

	grouped := make(map[string][]activity.Record, len(user.AllRoles))
	for _, role := range user.AllRoles {
		grouped[string(role)+"s"] = []activity.Record{}
	}
	for _, rec := range recs {
		key := rec.Role + "s"
		if _, ok := grouped[key]; !ok {
			continue
		}
		grouped[key] = append(grouped[key], rec)
	}
	counts := echo.Map{"total": len(recs)}
	for key, grp := range grouped {
		counts[key] = len(grp)
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"activities":         recs,
		"grouped_activities": grouped,
		"counts":             counts,
	})
}

func (api *adminAPI) createStudent(ctx echo.Context) error {
	admin, err := getContextUser(ctx, api.opts.UserSvc)
	if err != nil {
		return err
	}

	var data user.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.opts.UserSvc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	recordActivity(ctx, api.opts, admin, activity.ActionUserCreated,
		map[string]string{"student_id": usr.StudentID, "email": usr.Email})
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *adminAPI) assignStudentID(ctx echo.Context) error {
	var data user.AssignStudentID
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignStudentID")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.opts.UserSvc.AssignStudentID(ctx.Request().Context(), ctx.Param("userId"), data.StudentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *adminAPI) attendanceOverview(ctx echo.Context) error {
	date := time.Now()
	if d := ctx.QueryParam("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, time.Local)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be YYYY-MM-DD"})
		}
		date = parsed
	}

	ov, err := api.opts.AttendanceSvc.Overview(ctx.Request().Context(), date)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *adminAPI) askQuestion(ctx echo.Context) error {
	var data QuestionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuestionRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	summary, err := api.opts.ReportSvc.InstitutionSummary(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "building institution summary")
	}

	answer := api.opts.Summarizer.Narrate(ctx.Request().Context(), core.NarrateRequest{
		Kind:     core.SummaryAdminQuestion,
		Question: data.Question,
		Data:     summary,
	})
	return ctx.JSON(http.StatusOK, AnswerResponse{Answer: answer})
}
