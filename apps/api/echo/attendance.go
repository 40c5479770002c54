package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core/activity"
)

// markAttendance serves both the student and teacher check-in routes; the
// role gate has already run by the time we get here.
func markAttendance(ctx echo.Context, opts *Options) error {
	usr, err := getContextUser(ctx, opts.UserSvc)
	if err != nil {
		return err
	}

	var data MarkAttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendanceRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	mark, err := opts.AttendanceSvc.Mark(ctx.Request().Context(), usr, data.Location)
	if err != nil {
		return err
	}

	attendanceMarksTotal.WithLabelValues(string(mark.Role), string(mark.Status)).Inc()
	recordActivity(ctx, opts, usr, activity.ActionMarkAttendance, map[string]string{"status": string(mark.Status)})
	return ctx.JSON(http.StatusCreated, mark)
}

func dailyAttendanceHistory(ctx echo.Context, opts *Options) error {
	usr, err := getContextUser(ctx, opts.UserSvc)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	marks, err := opts.AttendanceSvc.History(ctx.Request().Context(), usr.ID, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, marks)
}
