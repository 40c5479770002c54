package pgdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core/attendance"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

// dateArg renders a time as a plain calendar day for DATE columns. The
// session timezone is UTC; binding a local-midnight time.Time would let
// the timestamptz conversion shift it to the neighboring day.
func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}

type markRow struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	Role         string     `db:"role"`
	Date         time.Time  `db:"date"`
	CheckInTime  time.Time  `db:"check_in_time"`
	CheckOutTime *time.Time `db:"check_out_time"`
	Status       string     `db:"status"`
	Location     string     `db:"location"`
	CreatedAt    time.Time  `db:"created_at"`
}

func (r markRow) toCore() attendance.Mark {
	return attendance.Mark{
		ID:           r.ID,
		UserID:       r.UserID,
		Role:         user.Role(r.Role),
		Date:         r.Date,
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime,
		Status:       attendance.Status(r.Status),
		Location:     r.Location,
		CreatedAt:    r.CreatedAt,
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) CreateMark(ctx context.Context, mark attendance.Mark) (attendance.Mark, error) {
	mark.ID = uuid.NewString()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO daily_attendance (id, user_id, role, date, check_in_time, check_out_time, status, location, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		mark.ID, mark.UserID, string(mark.Role), dateArg(mark.Date), mark.CheckInTime, mark.CheckOutTime,
		string(mark.Status), mark.Location, mark.CreatedAt)
	if err != nil {
		// the unique (user_id, date) index arbitrates concurrent marks
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return attendance.Mark{}, attendance.ErrAlreadyMarked
		}
		return attendance.Mark{}, errors.Wrap(err, "inserting attendance mark")
	}
	return mark, nil
}

func (repo *attendanceRepository) UserMarkExists(ctx context.Context, userID string, date time.Time) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM daily_attendance WHERE user_id = $1 AND date = $2::date)`,
		userID, dateArg(date))
	return exists, errors.Wrap(err, "checking attendance mark")
}

func (repo *attendanceRepository) QueryMarksByDate(ctx context.Context, date time.Time) ([]attendance.Mark, error) {
	var rows []markRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM daily_attendance WHERE date = $1::date ORDER BY check_in_time, id`, dateArg(date))
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance marks")
	}
	marks := make([]attendance.Mark, 0, len(rows))
	for _, row := range rows {
		marks = append(marks, row.toCore())
	}
	return marks, nil
}

func (repo *attendanceRepository) QueryUserMarks(ctx context.Context, userID string, limit int) ([]attendance.Mark, error) {
	var rows []markRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM daily_attendance WHERE user_id = $1 ORDER BY date DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying user attendance marks")
	}
	marks := make([]attendance.Mark, 0, len(rows))
	for _, row := range rows {
		marks = append(marks, row.toCore())
	}
	return marks, nil
}
