package pgdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core/performance"
)

type subjectAttendanceRow struct {
	ID         string    `db:"id"`
	StudentID  string    `db:"student_id"`
	Subject    string    `db:"subject"`
	Percentage float64   `db:"percentage"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type subjectMarksRow struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	Subject   string    `db:"subject"`
	Score     float64   `db:"score"`
	UpdatedAt time.Time `db:"updated_at"`
}

type performanceRepository struct {
	db *sqlx.DB
}

var _ performance.Repository = (*performanceRepository)(nil)

func NewPerformanceRepository(db *sqlx.DB) performance.Repository {
	return &performanceRepository{db: db}
}

func (repo *performanceRepository) UpsertSubjectAttendance(ctx context.Context, rec performance.SubjectAttendance) (performance.SubjectAttendance, error) {
	rec.ID = uuid.NewString()
	var row subjectAttendanceRow
	err := repo.db.GetContext(ctx, &row,
		`INSERT INTO subject_attendance (id, student_id, subject, percentage, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (student_id, subject)
		 DO UPDATE SET percentage = EXCLUDED.percentage, updated_at = EXCLUDED.updated_at
		 RETURNING *`,
		rec.ID, rec.StudentID, rec.Subject, rec.Percentage, rec.UpdatedAt)
	if err != nil {
		return performance.SubjectAttendance{}, errors.Wrap(err, "upserting subject attendance")
	}
	return performance.SubjectAttendance{
		ID:         row.ID,
		StudentID:  row.StudentID,
		Subject:    row.Subject,
		Percentage: row.Percentage,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func (repo *performanceRepository) UpsertSubjectMarks(ctx context.Context, rec performance.SubjectMarks) (performance.SubjectMarks, error) {
	rec.ID = uuid.NewString()
	var row subjectMarksRow
	err := repo.db.GetContext(ctx, &row,
		`INSERT INTO subject_marks (id, student_id, subject, score, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (student_id, subject)
		 DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
		 RETURNING *`,
		rec.ID, rec.StudentID, rec.Subject, rec.Score, rec.UpdatedAt)
	if err != nil {
		return performance.SubjectMarks{}, errors.Wrap(err, "upserting subject marks")
	}
	return performance.SubjectMarks{
		ID:        row.ID,
		StudentID: row.StudentID,
		Subject:   row.Subject,
		Score:     row.Score,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (repo *performanceRepository) QuerySubjectAttendance(ctx context.Context, studentIDs []string) ([]performance.SubjectAttendance, error) {
	var rows []subjectAttendanceRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM subject_attendance WHERE student_id = ANY($1) ORDER BY student_id, subject`,
		pq.Array(studentIDs))
	if err != nil {
		return nil, errors.Wrap(err, "querying subject attendance")
	}
	recs := make([]performance.SubjectAttendance, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, performance.SubjectAttendance{
			ID:         row.ID,
			StudentID:  row.StudentID,
			Subject:    row.Subject,
			Percentage: row.Percentage,
			UpdatedAt:  row.UpdatedAt,
		})
	}
	return recs, nil
}

func (repo *performanceRepository) QuerySubjectMarks(ctx context.Context, studentIDs []string) ([]performance.SubjectMarks, error) {
	var rows []subjectMarksRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM subject_marks WHERE student_id = ANY($1) ORDER BY student_id, subject`,
		pq.Array(studentIDs))
	if err != nil {
		return nil, errors.Wrap(err, "querying subject marks")
	}
	recs := make([]performance.SubjectMarks, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, performance.SubjectMarks{
			ID:        row.ID,
			StudentID: row.StudentID,
			Subject:   row.Subject,
			Score:     row.Score,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return recs, nil
}
