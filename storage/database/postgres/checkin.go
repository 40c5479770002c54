package pgdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core/checkin"
)

type checkinRow struct {
	ID        string    `db:"id"`
	StudentID string    `db:"student_id"`
	Mood      string    `db:"mood"`
	Note      string    `db:"note"`
	CreatedAt time.Time `db:"created_at"`
}

func (r checkinRow) toCore() checkin.Checkin {
	return checkin.Checkin{
		ID:        r.ID,
		StudentID: r.StudentID,
		Mood:      checkin.Mood(r.Mood),
		Note:      r.Note,
		CreatedAt: r.CreatedAt,
	}
}

type checkinRepository struct {
	db *sqlx.DB
}

var _ checkin.Repository = (*checkinRepository)(nil)

func NewCheckinRepository(db *sqlx.DB) checkin.Repository {
	return &checkinRepository{db: db}
}

func (repo *checkinRepository) CreateCheckin(ctx context.Context, ci checkin.Checkin) (checkin.Checkin, error) {
	ci.ID = uuid.NewString()
	var row checkinRow
	err := repo.db.GetContext(ctx, &row,
		`INSERT INTO checkin (id, student_id, mood, note, created_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING *`,
		ci.ID, ci.StudentID, string(ci.Mood), ci.Note)
	if err != nil {
		return checkin.Checkin{}, errors.Wrap(err, "inserting checkin")
	}
	return row.toCore(), nil
}

func (repo *checkinRepository) QueryStudentCheckins(ctx context.Context, studentID string, limit int) ([]checkin.Checkin, error) {
	var rows []checkinRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM checkin WHERE student_id = $1 ORDER BY created_at DESC LIMIT $2`,
		studentID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying checkins")
	}
	cis := make([]checkin.Checkin, 0, len(rows))
	for _, row := range rows {
		cis = append(cis, row.toCore())
	}
	return cis, nil
}
