package pgdb

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core/activity"
)

type activityRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Role      string    `db:"role"`
	Action    string    `db:"action"`
	Details   []byte    `db:"details"`
	IPAddress string    `db:"ip_address"`
	UserAgent string    `db:"user_agent"`
	CreatedAt time.Time `db:"created_at"`
}

func (r activityRow) toCore() (activity.Record, error) {
	rec := activity.Record{
		ID:        r.ID,
		UserID:    r.UserID,
		Role:      r.Role,
		Action:    r.Action,
		IPAddress: r.IPAddress,
		UserAgent: r.UserAgent,
		CreatedAt: r.CreatedAt,
	}
	if len(r.Details) > 0 {
		if err := json.Unmarshal(r.Details, &rec.Details); err != nil {
			return activity.Record{}, errors.Wrap(err, "decoding activity details")
		}
	}
	return rec, nil
}

type activityRepository struct {
	db *sqlx.DB
}

var _ activity.Repository = (*activityRepository)(nil)

func NewActivityRepository(db *sqlx.DB) activity.Repository {
	return &activityRepository{db: db}
}

func (repo *activityRepository) CreateRecord(ctx context.Context, rec activity.Record) (activity.Record, error) {
	rec.ID = uuid.NewString()
	details, err := json.Marshal(rec.Details)
	if err != nil {
		return activity.Record{}, errors.Wrap(err, "encoding activity details")
	}
	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO activity_log (id, user_id, role, action, details, ip_address, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.UserID, rec.Role, rec.Action, details, rec.IPAddress, rec.UserAgent, rec.CreatedAt)
	if err != nil {
		return activity.Record{}, errors.Wrap(err, "inserting activity record")
	}
	return rec, nil
}

func (repo *activityRepository) QueryRecords(ctx context.Context, filter *activity.Filter) ([]activity.Record, error) {
	q := `SELECT * FROM activity_log WHERE TRUE`
	args := make([]interface{}, 0, 3)
	if filter.Role != "" {
		args = append(args, filter.Role)
		q += ` AND role = $1`
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		if len(args) == 1 {
			q += ` AND user_id = $1`
		} else {
			q += ` AND user_id = $2`
		}
	}
	args = append(args, filter.Limit)
	switch len(args) {
	case 1:
		q += ` ORDER BY created_at DESC, id LIMIT $1`
	case 2:
		q += ` ORDER BY created_at DESC, id LIMIT $2`
	default:
		q += ` ORDER BY created_at DESC, id LIMIT $3`
	}

	var rows []activityRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying activity records")
	}
	recs := make([]activity.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toCore()
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
