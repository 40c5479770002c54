package pgdb

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core/medical"
)

type medicalRequestRow struct {
	ID             string    `db:"id"`
	StudentID      string    `db:"student_id"`
	FromDate       time.Time `db:"from_date"`
	ToDate         time.Time `db:"to_date"`
	Reason         string    `db:"reason"`
	CertificateURL string    `db:"certificate_url"`
	Status         string    `db:"status"`
	DoctorRemark   string    `db:"doctor_remark"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r medicalRequestRow) toCore() medical.Request {
	return medical.Request{
		ID:             r.ID,
		StudentID:      r.StudentID,
		FromDate:       r.FromDate,
		ToDate:         r.ToDate,
		Reason:         r.Reason,
		CertificateURL: r.CertificateURL,
		Status:         medical.Status(r.Status),
		DoctorRemark:   r.DoctorRemark,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type medicalRepository struct {
	db *sqlx.DB
}

var _ medical.Repository = (*medicalRepository)(nil)

func NewMedicalRepository(db *sqlx.DB) medical.Repository {
	return &medicalRepository{db: db}
}

func (repo *medicalRepository) CreateRequest(ctx context.Context, req medical.Request) (medical.Request, error) {
	req.ID = uuid.NewString()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO medical_request (id, student_id, from_date, to_date, reason, certificate_url, status, doctor_remark, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID, req.StudentID, dateArg(req.FromDate), dateArg(req.ToDate), req.Reason, req.CertificateURL,
		string(req.Status), req.DoctorRemark, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return medical.Request{}, errors.Wrap(err, "inserting medical request")
	}
	return req, nil
}

func (repo *medicalRepository) GetRequestByID(ctx context.Context, id string) (medical.Request, error) {
	var row medicalRequestRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM medical_request WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return medical.Request{}, medical.ErrNotFound
	}
	if err != nil {
		return medical.Request{}, errors.Wrap(err, "getting medical request")
	}
	return row.toCore(), nil
}

func (repo *medicalRepository) QueryRequests(ctx context.Context, filter *medical.QueryFilter) ([]medical.Request, error) {
	q := `SELECT * FROM medical_request WHERE TRUE`
	args := make([]interface{}, 0, 2)
	if filter != nil {
		if filter.StudentID != "" {
			args = append(args, filter.StudentID)
			q += ` AND student_id = $1`
		}
		if filter.Status != "" {
			args = append(args, string(filter.Status))
			if len(args) == 1 {
				q += ` AND status = $1`
			} else {
				q += ` AND status = $2`
			}
		}
	}
	q += ` ORDER BY created_at DESC, id`

	var rows []medicalRequestRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying medical requests")
	}
	reqs := make([]medical.Request, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, row.toCore())
	}
	return reqs, nil
}

func (repo *medicalRepository) DecideRequest(ctx context.Context, id string, status medical.Status, remark string) (medical.Request, error) {
	var row medicalRequestRow
	// the status = 'pending' guard makes the transition single-winner
	err := repo.db.GetContext(ctx, &row,
		`UPDATE medical_request
		 SET status = $2, doctor_remark = $3, updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING *`,
		id, string(status), remark)
	if err == sql.ErrNoRows {
		if _, err := repo.GetRequestByID(ctx, id); err != nil {
			return medical.Request{}, err
		}
		return medical.Request{}, medical.ErrAlreadyDecided
	}
	if err != nil {
		return medical.Request{}, errors.Wrap(err, "deciding medical request")
	}
	return row.toCore(), nil
}

func (repo *medicalRepository) CountByStatus(ctx context.Context) (medical.Stats, error) {
	var stats medical.Stats
	err := repo.db.GetContext(ctx, &stats,
		`SELECT
		    COUNT(*) FILTER (WHERE status = 'pending')  AS pending,
		    COUNT(*) FILTER (WHERE status = 'approved') AS approved,
		    COUNT(*) FILTER (WHERE status = 'rejected') AS rejected,
		    COUNT(*)                                    AS total
		 FROM medical_request`)
	return stats, errors.Wrap(err, "counting medical requests")
}

func (repo *medicalRepository) HasActiveApproval(ctx context.Context, studentID string, on time.Time) (bool, error) {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (
		    SELECT 1 FROM medical_request
		    WHERE student_id = $1 AND status = 'approved' AND from_date <= $2::date AND to_date >= $2::date
		 )`,
		studentID, dateArg(on))
	return exists, errors.Wrap(err, "checking medical approval")
}
