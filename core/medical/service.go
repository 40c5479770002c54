package medical

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound       = errors.New("medical request not found")
	ErrAlreadyDecided = errors.New("medical request has already been decided")
)

type (
	// QueryFilter narrows QueryRequests results. Fields combine with AND.
	QueryFilter struct {
		StudentID string
		Status    Status
	}

	Repository interface {
		CreateRequest(ctx context.Context, req Request) (Request, error)
		GetRequestByID(ctx context.Context, id string) (Request, error)
		// QueryRequests returns matches newest first.
		QueryRequests(ctx context.Context, filter *QueryFilter) ([]Request, error)
		// DecideRequest transitions a pending request to the given terminal
		// status; it must return ErrAlreadyDecided when the request is no
		// longer pending, atomically with the update.
		DecideRequest(ctx context.Context, id string, status Status, remark string) (Request, error)
		CountByStatus(ctx context.Context) (Stats, error)
		// HasActiveApproval reports whether an approved request covers `on`
		// (fromDate <= on <= toDate). Queried fresh on every call.
		HasActiveApproval(ctx context.Context, studentID string, on time.Time) (bool, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, studentID string, nr NewRequest) (Request, error) {
	now := time.Now().UTC()
	req := Request{
		StudentID:      studentID,
		FromDate:       nr.FromDate,
		ToDate:         nr.ToDate,
		Reason:         nr.Reason,
		CertificateURL: nr.CertificateURL,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	out, err := svc.repo.CreateRequest(ctx, req)
	return out, errors.Wrap(err, "creating medical request")
}

func (svc *Service) Get(ctx context.Context, id string) (Request, error) {
	return svc.repo.GetRequestByID(ctx, id)
}

func (svc *Service) ListByStudent(ctx context.Context, studentID string) ([]Request, error) {
	return svc.repo.QueryRequests(ctx, &QueryFilter{StudentID: studentID})
}

func (svc *Service) List(ctx context.Context, status Status) ([]Request, error) {
	var filter *QueryFilter
	if status != "" {
		filter = &QueryFilter{Status: status}
	}
	return svc.repo.QueryRequests(ctx, filter)
}

func (svc *Service) Approve(ctx context.Context, id string, rv Review) (Request, error) {
	return svc.repo.DecideRequest(ctx, id, StatusApproved, rv.DoctorRemark)
}

func (svc *Service) Reject(ctx context.Context, id string, rv Review) (Request, error) {
	return svc.repo.DecideRequest(ctx, id, StatusRejected, rv.DoctorRemark)
}

func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	return svc.repo.CountByStatus(ctx)
}

// HasActiveApproval reports whether the student holds an approved exemption
// covering `on`; used to suppress false risk flags during aggregation.
func (svc *Service) HasActiveApproval(ctx context.Context, studentID string, on time.Time) (bool, error) {
	return svc.repo.HasActiveApproval(ctx, studentID, on)
}
