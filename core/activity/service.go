package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/Shriyanshsoni96/ERP/core"
)

var NowFunc = time.Now // mockable

const defaultQueryLimit = 100

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		QueryRecords(ctx context.Context, filter *Filter) ([]Record, error)
	}

	// Recorder publishes activity records onto a queue and drains them to
	// the repository from a background goroutine. Recording is best-effort:
	// a full or unreachable queue never fails the calling request.
	Recorder struct {
		repo  Repository
		queue core.Queue
		log   core.Logger
	}
)

func NewRecorder(repo Repository, queue core.Queue, log core.Logger) *Recorder {
	return &Recorder{repo: repo, queue: queue, log: log}
}

// Record enqueues an activity entry. Errors are logged, not returned.
func (r *Recorder) Record(ctx context.Context, rec Record) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = NowFunc()
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		r.log.Error("marshaling activity record", "error", err)
		return
	}
	if err := r.queue.Publish(ctx, payload); err != nil {
		r.log.Error("publishing activity record", "action", rec.Action, "error", err)
	}
}

// Run drains the queue into the repository until ctx is canceled.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		payload, err := r.queue.Consume(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.log.Error("consuming activity record", "error", err)
			continue
		}
		var rec Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			r.log.Error("decoding activity record", "error", err)
			continue
		}
		if _, err := r.repo.CreateRecord(ctx, rec); err != nil {
			r.log.Error("persisting activity record", "action", rec.Action, "error", err)
		}
	}
}

// Query lists stored records, newest first.
func (r *Recorder) Query(ctx context.Context, filter *Filter) ([]Record, error) {
	if filter == nil {
		filter = &Filter{}
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultQueryLimit
	}
	recs, err := r.repo.QueryRecords(ctx, filter)
	return recs, errors.Wrap(err, "querying activity records")
}
