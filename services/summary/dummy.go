package summarysvc

import (
	"context"

	"github.com/Shriyanshsoni96/ERP/core"
)

// dummyService always answers with the static fallback; used when no API
// key is configured and in tests.
type dummyService struct{}

var _ core.Summarizer = (*dummyService)(nil)

func NewDummyService() core.Summarizer {
	return &dummyService{}
}

func (dummyService) Narrate(_ context.Context, req core.NarrateRequest) string {
	return core.SummaryFallback(req)
}
