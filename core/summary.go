package core

import "context"

// SummaryKind selects the prompt template and fallback text used by a
// Summarizer for one narration request.
type SummaryKind string

const (
	SummaryStudent         SummaryKind = "student"
	SummaryClass           SummaryKind = "class"
	SummaryInstitution     SummaryKind = "institution"
	SummaryMedical         SummaryKind = "medical"
	SummaryAdminQuestion   SummaryKind = "admin-question"
	SummaryStudentQuestion SummaryKind = "student-question"
)

// NarrateRequest carries structured data to be narrated in natural language.
type NarrateRequest struct {
	Kind     SummaryKind
	Question string      // set for the question kinds
	Data     interface{} // kind-specific payload
	Fallback string      // overrides the default fallback when set
}

// Summarizer turns structured dashboard data into a short natural-language
// summary. It never fails: on any collaborator error the kind's fallback
// string is returned instead.
type Summarizer interface {
	Narrate(ctx context.Context, req NarrateRequest) string
}

var summaryFallbacks = map[SummaryKind]string{
	SummaryStudent:         "Unable to generate summary at the moment. Please try again later.",
	SummaryClass:           "Class data analysis is currently unavailable. Please check back later.",
	SummaryInstitution:     "Institution analysis is currently unavailable. Please check back later.",
	SummaryAdminQuestion:   "I'm unable to process your question at the moment. Please try again later.",
	SummaryStudentQuestion: "I'm having trouble processing your question right now. Please try again in a moment, or rephrase your question.",
}

// SummaryFallback returns the text to serve when narration is unavailable.
func SummaryFallback(req NarrateRequest) string {
	if req.Fallback != "" {
		return req.Fallback
	}
	return summaryFallbacks[req.Kind]
}
