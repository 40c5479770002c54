package summarysvc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/api/option"

	"github.com/Shriyanshsoni96/ERP/core"
)

var fallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "eduos_summary_fallbacks_total",
	Help: "Summary requests answered with the static fallback, by kind.",
}, []string{"kind"})

// prompt templates per summary kind; the caller's data is appended as JSON.
var prompts = map[core.SummaryKind]string{
	core.SummaryStudent:       "You are an academic advisor. Summarize this student's attendance and marks in 2-3 encouraging sentences, noting any subject that needs work.",
	core.SummaryClass:         "You are an academic advisor. Summarize this class report in 2-3 sentences for the class teacher, highlighting students needing attention.",
	core.SummaryInstitution:   "You are an education analyst. Summarize this institution report in 3-4 sentences for the principal, highlighting risk areas.",
	core.SummaryMedical:       "You are a school medical officer's assistant. Summarize this medical leave request in 1-2 neutral sentences for the reviewing doctor.",
	core.SummaryAdminQuestion: "You are an assistant for a school administrator. Answer the administrator's question using only the data provided.",
	core.SummaryStudentQuestion: "You are a friendly school assistant chatbot for a student. Answer the student's question helpfully and briefly. " +
		"If the question is about their own records, use only the data provided.",
}

type geminiService struct {
	client *genai.Client
	model  string
	conf   *core.Config
	logger core.Logger
}

var _ core.Summarizer = (*geminiService)(nil)

// NewGeminiService fails only on client construction; generation errors are
// swallowed into fallbacks at call time.
func NewGeminiService(ctx context.Context, conf *core.Config, logger core.Logger) (core.Summarizer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(conf.GeminiAPIKey))
	if err != nil {
		return nil, err
	}
	return &geminiService{
		client: client,
		model:  conf.Summary.Model,
		conf:   conf,
		logger: logger,
	}, nil
}

func (svc *geminiService) Narrate(ctx context.Context, req core.NarrateRequest) string {
	ctx, cancel := context.WithTimeout(ctx, svc.conf.Summary.Timeout)
	defer cancel()

	prompt, err := svc.buildPrompt(req)
	if err != nil {
		svc.logger.Error("building summary prompt", err)
		return svc.fallback(req)
	}

	model := svc.client.GenerativeModel(svc.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("generating %s summary: %v", req.Kind, err))
		return svc.fallback(req)
	}

	text := extractText(resp)
	if text == "" {
		return svc.fallback(req)
	}
	return text
}

func (svc *geminiService) fallback(req core.NarrateRequest) string {
	fallbacksTotal.WithLabelValues(string(req.Kind)).Inc()
	return core.SummaryFallback(req)
}

func (svc *geminiService) buildPrompt(req core.NarrateRequest) (string, error) {
	b := new(strings.Builder)
	b.WriteString(prompts[req.Kind])
	if req.Question != "" {
		b.WriteString("\n\nQuestion: ")
		b.WriteString(req.Question)
	}
	if req.Data != nil {
		data, err := json.Marshal(req.Data)
		if err != nil {
			return "", err
		}
		b.WriteString("\n\nData: ")
		b.Write(data)
	}
	return b.String(), nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	b := new(strings.Builder)
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
