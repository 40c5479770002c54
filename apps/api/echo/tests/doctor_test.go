package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Shriyanshsoni96/ERP/core/medical"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

func createMedicalRequest(t *testing.T, studentID string, from, to time.Time) medical.Request {
	t.Helper()
	req, err := medSvc.Create(context.Background(), studentID, medical.NewRequest{
		FromDate: from,
		ToDate:   to,
		Reason:   "flu",
	})
	if err != nil {
		t.Fatalf("medSvc.Create(): %v", err)
	}
	return req
}

func Test_doctorApi_decisions(t *testing.T) {
	doctor := createUser(t, "dec-doc", user.RoleDoctor, "")
	student := createStudent(t, "dec-stud", "STU-DR1", "D2")
	token := getToken(t, doctor)

	from := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	req1 := createMedicalRequest(t, student.ID, from, to)
	req2 := createMedicalRequest(t, student.ID, from, to)

	t.Run("approve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/doctor/medical-requests/"+req1.ID+"/approve", token,
			marshallObj(t, map[string]string{"doctor_remark": "rest well"}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var mr medical.Request
		decodeBody(t, rec, &mr)
		if mr.Status != medical.StatusApproved || mr.DoctorRemark != "rest well" {
			t.Errorf("request = %+v", mr)
		}
	})

	t.Run("decide twice", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/doctor/medical-requests/"+req1.ID+"/reject", token,
			marshallObj(t, map[string]string{}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: "medical request has already been decided"}),
		}, rec)
	})

	t.Run("reject", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/doctor/medical-requests/"+req2.ID+"/reject", token,
			marshallObj(t, map[string]string{"doctor_remark": "certificate missing"}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var mr medical.Request
		decodeBody(t, rec, &mr)
		if mr.Status != medical.StatusRejected {
			t.Errorf("status = %v; want rejected", mr.Status)
		}
	})

	t.Run("unknown request", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/doctor/medical-requests/nope/approve", token,
			marshallObj(t, map[string]string{}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "medical request not found"}),
		}, rec)
	})
}

func Test_doctorApi_listAndGet(t *testing.T) {
	doctor := createUser(t, "lst-doc", user.RoleDoctor, "")
	student := createStudent(t, "lst-med-stud", "STU-DR2", "D2")
	token := getToken(t, doctor)

	from := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.October, 2, 0, 0, 0, 0, time.UTC)
	req1 := createMedicalRequest(t, student.ID, from, to)

	t.Run("invalid status filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/doctor/medical-requests?status=maybe", token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"status": "must be one of pending, approved, rejected"}),
		}, rec)
	})

	t.Run("pending filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/doctor/medical-requests?status=pending", token)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var reqs []medical.Request
		decodeBody(t, rec, &reqs)
		found := false
		for _, r := range reqs {
			if r.ID == req1.ID {
				found = true
			}
			if r.Status != medical.StatusPending {
				t.Errorf("non-pending request in filter result: %+v", r)
			}
		}
		if !found {
			t.Error("created request missing from pending list")
		}
	})

	t.Run("get with summary", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/doctor/medical-requests/"+req1.ID, token)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Request   medical.Request `json:"request"`
			AISummary string          `json:"ai_summary"`
		}
		decodeBody(t, rec, &resp)
		if resp.Request.ID != req1.ID {
			t.Errorf("request = %v; want %v", resp.Request.ID, req1.ID)
		}
		if resp.AISummary != "flu" { // dummy summarizer falls back to the reason
			t.Errorf("ai_summary = %q", resp.AISummary)
		}
	})

	t.Run("dashboard", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/doctor/dashboard", token)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Stats           medical.Stats     `json:"stats"`
			PendingRequests []medical.Request `json:"pending_requests"`
		}
		decodeBody(t, rec, &resp)
		if resp.Stats.Total == 0 {
			t.Error("expected counted requests")
		}
		for _, r := range resp.PendingRequests {
			if r.Status != medical.StatusPending {
				t.Errorf("non-pending request on dashboard: %+v", r)
			}
		}
	})
}
