package tests

import (
	"net/http"
	"testing"

	"github.com/Shriyanshsoni96/ERP/core/performance"
	"github.com/Shriyanshsoni96/ERP/core/user"
)

func Test_teacherApi_classOverview(t *testing.T) {
	teacher := createUser(t, "ovw-teach", user.RoleTeacher, "T1")
	good := createStudent(t, "ovw-good", "STU-T1", "T1")
	weak := createStudent(t, "ovw-weak", "STU-T2", "T1")
	seedPerformance(t, teacher, good, "Math", 95, 85)
	seedPerformance(t, teacher, weak, "Math", 50, 40)

	t.Run("overview", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/teacher/class-overview", getToken(t, teacher))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Summary struct {
				ClassID                  string `json:"class_id"`
				TotalStudents            int    `json:"total_students"`
				AvgAttendance            int    `json:"avg_attendance"`
				AvgMarks                 int    `json:"avg_marks"`
				StudentsNeedingAttention []struct {
					ID string `json:"id"`
				} `json:"students_needing_attention"`
			} `json:"summary"`
			AISummary string `json:"ai_summary"`
		}
		decodeBody(t, rec, &resp)

		if resp.Summary.ClassID != "T1" {
			t.Errorf("class = %v; want T1", resp.Summary.ClassID)
		}
		if resp.Summary.TotalStudents != 2 {
			t.Errorf("total students = %v; want 2", resp.Summary.TotalStudents)
		}
		if resp.Summary.AvgAttendance != 73 { // (95+50)/2 = 72.5
			t.Errorf("avg attendance = %v; want 73", resp.Summary.AvgAttendance)
		}
		if len(resp.Summary.StudentsNeedingAttention) != 1 || resp.Summary.StudentsNeedingAttention[0].ID != weak.ID {
			t.Errorf("flagged = %+v; want only %v", resp.Summary.StudentsNeedingAttention, weak.ID)
		}
		if resp.AISummary != "Class data analysis is currently unavailable. Please check back later." {
			t.Errorf("ai_summary = %q", resp.AISummary)
		}
	})

	t.Run("unassigned teacher", func(t *testing.T) {
		unassigned := createUser(t, "ovw-lost", user.RoleTeacher, "")
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/teacher/class-overview", getToken(t, unassigned))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "teacher not assigned to a class"}),
		}, rec)
	})
}

func Test_teacherApi_students(t *testing.T) {
	teacher := createUser(t, "lst-teach", user.RoleTeacher, "T2")
	mine := createStudent(t, "lst-mine", "STU-T3", "T2")
	createStudent(t, "lst-other", "STU-T4", "T9")

	req, rec := newAuthRequest(http.MethodGet, "/api/v1/teacher/students", getToken(t, teacher))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var students []user.User
	decodeBody(t, rec, &students)
	if len(students) != 1 || students[0].ID != mine.ID {
		t.Errorf("students = %+v; want only %v", students, mine.ID)
	}
}

func Test_teacherApi_grades(t *testing.T) {
	teacher := createUser(t, "grd-teach", user.RoleTeacher, "T3")
	student := createStudent(t, "grd-stud", "STU-T5", "T3")
	outsider := createStudent(t, "grd-out", "STU-T6", "T8")
	token := getToken(t, teacher)

	t.Run("attendance recorded", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/teacher/attendance", token,
			marshallObj(t, map[string]interface{}{"student_id": student.ID, "subject": "Math", "percentage": 82}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var sa performance.SubjectAttendance
		decodeBody(t, rec, &sa)
		if sa.Percentage != 82 || sa.Subject != "Math" {
			t.Errorf("record = %+v", sa)
		}
	})

	t.Run("marks overwrite", func(t *testing.T) {
		body := func(score float64) []byte {
			return marshallObj(t, map[string]interface{}{"student_id": student.ID, "subject": "Math", "score": score})
		}
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/teacher/marks", token, body(55))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodPost, "/api/v1/teacher/marks", token, body(72))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var sm performance.SubjectMarks
		decodeBody(t, rec, &sm)
		if sm.Score != 72 {
			t.Errorf("score = %v; want 72", sm.Score)
		}
	})

	t.Run("student in another class", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/teacher/marks", token,
			marshallObj(t, map[string]interface{}{"student_id": outsider.ID, "subject": "Math", "score": 10}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "student not in your class"}),
		}, rec)
	})

	t.Run("missing score", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/teacher/marks", token,
			marshallObj(t, map[string]interface{}{"student_id": student.ID, "subject": "Math"}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var fields map[string]string
		decodeBody(t, rec, &fields)
		if _, ok := fields["score"]; !ok {
			t.Errorf("expected a score field error; got %v", fields)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/teacher/marks", token,
			marshallObj(t, map[string]interface{}{"student_id": "nope", "subject": "Math", "score": 10}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "user not found"}),
		}, rec)
	})
}
