package service

import (
	"fmt"
	"testing"

	"tez-jumush/internal/domain"
)

func TestApplyCreatesPendingApplication(t *testing.T) {
	s := newFakeStore()
	seedUser(s, "e1", "Employer", "e@x.kg", domain.RoleEmployer)
	seedUser(s, "w1", "Worker", "w@x.kg", domain.RoleWorker)
	seedJob(s, "j1", "Courier", "e1")

	svc := NewApplicationService(s)
	a, err := svc.Apply("w1", "j1", "hire me")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if a.Status != domain.StatusPending {
		t.Fatalf("status = %q, want pending", a.Status)
	}
	if a.CoverLetter != "hire me" {
		t.Fatalf("cover letter = %q", a.CoverLetter)
	}
}

func TestApplyTwiceYieldsConflict(t *testing.T) {
	s := newFakeStore()
	seedUser(s, "e1", "Employer", "e@x.kg", domain.RoleEmployer)
	seedUser(s, "w1", "Worker", "w@x.kg", domain.RoleWorker)
	seedJob(s, "j1", "Courier", "e1")

	svc := NewApplicationService(s)
	if _, err := svc.Apply("w1", "j1", ""); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	_, err := svc.Apply("w1", "j1", "")
	if !IsKind(err, KindConflict) {
		t.Fatalf("second apply err = %v, want conflict", err)
	}
	if len(s.apps) != 1 {
		t.Fatalf("application rows = %d, want 1", len(s.apps))
	}
}

func TestApplyToOwnJobIsValidationError(t *testing.T) {
	s := newFakeStore()
	seedUser(s, "e1", "Employer", "e@x.kg", domain.RoleEmployer)
	seedJob(s, "j1", "Courier", "e1")
	// 雇主给自己的职位投递（角色先改成 worker 以越过角色检查）
	s.users["e1"].Role = domain.RoleWorker

	svc := NewApplicationService(s)
	_, err := svc.Apply("e1", "j1", "")
	if !IsKind(err, KindValidation) {
		t.Fatalf("self-apply err = %v, want validation", err)
	}
}

func TestApplyRequiresWorkerRole(t *testing.T) {
	s := newFakeStore()
	seedUser(s, "e1", "Employer", "e@x.kg", domain.RoleEmployer)
	seedUser(s, "e2", "Another", "e2@x.kg", domain.RoleEmployer)
	seedJob(s, "j1", "Courier", "e1")

	svc := NewApplicationService(s)
	_, err := svc.Apply("e2", "j1", "")
	if !IsKind(err, KindAuthorization) {
		t.Fatalf("employer apply err = %v, want authorization", err)
	}
}

func TestApplyToMissingJob(t *testing.T) {
	s := newFakeStore()
	seedUser(s, "w1", "Worker", "w@x.kg", domain.RoleWorker)

	svc := NewApplicationService(s)
	_, err := svc.Apply("w1", "nope", "")
	if !IsKind(err, KindNotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}
}

func TestAcceptCascadesRejectToNonTerminalSiblings(t *testing.T) {
	s := newFakeStore()
	seedUser(s, "e1", "Employer", "e@x.kg", domain.RoleEmployer)
	seedJob(s, "j1", "Courier", "e1")
	seedApp(s, "a1", "j1", "w1", domain.StatusPending)
	seedApp(s, "a2", "j1", "w2", domain.StatusReviewed)
	seedApp(s, "a3", "j1", "w3", domain.StatusRejected)

	svc := NewApplicationService(s)
	a, err := svc.SetStatus("e1", "a1", domain.StatusAccepted, "welcome aboard")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if a.Status != domain.StatusAccepted {
		t.Fatalf("a1 status = %q", a.Status)
	}
	if s.apps["a2"].Status != domain.StatusRejected {
		t.Fatalf("a2 status = %q, want rejected", s.apps["a2"].Status)
	}
	if s.apps["a2"].EmployerComment != domain.RejectedByAcceptComment {
		t.Fatalf("a2 comment = %q", s.apps["a2"].EmployerComment)
	}
	// 已拒绝的兄弟投递不动
	if s.apps["a3"].EmployerComment != "" {
		t.Fatalf("a3 was touched: %q", s.apps["a3"].EmployerComment)
	}
}

func TestSetStatusOnlyByJobOwner(t *testing.T) {
	s := newFakeStore()
	seedUser(s, "e1", "Employer", "e@x.kg", domain.RoleEmployer)
	seedUser(s, "e2", "Other", "o@x.kg", domain.RoleEmployer)
	seedJob(s, "j1", "Courier", "e1")
	seedApp(s, "a1", "j1", "w1", domain.StatusPending)

	svc := NewApplicationService(s)
	_, err := svc.SetStatus("e2", "a1", domain.StatusReviewed, "")
	if !IsKind(err, KindAuthorization) {
		t.Fatalf("err = %v, want authorization", err)
	}
	if s.apps["a1"].Status != domain.StatusPending {
		t.Fatalf("a1 was modified: %q", s.apps["a1"].Status)
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	s := newFakeStore()
	svc := NewApplicationService(s)
	_, err := svc.SetStatus("e1", "a1", "hired", "")
	if !IsKind(err, KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestWithdrawRules(t *testing.T) {
	cases := []struct {
		status  string
		wantErr Kind
	}{
		{domain.StatusPending, ""},
		{domain.StatusReviewed, ""},
		{domain.StatusRejected, ""},
		{domain.StatusAccepted, KindConflict},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			s := newFakeStore()
			seedApp(s, "a1", "j1", "w1", tc.status)
			svc := NewApplicationService(s)
			jobID, err := svc.Withdraw("w1", "a1")
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("withdraw(%s): %v", tc.status, err)
				}
				if jobID != "j1" {
					t.Fatalf("jobID = %q, want j1", jobID)
				}
				if _, ok := s.apps["a1"]; ok {
					t.Fatal("row still present after withdraw")
				}
				return
			}
			if !IsKind(err, tc.wantErr) {
				t.Fatalf("withdraw(%s) err = %v, want %s", tc.status, err, tc.wantErr)
			}
			if _, ok := s.apps["a1"]; !ok {
				t.Fatal("accepted application was deleted")
			}
		})
	}
}

func TestWithdrawOnlyByApplicant(t *testing.T) {
	s := newFakeStore()
	seedApp(s, "a1", "j1", "w1", domain.StatusPending)
	svc := NewApplicationService(s)
	_, err := svc.Withdraw("w2", "a1")
	if !IsKind(err, KindAuthorization) {
		t.Fatalf("err = %v, want authorization", err)
	}
}

func TestListByJobRequiresOwnership(t *testing.T) {
	s := newFakeStore()
	seedUser(s, "e1", "Employer", "e@x.kg", domain.RoleEmployer)
	seedJob(s, "j1", "Courier", "e1")
	svc := NewApplicationService(s)
	_, _, err := svc.ListByJob("intruder", "j1", "", 1, 10)
	if !IsKind(err, KindAuthorization) {
		t.Fatalf("err = %v, want authorization", err)
	}
}

func TestListByApplicantEnrichesWithJobSummary(t *testing.T) {
	s := newFakeStore()
	seedUser(s, "e1", "Employer", "e@x.kg", domain.RoleEmployer)
	s.users["e1"].Photo = "data:image/png;base64,xxx"
	j := seedJob(s, "j1", "Courier", "e1")
	j.Employer = "Employer"
	j.Salary = "1000 сом"
	seedApp(s, "a1", "j1", "w1", domain.StatusPending)

	svc := NewApplicationService(s)
	items, pg, err := svc.ListByApplicant("w1", "", 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	if items[0].Job == nil || items[0].Job.Title != "Courier" {
		t.Fatalf("job summary = %+v", items[0].Job)
	}
	if items[0].Job.EmployerPhoto == "" {
		t.Fatal("employer photo not resolved")
	}
	if pg.TotalItems != 1 {
		t.Fatalf("total = %d", pg.TotalItems)
	}
}

func TestWorkerStatsSuccessRate(t *testing.T) {
	s := newFakeStore()
	seedUser(s, "w1", "Worker", "w@x.kg", domain.RoleWorker)
	svc := NewApplicationService(s)

	stats, err := svc.WorkerStats("w1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.SuccessRate != "0.0%" {
		t.Fatalf("empty success_rate = %q, want 0.0%%", stats.SuccessRate)
	}

	seedApp(s, "a1", "j1", "w1", domain.StatusAccepted)
	seedApp(s, "a2", "j2", "w1", domain.StatusRejected)
	stats, err = svc.WorkerStats("w1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.SuccessRate != "50.0%" {
		t.Fatalf("success_rate = %q, want 50.0%%", stats.SuccessRate)
	}
	if stats.TotalApplications != 2 || stats.AcceptedApplications != 1 {
		t.Fatalf("totals = %d/%d", stats.TotalApplications, stats.AcceptedApplications)
	}
}

func TestEmployerStats(t *testing.T) {
	s := newFakeStore()
	seedUser(s, "e1", "Employer", "e@x.kg", domain.RoleEmployer)
	for i := 0; i < 3; i++ {
		seedJob(s, fmt.Sprintf("j%d", i), fmt.Sprintf("Job %d", i), "e1")
	}
	seedApp(s, "a1", "j0", "w1", domain.StatusPending)
	seedApp(s, "a2", "j0", "w2", domain.StatusAccepted)
	seedApp(s, "a3", "j1", "w3", domain.StatusPending)

	svc := NewApplicationService(s)
	stats, err := svc.EmployerStats("e1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalApplications != 3 {
		t.Fatalf("total = %d", stats.TotalApplications)
	}
	if len(stats.TopJobsByApplication) != 3 {
		t.Fatalf("top jobs = %d", len(stats.TopJobsByApplication))
	}
	if stats.TopJobsByApplication[0].ID != "j0" || stats.TopJobsByApplication[0].ApplicationsCount != 2 {
		t.Fatalf("top job = %+v", stats.TopJobsByApplication[0])
	}
}
