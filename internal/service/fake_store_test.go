package service

import (
	"sort"
	"strings"
	"time"

	"tez-jumush/internal/domain"
)

// 内存版 Store，服务层测试不碰真实数据库

type fakeStore struct {
	users map[string]*domain.User
	jobs  map[string]*domain.Job
	apps  map[string]*domain.Application
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: map[string]*domain.User{},
		jobs:  map[string]*domain.Job{},
		apps:  map[string]*domain.Application{},
	}
}

func (s *fakeStore) Users() domain.UserRepository               { return &fakeUsers{s} }
func (s *fakeStore) Jobs() domain.JobRepository                 { return &fakeJobs{s} }
func (s *fakeStore) Applications() domain.ApplicationRepository { return &fakeApps{s} }
func (s *fakeStore) InTx(fn func(domain.Store) error) error     { return fn(s) }

type fakeUsers struct{ s *fakeStore }

func (r *fakeUsers) Create(u *domain.User) error {
	for _, e := range r.s.users {
		if e.Email == u.Email {
			return errDup
		}
	}
	cp := *u
	cp.CreatedAt = time.Now()
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUsers) FindByID(id string) (*domain.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsers) FindByEmail(email string) (*domain.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUsers) FindByIDs(ids []string) (map[string]domain.User, error) {
	out := map[string]domain.User{}
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (r *fakeUsers) Update(u *domain.User) error {
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *fakeUsers) Delete(id string) error {
	delete(r.s.users, id)
	return nil
}

type fakeJobs struct{ s *fakeStore }

func (r *fakeJobs) Create(j *domain.Job) error {
	cp := *j
	cp.CreatedAt = time.Now()
	r.s.jobs[j.ID] = &cp
	return nil
}

func (r *fakeJobs) FindByID(id string) (*domain.Job, error) {
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJobs) FindByIDs(ids []string) (map[string]domain.Job, error) {
	out := map[string]domain.Job{}
	for _, id := range ids {
		if j, ok := r.s.jobs[id]; ok {
			out[id] = *j
		}
	}
	return out, nil
}

func (r *fakeJobs) Update(j *domain.Job) error {
	cp := *j
	r.s.jobs[j.ID] = &cp
	return nil
}

func (r *fakeJobs) Delete(id string) error {
	delete(r.s.jobs, id)
	return nil
}

func (r *fakeJobs) ListByOwner(ownerID string) ([]domain.Job, error) {
	var out []domain.Job
	for _, j := range r.s.jobs {
		if j.UserID == ownerID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobs) CountByOwner(ownerID string) (int64, error) {
	jobs, _ := r.ListByOwner(ownerID)
	return int64(len(jobs)), nil
}

func (r *fakeJobs) List(f domain.JobFilters) ([]domain.Job, int64, error) {
	var all []domain.Job
	for _, j := range r.s.jobs {
		if f.Category != "" && j.Category != f.Category {
			continue
		}
		if f.Location != "" && !strings.Contains(j.Location, f.Location) {
			continue
		}
		if f.Search != "" &&
			!strings.Contains(j.Title, f.Search) &&
			!strings.Contains(j.Description, f.Search) &&
			!strings.Contains(j.Employer, f.Search) {
			continue
		}
		if f.SalaryMin > 0 && j.SalaryAmount < f.SalaryMin {
			continue
		}
		if f.SalaryMax > 0 && j.SalaryAmount > f.SalaryMax {
			continue
		}
		if f.EmploymentType != "" && j.EmploymentType != f.EmploymentType {
			continue
		}
		if f.Urgency != "" && j.Urgency != f.Urgency {
			continue
		}
		all = append(all, *j)
	}
	sort.Slice(all, func(a, b int) bool {
		less := false
		switch f.SortBy {
		case "title":
			less = all[a].Title < all[b].Title
		case "salary_amount":
			less = all[a].SalaryAmount < all[b].SalaryAmount
		case "urgency":
			less = all[a].Urgency < all[b].Urgency
		default:
			less = all[a].CreatedAt.Before(all[b].CreatedAt)
		}
		if f.SortDesc {
			return !less
		}
		return less
	})
	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

type fakeApps struct{ s *fakeStore }

var errDup = &dupErr{}

type dupErr struct{}

func (*dupErr) Error() string { return "UNIQUE constraint failed" }

func (r *fakeApps) Create(a *domain.Application) error {
	for _, e := range r.s.apps {
		if e.JobID == a.JobID && e.UserID == a.UserID {
			return errDup
		}
	}
	cp := *a
	cp.AppliedAt = time.Now()
	r.s.apps[a.ID] = &cp
	return nil
}

func (r *fakeApps) FindByID(id string) (*domain.Application, error) {
	a, ok := r.s.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeApps) FindByJobAndApplicant(jobID, userID string) (*domain.Application, error) {
	for _, a := range r.s.apps {
		if a.JobID == jobID && a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeApps) list(match func(*domain.Application) bool, f domain.AppFilters) ([]domain.Application, int64, error) {
	var all []domain.Application
	for _, a := range r.s.apps {
		if !match(a) {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		all = append(all, *a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AppliedAt.After(all[j].AppliedAt) })
	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeApps) ListByApplicant(userID string, f domain.AppFilters) ([]domain.Application, int64, error) {
	return r.list(func(a *domain.Application) bool { return a.UserID == userID }, f)
}

func (r *fakeApps) ListByJob(jobID string, f domain.AppFilters) ([]domain.Application, int64, error) {
	return r.list(func(a *domain.Application) bool { return a.JobID == jobID }, f)
}

func (r *fakeApps) UpdateStatus(id, status, comment string) error {
	a, ok := r.s.apps[id]
	if !ok {
		return nil
	}
	a.Status = status
	a.EmployerComment = comment
	a.UpdatedAt = time.Now()
	return nil
}

func (r *fakeApps) RejectSiblings(jobID, acceptedID string) error {
	for _, a := range r.s.apps {
		if a.JobID != jobID || a.ID == acceptedID {
			continue
		}
		if a.Status == domain.StatusPending || a.Status == domain.StatusReviewed {
			a.Status = domain.StatusRejected
			a.EmployerComment = domain.RejectedByAcceptComment
		}
	}
	return nil
}

func (r *fakeApps) Delete(id string) error {
	delete(r.s.apps, id)
	return nil
}

func (r *fakeApps) DeleteByJob(jobID string) error {
	for id, a := range r.s.apps {
		if a.JobID == jobID {
			delete(r.s.apps, id)
		}
	}
	return nil
}

func (r *fakeApps) DeleteByApplicant(userID string) error {
	for id, a := range r.s.apps {
		if a.UserID == userID {
			delete(r.s.apps, id)
		}
	}
	return nil
}

func (r *fakeApps) count(match func(*domain.Application) bool) int64 {
	var n int64
	for _, a := range r.s.apps {
		if match(a) {
			n++
		}
	}
	return n
}

func (r *fakeApps) CountByJob(jobID string) (int64, error) {
	return r.count(func(a *domain.Application) bool { return a.JobID == jobID }), nil
}

func (r *fakeApps) CountByApplicant(userID string) (int64, error) {
	return r.count(func(a *domain.Application) bool { return a.UserID == userID }), nil
}

func (r *fakeApps) CountByApplicantStatus(userID, status string) (int64, error) {
	return r.count(func(a *domain.Application) bool { return a.UserID == userID && a.Status == status }), nil
}

func (r *fakeApps) CountByApplicantSince(userID string, since time.Time) (int64, error) {
	return r.count(func(a *domain.Application) bool { return a.UserID == userID && a.AppliedAt.After(since) }), nil
}

func (r *fakeApps) StatusCountsByApplicant(userID string) ([]domain.StatusCount, error) {
	return r.statusCounts(func(a *domain.Application) bool { return a.UserID == userID }), nil
}

func (r *fakeApps) ownerOf(a *domain.Application) string {
	if j, ok := r.s.jobs[a.JobID]; ok {
		return j.UserID
	}
	return ""
}

func (r *fakeApps) CountByOwner(ownerID string) (int64, error) {
	return r.count(func(a *domain.Application) bool { return r.ownerOf(a) == ownerID }), nil
}

func (r *fakeApps) CountByOwnerSince(ownerID string, since time.Time) (int64, error) {
	return r.count(func(a *domain.Application) bool {
		return r.ownerOf(a) == ownerID && a.AppliedAt.After(since)
	}), nil
}

func (r *fakeApps) StatusCountsByOwner(ownerID string) ([]domain.StatusCount, error) {
	return r.statusCounts(func(a *domain.Application) bool { return r.ownerOf(a) == ownerID }), nil
}

func (r *fakeApps) statusCounts(match func(*domain.Application) bool) []domain.StatusCount {
	m := map[string]int64{}
	for _, a := range r.s.apps {
		if match(a) {
			m[a.Status]++
		}
	}
	var out []domain.StatusCount
	for st, n := range m {
		out = append(out, domain.StatusCount{Status: st, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}

func (r *fakeApps) TopJobsByApplications(ownerID string, limit int) ([]domain.JobAppCount, error) {
	var out []domain.JobAppCount
	for _, j := range r.s.jobs {
		if j.UserID != ownerID {
			continue
		}
		n, _ := r.CountByJob(j.ID)
		out = append(out, domain.JobAppCount{ID: j.ID, Title: j.Title, ApplicationsCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicationsCount > out[j].ApplicationsCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ domain.Store = (*fakeStore)(nil)

// 测试数据搭建辅助

func seedUser(s *fakeStore, id, name, email, role string) *domain.User {
	u := &domain.User{ID: id, Name: name, Email: email, Role: role, CreatedAt: time.Now()}
	s.users[id] = u
	return u
}

func seedJob(s *fakeStore, id, title, ownerID string) *domain.Job {
	j := &domain.Job{ID: id, Title: title, Description: "d", UserID: ownerID, CreatedAt: time.Now()}
	s.jobs[id] = j
	return j
}

func seedApp(s *fakeStore, id, jobID, userID, status string) *domain.Application {
	a := &domain.Application{ID: id, JobID: jobID, UserID: userID, Status: status, AppliedAt: time.Now()}
	s.apps[id] = a
	return a
}
