package service

import (
	"fmt"
	"time"

	"tez-jumush/internal/domain"
	"tez-jumush/pkg/utils"
)

type ApplicationService struct {
	store domain.Store
}

func NewApplicationService(store domain.Store) *ApplicationService {
	return &ApplicationService{store: store}
}

// Apply 工人投递职位。自投和重复投递都拒绝；
// 并发下靠 (job_id, user_id) 唯一索引兜底。
func (s *ApplicationService) Apply(userID, jobID, coverLetter string) (*domain.Application, error) {
	u, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, AuthenticationError("user not found")
	}
	if u.Role != domain.RoleWorker {
		return nil, AuthorizationError("only workers can apply for jobs")
	}

	j, err := s.store.Jobs().FindByID(jobID)
	if err != nil {
		return nil, Internal("lookup job failed", err)
	}
	if j == nil {
		return nil, NotFoundError("job not found")
	}
	if j.UserID == userID {
		return nil, ValidationError("you cannot apply to your own job")
	}

	if existing, err := s.store.Applications().FindByJobAndApplicant(jobID, userID); err != nil {
		return nil, Internal("lookup application failed", err)
	} else if existing != nil {
		return nil, ConflictError("you have already applied for this job")
	}

	a := &domain.Application{
		ID:          utils.NewID(),
		JobID:       jobID,
		UserID:      userID,
		Status:      domain.StatusPending,
		CoverLetter: coverLetter,
	}
	if err := s.store.Applications().Create(a); err != nil {
		if isDupKey(err) {
			return nil, ConflictError("you have already applied for this job")
		}
		return nil, Internal("create application failed", err)
	}
	return a, nil
}

// SetStatus 雇主变更投递状态。归属以职位当前 user_id 为准。
// 置为 accepted 时，同职位其余 pending/reviewed 投递在同一事务里批量转 rejected。
func (s *ApplicationService) SetStatus(userID, appID, status, comment string) (*domain.Application, error) {
	if !domain.ValidStatus(status) {
		return nil, ValidationError("status must be pending, reviewed, accepted or rejected")
	}
	a, err := s.store.Applications().FindByID(appID)
	if err != nil {
		return nil, Internal("lookup application failed", err)
	}
	if a == nil {
		return nil, NotFoundError("application not found")
	}
	j, err := s.store.Jobs().FindByID(a.JobID)
	if err != nil {
		return nil, Internal("lookup job failed", err)
	}
	if j == nil || j.UserID != userID {
		return nil, AuthorizationError("you can only manage applications for your own jobs")
	}

	err = s.store.InTx(func(tx domain.Store) error {
		if err := tx.Applications().UpdateStatus(appID, status, comment); err != nil {
			return err
		}
		if status == domain.StatusAccepted {
			return tx.Applications().RejectSiblings(a.JobID, appID)
		}
		return nil
	})
	if err != nil {
		return nil, Internal("update application failed", err)
	}
	a.Status = status
	a.EmployerComment = comment
	return a, nil
}

// Withdraw 投递人撤回自己的投递。已录用的不可撤回。
// 返回所属职位 id，调用方据此失效职位缓存。
func (s *ApplicationService) Withdraw(userID, appID string) (string, error) {
	a, err := s.store.Applications().FindByID(appID)
	if err != nil {
		return "", Internal("lookup application failed", err)
	}
	if a == nil {
		return "", NotFoundError("application not found")
	}
	if a.UserID != userID {
		return "", AuthorizationError("you can only withdraw your own applications")
	}
	if a.Status == domain.StatusAccepted {
		return "", ConflictError("cannot withdraw an accepted application")
	}
	if err := s.store.Applications().Delete(appID); err != nil {
		return "", Internal("withdraw application failed", err)
	}
	return a.JobID, nil
}

// ApplicationWithJob 工人侧列表项，内嵌职位摘要
type ApplicationWithJob struct {
	domain.Application
	Job *JobSummary `json:"job"`
}

type JobSummary struct {
	Title         string `json:"title"`
	Employer      string `json:"employer"`
	EmployerPhoto string `json:"employer_photo"`
	Location      string `json:"location"`
	Salary        string `json:"salary"`
	Category      string `json:"category"`
	Urgency       string `json:"urgency"`
}

func (s *ApplicationService) ListByApplicant(userID, status string, page, limit int) ([]ApplicationWithJob, Pagination, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, Pagination{}, ValidationError("invalid status filter")
	}
	page, limit = sanitizePage(page, limit, 20, 100)

	apps, total, err := s.store.Applications().ListByApplicant(userID, domain.AppFilters{Status: status, Page: page, Limit: limit})
	if err != nil {
		return nil, Pagination{}, Internal("list applications failed", err)
	}

	jobIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		jobIDs = append(jobIDs, a.JobID)
	}
	jobs, err := s.store.Jobs().FindByIDs(jobIDs)
	if err != nil {
		return nil, Pagination{}, Internal("lookup jobs failed", err)
	}
	ownerIDs := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ownerIDs = append(ownerIDs, j.UserID)
	}
	owners, err := s.store.Users().FindByIDs(ownerIDs)
	if err != nil {
		return nil, Pagination{}, Internal("lookup users failed", err)
	}

	out := make([]ApplicationWithJob, 0, len(apps))
	for _, a := range apps {
		item := ApplicationWithJob{Application: a}
		if j, ok := jobs[a.JobID]; ok {
			sum := &JobSummary{
				Title:    j.Title,
				Employer: j.Employer,
				Location: j.Location,
				Salary:   j.Salary,
				Category: j.Category,
				Urgency:  j.Urgency,
			}
			if owner, ok := owners[j.UserID]; ok {
				sum.EmployerPhoto = owner.Photo
			}
			item.Job = sum
		}
		out = append(out, item)
	}
	return out, NewPagination(page, limit, total), nil
}

// ApplicationWithApplicant 雇主侧列表项，内嵌投递人资料
type ApplicationWithApplicant struct {
	domain.Application
	Applicant *ApplicantSummary `json:"applicant"`
}

type ApplicantSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Photo      string   `json:"photo"`
	Age        int      `json:"age"`
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
}

func (s *ApplicationService) ListByJob(userID, jobID, status string, page, limit int) ([]ApplicationWithApplicant, Pagination, error) {
	if status != "" && !domain.ValidStatus(status) {
		return nil, Pagination{}, ValidationError("invalid status filter")
	}
	j, err := s.store.Jobs().FindByID(jobID)
	if err != nil {
		return nil, Pagination{}, Internal("lookup job failed", err)
	}
	if j == nil {
		return nil, Pagination{}, NotFoundError("job not found")
	}
	if j.UserID != userID {
		return nil, Pagination{}, AuthorizationError("you can only view applications for your own jobs")
	}
	page, limit = sanitizePage(page, limit, 20, 100)

	apps, total, err := s.store.Applications().ListByJob(jobID, domain.AppFilters{Status: status, Page: page, Limit: limit})
	if err != nil {
		return nil, Pagination{}, Internal("list applications failed", err)
	}

	userIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		userIDs = append(userIDs, a.UserID)
	}
	users, err := s.store.Users().FindByIDs(userIDs)
	if err != nil {
		return nil, Pagination{}, Internal("lookup users failed", err)
	}

	out := make([]ApplicationWithApplicant, 0, len(apps))
	for _, a := range apps {
		item := ApplicationWithApplicant{Application: a}
		if u, ok := users[a.UserID]; ok {
			skills := u.Skills
			if skills == nil {
				skills = []string{}
			}
			item.Applicant = &ApplicantSummary{
				ID:         u.ID,
				Name:       u.Name,
				Email:      u.Email,
				Phone:      u.Phone,
				Photo:      u.Photo,
				Age:        u.Age,
				Skills:     skills,
				Experience: u.Experience,
			}
		}
		out = append(out, item)
	}
	return out, NewPagination(page, limit, total), nil
}

// EmployerStats 雇主仪表盘聚合
type EmployerStats struct {
	TotalApplications    int64                `json:"total_applications"`
	NewApplicationsWeek  int64                `json:"new_applications_week"`
	StatusDistribution   []domain.StatusCount `json:"status_distribution"`
	TopJobsByApplication []domain.JobAppCount `json:"top_jobs_by_applications"`
}

func (s *ApplicationService) EmployerStats(userID string) (*EmployerStats, error) {
	u, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, AuthenticationError("user not found")
	}
	if u.Role != domain.RoleEmployer {
		return nil, AuthorizationError("employer role required")
	}

	apps := s.store.Applications()
	total, err := apps.CountByOwner(userID)
	if err != nil {
		return nil, Internal("stats query failed", err)
	}
	week, err := apps.CountByOwnerSince(userID, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, Internal("stats query failed", err)
	}
	dist, err := apps.StatusCountsByOwner(userID)
	if err != nil {
		return nil, Internal("stats query failed", err)
	}
	top, err := apps.TopJobsByApplications(userID, 5)
	if err != nil {
		return nil, Internal("stats query failed", err)
	}
	if dist == nil {
		dist = []domain.StatusCount{}
	}
	if top == nil {
		top = []domain.JobAppCount{}
	}
	return &EmployerStats{
		TotalApplications:    total,
		NewApplicationsWeek:  week,
		StatusDistribution:   dist,
		TopJobsByApplication: top,
	}, nil
}

// WorkerStats 工人仪表盘聚合。success_rate 是格式化好的百分比字符串。
type WorkerStats struct {
	TotalApplications       int64                `json:"total_applications"`
	RecentApplicationsMonth int64                `json:"recent_applications_month"`
	AcceptedApplications    int64                `json:"accepted_applications"`
	SuccessRate             string               `json:"success_rate"`
	StatusDistribution      []domain.StatusCount `json:"status_distribution"`
}

func (s *ApplicationService) WorkerStats(userID string) (*WorkerStats, error) {
	u, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, AuthenticationError("user not found")
	}
	if u.Role != domain.RoleWorker {
		return nil, AuthorizationError("worker role required")
	}

	apps := s.store.Applications()
	total, err := apps.CountByApplicant(userID)
	if err != nil {
		return nil, Internal("stats query failed", err)
	}
	month, err := apps.CountByApplicantSince(userID, time.Now().AddDate(0, -1, 0))
	if err != nil {
		return nil, Internal("stats query failed", err)
	}
	accepted, err := apps.CountByApplicantStatus(userID, domain.StatusAccepted)
	if err != nil {
		return nil, Internal("stats query failed", err)
	}
	dist, err := apps.StatusCountsByApplicant(userID)
	if err != nil {
		return nil, Internal("stats query failed", err)
	}
	if dist == nil {
		dist = []domain.StatusCount{}
	}

	rate := "0.0%"
	if total > 0 {
		rate = fmt.Sprintf("%.1f%%", float64(accepted)/float64(total)*100)
	}
	return &WorkerStats{
		TotalApplications:       total,
		RecentApplicationsMonth: month,
		AcceptedApplications:    accepted,
		SuccessRate:             rate,
		StatusDistribution:      dist,
	}, nil
}
