package service

import (
	"strings"

	"tez-jumush/internal/domain"
	"tez-jumush/pkg/utils"
)

type JobService struct {
	store domain.Store
}

func NewJobService(store domain.Store) *JobService { return &JobService{store: store} }

type JobInput struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Salary         string   `json:"salary"`
	Location       string   `json:"location"`
	Phone          string   `json:"phone"`
	Category       string   `json:"category"`
	Urgency        string   `json:"urgency"`
	EmploymentType string   `json:"employment_type"`
	Requirements   []string `json:"requirements"`
	Employer       string   `json:"employer"`
}

func (in *JobInput) validate() error {
	var errs []string
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, "title is required")
	} else if len(in.Title) > 255 {
		errs = append(errs, "title cannot exceed 255 characters")
	}
	if strings.TrimSpace(in.Description) == "" {
		errs = append(errs, "description is required")
	}
	if in.Urgency != "" && !domain.ValidUrgency(in.Urgency) {
		errs = append(errs, "urgency must be low, medium or high")
	}
	if in.EmploymentType != "" && !domain.ValidEmploymentType(in.EmploymentType) {
		errs = append(errs, "invalid employment_type")
	}
	if len(errs) > 0 {
		return ValidationError(strings.Join(errs, ", "))
	}
	return nil
}

// Create 发布职位。角色以数据库当前值为准，不信任 token 里的声明。
func (s *JobService) Create(userID string, in JobInput) (*domain.Job, error) {
	u, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, AuthenticationError("user not found")
	}
	if u.Role != domain.RoleEmployer {
		return nil, AuthorizationError("only employers can post jobs")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	j := &domain.Job{
		ID:             utils.NewID(),
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Salary:         in.Salary,
		SalaryAmount:   utils.SalaryAmount(in.Salary),
		Location:       in.Location,
		Phone:          in.Phone,
		Category:       in.Category,
		Urgency:        in.Urgency,
		EmploymentType: in.EmploymentType,
		Requirements:   in.Requirements,
		Employer:       in.Employer,
		UserID:         userID,
	}
	if j.Urgency == "" {
		j.Urgency = domain.UrgencyMedium
	}
	if j.EmploymentType == "" {
		j.EmploymentType = domain.EmploymentPartTime
	}
	if j.Employer == "" {
		j.Employer = u.Name
	}
	if err := s.store.Jobs().Create(j); err != nil {
		return nil, Internal("create job failed", err)
	}
	return j, nil
}

// JobUpdate 未提供的字段保持原值
type JobUpdate struct {
	Title          *string
	Description    *string
	Salary         *string
	Location       *string
	Phone          *string
	Category       *string
	Urgency        *string
	EmploymentType *string
	Requirements   *[]string
	Employer       *string
}

func (s *JobService) Update(userID, jobID string, in JobUpdate) (*domain.Job, error) {
	j, err := s.store.Jobs().FindByID(jobID)
	if err != nil {
		return nil, Internal("lookup job failed", err)
	}
	if j == nil {
		return nil, NotFoundError("job not found")
	}
	if j.UserID != userID {
		return nil, AuthorizationError("you can only edit your own jobs")
	}

	var errs []string
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			errs = append(errs, "title cannot be empty")
		} else if len(*in.Title) > 255 {
			errs = append(errs, "title cannot exceed 255 characters")
		}
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		errs = append(errs, "description cannot be empty")
	}
	if in.Urgency != nil && !domain.ValidUrgency(*in.Urgency) {
		errs = append(errs, "urgency must be low, medium or high")
	}
	if in.EmploymentType != nil && !domain.ValidEmploymentType(*in.EmploymentType) {
		errs = append(errs, "invalid employment_type")
	}
	if len(errs) > 0 {
		return nil, ValidationError(strings.Join(errs, ", "))
	}

	if in.Title != nil {
		j.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		j.Description = *in.Description
	}
	if in.Salary != nil {
		j.Salary = *in.Salary
		j.SalaryAmount = utils.SalaryAmount(*in.Salary)
	}
	if in.Location != nil {
		j.Location = *in.Location
	}
	if in.Phone != nil {
		j.Phone = *in.Phone
	}
	if in.Category != nil {
		j.Category = *in.Category
	}
	if in.Urgency != nil {
		j.Urgency = *in.Urgency
	}
	if in.EmploymentType != nil {
		j.EmploymentType = *in.EmploymentType
	}
	if in.Requirements != nil {
		j.Requirements = *in.Requirements
	}
	if in.Employer != nil {
		j.Employer = *in.Employer
	}
	if err := s.store.Jobs().Update(j); err != nil {
		return nil, Internal("update job failed", err)
	}
	return j, nil
}

// Delete 连带删除该职位下全部投递，同一事务
func (s *JobService) Delete(userID, jobID string) error {
	j, err := s.store.Jobs().FindByID(jobID)
	if err != nil {
		return Internal("lookup job failed", err)
	}
	if j == nil {
		return NotFoundError("job not found")
	}
	if j.UserID != userID {
		return AuthorizationError("you can only delete your own jobs")
	}
	err = s.store.InTx(func(tx domain.Store) error {
		if err := tx.Applications().DeleteByJob(jobID); err != nil {
			return err
		}
		return tx.Jobs().Delete(jobID)
	})
	if err != nil {
		return Internal("delete job failed", err)
	}
	return nil
}

type ListJobsInput struct {
	Category       string
	Location       string
	Search         string
	SalaryMin      int
	SalaryMax      int
	EmploymentType string
	Urgency        string
	SortBy         string
	SortOrder      string
	Page           int
	Limit          int
}

// 可排序列白名单；前端传 salary 实际按提取出的数值排
var sortColumns = map[string]string{
	"created_at": "created_at",
	"title":      "title",
	"salary":     "salary_amount",
	"urgency":    "urgency",
}

func (s *JobService) List(in ListJobsInput) ([]domain.Job, Pagination, error) {
	page, limit := sanitizePage(in.Page, in.Limit, 20, 100)

	col, ok := sortColumns[in.SortBy]
	if !ok {
		col = "created_at"
	}
	f := domain.JobFilters{
		Category:       in.Category,
		Location:       in.Location,
		Search:         in.Search,
		SalaryMin:      in.SalaryMin,
		SalaryMax:      in.SalaryMax,
		EmploymentType: in.EmploymentType,
		Urgency:        in.Urgency,
		SortBy:         col,
		SortDesc:       in.SortOrder != "asc",
		Page:           page,
		Limit:          limit,
	}
	jobs, total, err := s.store.Jobs().List(f)
	if err != nil {
		return nil, Pagination{}, Internal("list jobs failed", err)
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, NewPagination(page, limit, total), nil
}

func (s *JobService) Get(jobID string) (*domain.Job, error) {
	j, err := s.store.Jobs().FindByID(jobID)
	if err != nil {
		return nil, Internal("lookup job failed", err)
	}
	if j == nil {
		return nil, NotFoundError("job not found")
	}
	n, err := s.store.Applications().CountByJob(jobID)
	if err != nil {
		return nil, Internal("count applications failed", err)
	}
	j.ApplicationsCount = n
	return j, nil
}

// ListByOwner 雇主查看自己发布的职位，带各自的投递数
func (s *JobService) ListByOwner(userID string) ([]domain.Job, error) {
	jobs, err := s.store.Jobs().ListByOwner(userID)
	if err != nil {
		return nil, Internal("list jobs failed", err)
	}
	for i := range jobs {
		n, err := s.store.Applications().CountByJob(jobs[i].ID)
		if err != nil {
			return nil, Internal("count applications failed", err)
		}
		jobs[i].ApplicationsCount = n
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, nil
}
