package domain

import "time"

// JobFilters 职位列表筛选；零值表示不过滤
type JobFilters struct {
	Category       string
	Location       string
	Search         string
	SalaryMin      int
	SalaryMax      int
	EmploymentType string
	Urgency        string
	SortBy         string // 已白名单化的列名
	SortDesc       bool
	Page           int
	Limit          int
}

// AppFilters 投递列表筛选
type AppFilters struct {
	Status string
	Page   int
	Limit  int
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type JobAppCount struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	ApplicationsCount int64  `json:"applications_count"`
}

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindByIDs(ids []string) (map[string]User, error)
	Update(u *User) error
	Delete(id string) error
}

type JobRepository interface {
	Create(j *Job) error
	FindByID(id string) (*Job, error)
	FindByIDs(ids []string) (map[string]Job, error)
	Update(j *Job) error
	Delete(id string) error
	ListByOwner(ownerID string) ([]Job, error)
	CountByOwner(ownerID string) (int64, error)
	List(f JobFilters) ([]Job, int64, error)
}

type ApplicationRepository interface {
	Create(a *Application) error
	FindByID(id string) (*Application, error)
	FindByJobAndApplicant(jobID, userID string) (*Application, error)
	ListByApplicant(userID string, f AppFilters) ([]Application, int64, error)
	ListByJob(jobID string, f AppFilters) ([]Application, int64, error)
	UpdateStatus(id, status, comment string) error
	RejectSiblings(jobID, acceptedID string) error
	Delete(id string) error
	DeleteByJob(jobID string) error
	DeleteByApplicant(userID string) error
	CountByJob(jobID string) (int64, error)
	CountByApplicant(userID string) (int64, error)
	CountByApplicantStatus(userID, status string) (int64, error)
	CountByApplicantSince(userID string, since time.Time) (int64, error)
	StatusCountsByApplicant(userID string) ([]StatusCount, error)
	CountByOwner(ownerID string) (int64, error)
	CountByOwnerSince(ownerID string, since time.Time) (int64, error)
	StatusCountsByOwner(ownerID string) ([]StatusCount, error)
	TopJobsByApplications(ownerID string, limit int) ([]JobAppCount, error)
}

// Store 三张表的入口。InTx 里拿到的 Store 绑定同一个事务，
// 回调返回错误则整体回滚。
type Store interface {
	Users() UserRepository
	Jobs() JobRepository
	Applications() ApplicationRepository
	InTx(fn func(Store) error) error
}
