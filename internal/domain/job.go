package domain

import "time"

// 紧急程度 / 用工形式
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

const (
	EmploymentFullTime  = "full-time"
	EmploymentPartTime  = "part-time"
	EmploymentFreelance = "freelance"
	EmploymentContract  = "contract"
)

type Job struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text;not null" json:"description"`
	Salary         string    `gorm:"size:100" json:"salary"`
	SalaryAmount   int       `json:"salary_amount"` // 从 salary 文本里提取的第一段数字
	Location       string    `gorm:"size:255" json:"location"`
	Phone          string    `gorm:"size:50" json:"phone"`
	Category       string    `gorm:"size:100" json:"category"`
	Urgency        string    `gorm:"size:16;default:medium" json:"urgency"`
	EmploymentType string    `gorm:"size:32;default:part-time" json:"employment_type"`
	Requirements   []string  `gorm:"serializer:json" json:"requirements"`
	Employer       string    `gorm:"size:255" json:"employer"` // 冗余的雇主名，列表页免 join
	UserID         string    `gorm:"index;size:36;not null" json:"user_id"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	ApplicationsCount int64 `gorm:"-" json:"applications_count"`
}

func (Job) TableName() string { return "jobs" }

func ValidUrgency(u string) bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

func ValidEmploymentType(t string) bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentFreelance, EmploymentContract:
		return true
	}
	return false
}
