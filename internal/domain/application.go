package domain

import "time"

// 投递状态机：pending 为初始态；accepted 之后不可撤回
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// RejectedByAcceptComment 录用一人后，系统批量拒绝其余投递时写入的备注
const RejectedByAcceptComment = "position filled — another candidate was selected"

type Application struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	JobID           string    `gorm:"size:36;not null;uniqueIndex:uk_job_applicant" json:"job_id"`
	UserID          string    `gorm:"size:36;not null;uniqueIndex:uk_job_applicant" json:"user_id"`
	Status          string    `gorm:"size:16;not null;default:pending" json:"status"`
	CoverLetter     string    `gorm:"type:text" json:"cover_letter"`
	EmployerComment string    `gorm:"type:text" json:"employer_comment"`
	AppliedAt       time.Time `gorm:"autoCreateTime;column:applied_at" json:"applied_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Application) TableName() string { return "applications" }

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}
