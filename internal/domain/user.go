package domain

import "time"

// 用户角色（注册后不可变，没有改角色的接口）
const (
	RoleWorker   = "worker"
	RoleEmployer = "employer"
)

type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string     `gorm:"size:191" json:"-"` // 联合登录用户可为空
	Phone        string     `gorm:"size:50" json:"phone"`
	Role         string     `gorm:"size:16;not null" json:"userType"` // worker / employer
	Photo        string     `gorm:"type:mediumtext" json:"photo"`
	Age          int        `json:"age"`
	Skills       []string   `gorm:"serializer:json" json:"skills"`
	Experience   string     `gorm:"type:text" json:"experience"`
	HasOtherJobs bool       `json:"hasOtherJobs"`
	AuthProvider string     `gorm:"size:32;default:local" json:"authProvider"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string { return "users" }

func ValidRole(r string) bool { return r == RoleWorker || r == RoleEmployer }
