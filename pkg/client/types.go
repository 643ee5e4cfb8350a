package client

import "time"

// 与服务端 JSON 形态一致的传输类型。离线镜像返回同样的形态，
// 只在 message 上追加 "(демо-режим)" 后缀。

type User struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	UserType     string   `json:"userType"`
	Photo        string   `json:"photo"`
	Age          int      `json:"age"`
	Skills       []string `json:"skills"`
	Experience   string   `json:"experience"`
	HasOtherJobs bool     `json:"hasOtherJobs"`
}

type Job struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Salary            string    `json:"salary"`
	SalaryAmount      int       `json:"salary_amount"`
	Location          string    `json:"location"`
	Phone             string    `json:"phone"`
	Category          string    `json:"category"`
	Urgency           string    `json:"urgency"`
	EmploymentType    string    `json:"employment_type"`
	Requirements      []string  `json:"requirements"`
	Employer          string    `json:"employer"`
	UserID            string    `json:"user_id"`
	CreatedAt         time.Time `json:"created_at"`
	ApplicationsCount int64     `json:"applications_count"`
}

type Application struct {
	ID              string    `json:"id"`
	JobID           string    `json:"job_id"`
	UserID          string    `json:"user_id"`
	Status          string    `json:"status"`
	CoverLetter     string    `json:"cover_letter"`
	EmployerComment string    `json:"employer_comment"`
	AppliedAt       time.Time `json:"applied_at"`
}

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
}

type Session struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message,omitempty"`
}

type JobPage struct {
	Jobs       []Job      `json:"jobs"`
	Pagination Pagination `json:"pagination"`
}

type ApplyResult struct {
	Message     string      `json:"message"`
	Application Application `json:"application"`
}

type StatusResult struct {
	Message     string      `json:"message"`
	Application Application `json:"application"`
}

type WithdrawResult struct {
	Message string `json:"message"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	UserType string `json:"userType"`
}

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
}

type ListOptions struct {
	Page     int
	Limit    int
	Category string
	Location string
	Search   string
}
