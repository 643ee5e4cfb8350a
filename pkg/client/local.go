package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"tez-jumush/pkg/utils"
)

// demoSuffix 本地镜像回放的结果统一带这个后缀，UI 据此提示用户
const demoSuffix = " (демо-режим)"

const mirrorSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS users (
	id        TEXT PRIMARY KEY,
	name      TEXT NOT NULL,
	email     TEXT NOT NULL UNIQUE,
	password  TEXT NOT NULL,
	phone     TEXT NOT NULL DEFAULT '',
	user_type TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS jobs (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL,
	salary          TEXT NOT NULL DEFAULT '',
	salary_amount   INTEGER NOT NULL DEFAULT 0,
	location        TEXT NOT NULL DEFAULT '',
	phone           TEXT NOT NULL DEFAULT '',
	category        TEXT NOT NULL DEFAULT '',
	urgency         TEXT NOT NULL DEFAULT 'medium',
	employment_type TEXT NOT NULL DEFAULT 'part-time',
	requirements    TEXT NOT NULL DEFAULT '[]',
	employer        TEXT NOT NULL DEFAULT '',
	user_id         TEXT NOT NULL,
	created_at      TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS applications (
	id               TEXT PRIMARY KEY,
	job_id           TEXT NOT NULL,
	user_id          TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'pending',
	cover_letter     TEXT NOT NULL DEFAULT '',
	employer_comment TEXT NOT NULL DEFAULT '',
	applied_at       TIMESTAMP NOT NULL,
	UNIQUE (job_id, user_id)
);
`

// Local 本地 sqlite 镜像适配器。提供与 Remote 相同的操作集，
// 关键业务不变量（重复投递、自投）离线时同样强制执行。
type Local struct {
	db     *sql.DB
	userID string
}

func OpenLocal(path string) (*Local, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(mirrorSchema); err != nil {
		db.Close()
		return nil, err
	}
	l := &Local{db: db}
	if err := l.seed(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Local) DB() *sql.DB  { return l.db }
func (l *Local) Close() error { return l.db.Close() }

func (l *Local) SetUser(id string) { l.userID = id }

func (l *Local) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, &APIError{Status: 400, Kind: "validation", Message: "name, email and password are required"}
	}
	if in.UserType != "worker" && in.UserType != "employer" {
		return nil, &APIError{Status: 400, Kind: "validation", Message: "userType must be worker or employer"}
	}
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, in.Email).Scan(&n); err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, &APIError{Status: 400, Kind: "validation", Message: "user with this email already exists"}
	}
	id := utils.NewID()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO users(id, name, email, password, phone, user_type) VALUES(?, ?, ?, ?, ?, ?)`,
		id, in.Name, in.Email, in.Password, in.Phone, in.UserType)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:   "demo-" + id,
		User:    User{ID: id, Name: in.Name, Email: in.Email, Phone: in.Phone, UserType: in.UserType},
		Message: "Регистрация выполнена" + demoSuffix,
	}, nil
}

func (l *Local) Login(ctx context.Context, email, password string) (*Session, error) {
	var u User
	var pass string
	err := l.db.QueryRowContext(ctx,
		`SELECT id, name, email, password, phone, user_type FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Name, &u.Email, &pass, &u.Phone, &u.UserType)
	if err == sql.ErrNoRows || (err == nil && pass != password) {
		return nil, &APIError{Status: 401, Kind: "authentication", Message: "invalid email or password"}
	}
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:   "demo-" + u.ID,
		User:    u,
		Message: "Вход выполнен" + demoSuffix,
	}, nil
}

func (l *Local) ListJobs(ctx context.Context, opt ListOptions) (*JobPage, error) {
	where := " WHERE 1=1"
	args := []any{}
	if opt.Category != "" {
		where += " AND category = ?"
		args = append(args, opt.Category)
	}
	if opt.Location != "" {
		where += " AND location LIKE ?"
		args = append(args, "%"+opt.Location+"%")
	}
	if opt.Search != "" {
		where += " AND (title LIKE ? OR description LIKE ? OR employer LIKE ?)"
		like := "%" + opt.Search + "%"
		args = append(args, like, like, like)
	}

	var total int64
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	page, limit := opt.Page, opt.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := `SELECT id, title, description, salary, salary_amount, location, phone, category,
		urgency, employment_type, requirements, employer, user_id, created_at
		FROM jobs` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := l.db.QueryContext(ctx, q, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return &JobPage{
		Jobs: jobs,
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   pages,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanJob(r rowScanner) (*Job, error) {
	var j Job
	var reqs string
	err := r.Scan(&j.ID, &j.Title, &j.Description, &j.Salary, &j.SalaryAmount, &j.Location,
		&j.Phone, &j.Category, &j.Urgency, &j.EmploymentType, &reqs, &j.Employer, &j.UserID, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(reqs), &j.Requirements); err != nil {
		j.Requirements = []string{}
	}
	return &j, nil
}

func (l *Local) GetJob(ctx context.Context, id string) (*Job, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT id, title, description, salary, salary_amount, location, phone, category,
		urgency, employment_type, requirements, employer, user_id, created_at
		FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &APIError{Status: 404, Kind: "not_found", Message: "job not found"}
	}
	if err != nil {
		return nil, err
	}
	if err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE job_id = ?`, id).Scan(&j.ApplicationsCount); err != nil {
		return nil, err
	}
	return j, nil
}

func (l *Local) CreateJob(ctx context.Context, in JobInput) (*Job, error) {
	if l.userID == "" {
		return nil, &APIError{Status: 401, Kind: "authentication", Message: "not logged in"}
	}
	var userType, name string
	err := l.db.QueryRowContext(ctx, `SELECT user_type, name FROM users WHERE id = ?`, l.userID).Scan(&userType, &name)
	if err == sql.ErrNoRows {
		return nil, &APIError{Status: 401, Kind: "authentication", Message: "user not found"}
	}
	if err != nil {
		return nil, err
	}
	if userType != "employer" {
		return nil, &APIError{Status: 403, Kind: "authorization", Message: "only employers can post jobs"}
	}
	if in.Title == "" || in.Description == "" {
		return nil, &APIError{Status: 400, Kind: "validation", Message: "title and description are required"}
	}

	j := Job{
		ID:             utils.NewID(),
		Title:          in.Title,
		Description:    in.Description,
		Salary:         in.Salary,
		SalaryAmount:   utils.SalaryAmount(in.Salary),
		Location:       in.Location,
		Phone:          in.Phone,
		Category:       in.Category,
		Urgency:        in.Urgency,
		EmploymentType: in.EmploymentType,
		Requirements:   in.Requirements,
		Employer:       name,
		UserID:         l.userID,
		CreatedAt:      time.Now(),
	}
	if j.Urgency == "" {
		j.Urgency = "medium"
	}
	if j.EmploymentType == "" {
		j.EmploymentType = "part-time"
	}
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	reqs, _ := json.Marshal(j.Requirements)
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO jobs(id, title, description, salary, salary_amount, location, phone,
		category, urgency, employment_type, requirements, employer, user_id, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.Title, j.Description, j.Salary, j.SalaryAmount, j.Location, j.Phone,
		j.Category, j.Urgency, j.EmploymentType, string(reqs), j.Employer, j.UserID, j.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Apply 离线投递。重复投递与自投检查与线上完全一致。
func (l *Local) Apply(ctx context.Context, jobID, coverLetter string) (*ApplyResult, error) {
	if l.userID == "" {
		return nil, &APIError{Status: 401, Kind: "authentication", Message: "not logged in"}
	}
	var ownerID string
	err := l.db.QueryRowContext(ctx, `SELECT user_id FROM jobs WHERE id = ?`, jobID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return nil, &APIError{Status: 404, Kind: "not_found", Message: "job not found"}
	}
	if err != nil {
		return nil, err
	}
	if ownerID == l.userID {
		return nil, &APIError{Status: 400, Kind: "validation", Message: "you cannot apply to your own job"}
	}
	var n int
	if err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE job_id = ? AND user_id = ?`, jobID, l.userID).Scan(&n); err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, &APIError{Status: 400, Kind: "conflict", Message: "you have already applied for this job"}
	}

	a := Application{
		ID:          utils.NewID(),
		JobID:       jobID,
		UserID:      l.userID,
		Status:      "pending",
		CoverLetter: coverLetter,
		AppliedAt:   time.Now(),
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO applications(id, job_id, user_id, status, cover_letter, applied_at)
		VALUES(?, ?, ?, ?, ?, ?)`,
		a.ID, a.JobID, a.UserID, a.Status, a.CoverLetter, a.AppliedAt)
	if err != nil {
		return nil, err
	}
	return &ApplyResult{Message: "Заявка отправлена" + demoSuffix, Application: a}, nil
}

func (l *Local) MyApplications(ctx context.Context) ([]Application, error) {
	if l.userID == "" {
		return nil, &APIError{Status: 401, Kind: "authentication", Message: "not logged in"}
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, job_id, user_id, status, cover_letter, employer_comment, applied_at
		FROM applications WHERE user_id = ? ORDER BY applied_at DESC`, l.userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Application{}
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.ID, &a.JobID, &a.UserID, &a.Status, &a.CoverLetter, &a.EmployerComment, &a.AppliedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetStatus 离线状态变更，含录用级联拒绝
func (l *Local) SetStatus(ctx context.Context, appID, status, comment string) (*StatusResult, error) {
	if l.userID == "" {
		return nil, &APIError{Status: 401, Kind: "authentication", Message: "not logged in"}
	}
	switch status {
	case "pending", "reviewed", "accepted", "rejected":
	default:
		return nil, &APIError{Status: 400, Kind: "validation", Message: "invalid status"}
	}

	var a Application
	err := l.db.QueryRowContext(ctx,
		`SELECT id, job_id, user_id, status, cover_letter, employer_comment, applied_at
		FROM applications WHERE id = ?`, appID).
		Scan(&a.ID, &a.JobID, &a.UserID, &a.Status, &a.CoverLetter, &a.EmployerComment, &a.AppliedAt)
	if err == sql.ErrNoRows {
		return nil, &APIError{Status: 404, Kind: "not_found", Message: "application not found"}
	}
	if err != nil {
		return nil, err
	}
	var ownerID string
	if err := l.db.QueryRowContext(ctx, `SELECT user_id FROM jobs WHERE id = ?`, a.JobID).Scan(&ownerID); err != nil {
		return nil, err
	}
	if ownerID != l.userID {
		return nil, &APIError{Status: 403, Kind: "authorization", Message: "you can only manage applications for your own jobs"}
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE applications SET status = ?, employer_comment = ? WHERE id = ?`,
		status, comment, appID); err != nil {
		return nil, err
	}
	if status == "accepted" {
		if _, err := tx.ExecContext(ctx,
			`UPDATE applications SET status = 'rejected', employer_comment = ?
			WHERE job_id = ? AND id <> ? AND status IN ('pending', 'reviewed')`,
			rejectedByAcceptComment, a.JobID, appID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	a.Status = status
	a.EmployerComment = comment
	return &StatusResult{Message: "Статус обновлён" + demoSuffix, Application: a}, nil
}

const rejectedByAcceptComment = "position filled — another candidate was selected"

func (l *Local) Withdraw(ctx context.Context, appID string) (*WithdrawResult, error) {
	if l.userID == "" {
		return nil, &APIError{Status: 401, Kind: "authentication", Message: "not logged in"}
	}
	var applicantID, status string
	err := l.db.QueryRowContext(ctx,
		`SELECT user_id, status FROM applications WHERE id = ?`, appID).Scan(&applicantID, &status)
	if err == sql.ErrNoRows {
		return nil, &APIError{Status: 404, Kind: "not_found", Message: "application not found"}
	}
	if err != nil {
		return nil, err
	}
	if applicantID != l.userID {
		return nil, &APIError{Status: 403, Kind: "authorization", Message: "you can only withdraw your own applications"}
	}
	if status == "accepted" {
		return nil, &APIError{Status: 400, Kind: "conflict", Message: "cannot withdraw an accepted application"}
	}
	if _, err := l.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, appID); err != nil {
		return nil, err
	}
	return &WithdrawResult{Message: "Заявка отозвана" + demoSuffix}, nil
}

// MirrorJobs 在线拉取成功后把职位列表写进镜像，供下次离线使用
func (l *Local) MirrorJobs(ctx context.Context, jobs []Job) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, j := range jobs {
		reqs, _ := json.Marshal(j.Requirements)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO jobs(id, title, description, salary, salary_amount, location, phone,
			category, urgency, employment_type, requirements, employer, user_id, created_at)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title, description = excluded.description,
				salary = excluded.salary, salary_amount = excluded.salary_amount,
				location = excluded.location, phone = excluded.phone,
				category = excluded.category, urgency = excluded.urgency,
				employment_type = excluded.employment_type, requirements = excluded.requirements,
				employer = excluded.employer`,
			j.ID, j.Title, j.Description, j.Salary, j.SalaryAmount, j.Location, j.Phone,
			j.Category, j.Urgency, j.EmploymentType, string(reqs), j.Employer, j.UserID, j.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (l *Local) seed() error {
	var n int
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM jobs`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, u := range seedUsers {
		if _, err := l.db.Exec(
			`INSERT INTO users(id, name, email, password, phone, user_type) VALUES(?, ?, ?, ?, ?, ?)`,
			u.id, u.name, u.email, u.password, u.phone, u.userType); err != nil {
			return err
		}
	}
	for i, j := range seedJobs {
		reqs, _ := json.Marshal(j.Requirements)
		created := time.Now().Add(-time.Duration(i+1) * time.Hour)
		if _, err := l.db.Exec(
			`INSERT INTO jobs(id, title, description, salary, salary_amount, location, phone,
			category, urgency, employment_type, requirements, employer, user_id, created_at)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			j.ID, j.Title, j.Description, j.Salary, j.SalaryAmount, j.Location, j.Phone,
			j.Category, j.Urgency, j.EmploymentType, string(reqs), j.Employer, j.UserID, created); err != nil {
			return err
		}
	}
	return nil
}
