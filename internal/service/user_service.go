package service

import (
	"regexp"
	"strings"
	"time"

	"tez-jumush/internal/domain"
	"tez-jumush/pkg/utils"
)

type UserService struct {
	store domain.Store
}

func NewUserService(store domain.Store) *UserService { return &UserService{store: store} }

type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	Role         string
	Photo        string
	Age          int
	Skills       []string
	Experience   string
	HasOtherJobs bool
	AuthProvider string
}

func (s *UserService) Register(in RegisterInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		return nil, ValidationError("name and email are required")
	}
	if in.AuthProvider == "" {
		in.AuthProvider = "local"
	}
	// 联合登录没有密码，本地注册必须有
	if in.AuthProvider == "local" && in.Password == "" {
		return nil, ValidationError("password is required")
	}
	if !domain.ValidRole(in.Role) {
		return nil, ValidationError("userType must be worker or employer")
	}

	if existing, err := s.store.Users().FindByEmail(in.Email); err != nil {
		return nil, Internal("lookup user failed", err)
	} else if existing != nil {
		return nil, ValidationError("user with this email already exists")
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		Photo:        in.Photo,
		Age:          in.Age,
		Skills:       in.Skills,
		Experience:   in.Experience,
		HasOtherJobs: in.HasOtherJobs,
		AuthProvider: in.AuthProvider,
	}
	if in.Password != "" {
		u.PasswordHash = utils.HashPassword(in.Password)
	}
	if err := s.store.Users().Create(u); err != nil {
		if isDupKey(err) {
			return nil, ValidationError("user with this email already exists")
		}
		return nil, Internal("create user failed", err)
	}
	return u, nil
}

func (s *UserService) Login(email, password string) (*domain.User, error) {
	u, err := s.store.Users().FindByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, Internal("lookup user failed", err)
	}
	if u == nil || u.PasswordHash == "" || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, AuthenticationError("invalid email or password")
	}
	now := time.Now()
	u.LastLogin = &now
	_ = s.store.Users().Update(u) // 登录时间写失败不拦截登录
	return u, nil
}

// ProfileStats 按角色只填对应的一组字段
type ProfileStats struct {
	TotalJobsPosted           *int64 `json:"total_jobs_posted,omitempty"`
	TotalApplicationsReceived *int64 `json:"total_applications_received,omitempty"`
	TotalApplicationsSent     *int64 `json:"total_applications_sent,omitempty"`
	TotalApplicationsAccepted *int64 `json:"total_applications_accepted,omitempty"`
}

func (s *UserService) Profile(userID string) (*domain.User, *ProfileStats, error) {
	u, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, nil, Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, nil, NotFoundError("user not found")
	}
	stats := &ProfileStats{}
	switch u.Role {
	case domain.RoleEmployer:
		jobs, err := s.store.Jobs().CountByOwner(userID)
		if err != nil {
			return nil, nil, Internal("count jobs failed", err)
		}
		received, err := s.store.Applications().CountByOwner(userID)
		if err != nil {
			return nil, nil, Internal("count applications failed", err)
		}
		stats.TotalJobsPosted = &jobs
		stats.TotalApplicationsReceived = &received
	case domain.RoleWorker:
		sent, err := s.store.Applications().CountByApplicant(userID)
		if err != nil {
			return nil, nil, Internal("count applications failed", err)
		}
		accepted, err := s.store.Applications().CountByApplicantStatus(userID, domain.StatusAccepted)
		if err != nil {
			return nil, nil, Internal("count applications failed", err)
		}
		stats.TotalApplicationsSent = &sent
		stats.TotalApplicationsAccepted = &accepted
	}
	return u, stats, nil
}

var phoneRe = regexp.MustCompile(`^\+?\d{10,15}$`)
var phoneSepRe = regexp.MustCompile(`[\s\-()]`)

// ProfileUpdate 未提供的字段保持原值（coalesce 语义）
type ProfileUpdate struct {
	Name         *string
	Phone        *string
	Photo        *string
	Age          *int
	Skills       *[]string
	Experience   *string
	HasOtherJobs *bool
}

func (s *UserService) UpdateProfile(userID string, in ProfileUpdate) (*domain.User, error) {
	var errs []string
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			errs = append(errs, "name cannot be empty")
		} else if len(*in.Name) > 255 {
			errs = append(errs, "name cannot exceed 255 characters")
		}
	}
	if in.Phone != nil && *in.Phone != "" {
		if !phoneRe.MatchString(phoneSepRe.ReplaceAllString(*in.Phone, "")) {
			errs = append(errs, "invalid phone format")
		}
	}
	if in.Age != nil && (*in.Age < 14 || *in.Age > 120) {
		errs = append(errs, "age must be between 14 and 120")
	}
	if in.Skills != nil && len(*in.Skills) > 50 {
		errs = append(errs, "too many skills (max 50)")
	}
	if len(errs) > 0 {
		return nil, ValidationError(strings.Join(errs, ", "))
	}

	u, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, NotFoundError("user not found")
	}

	changed := false
	if in.Name != nil {
		u.Name = strings.TrimSpace(*in.Name)
		changed = true
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
		changed = true
	}
	if in.Photo != nil {
		u.Photo = *in.Photo
		changed = true
	}
	if in.Age != nil {
		u.Age = *in.Age
		changed = true
	}
	if in.Skills != nil {
		u.Skills = *in.Skills
		changed = true
	}
	if in.Experience != nil {
		u.Experience = *in.Experience
		changed = true
	}
	if in.HasOtherJobs != nil {
		u.HasOtherJobs = *in.HasOtherJobs
		changed = true
	}
	if !changed {
		return nil, ValidationError("nothing to update")
	}
	if err := s.store.Users().Update(u); err != nil {
		return nil, Internal("update user failed", err)
	}
	return u, nil
}

// 头像走 Base64 data URL，上限大致对应 5MB 原图
const maxPhotoLen = 7_000_000

func (s *UserService) SetPhoto(userID, photo string) error {
	if photo == "" {
		return ValidationError("photo is required")
	}
	if !strings.HasPrefix(photo, "data:image/") {
		return ValidationError("invalid image format, expected base64 data URL")
	}
	if len(photo) > maxPhotoLen {
		return ValidationError("image too large (max 5MB)")
	}
	u, err := s.store.Users().FindByID(userID)
	if err != nil {
		return Internal("lookup user failed", err)
	}
	if u == nil {
		return NotFoundError("user not found")
	}
	u.Photo = photo
	if err := s.store.Users().Update(u); err != nil {
		return Internal("update user failed", err)
	}
	return nil
}

func (s *UserService) ClearPhoto(userID string) error {
	u, err := s.store.Users().FindByID(userID)
	if err != nil {
		return Internal("lookup user failed", err)
	}
	if u == nil {
		return NotFoundError("user not found")
	}
	u.Photo = ""
	if err := s.store.Users().Update(u); err != nil {
		return Internal("update user failed", err)
	}
	return nil
}

// PublicProfile 对外公开的画像，不含联系方式
type PublicProfile struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Photo                  string    `json:"photo"`
	Age                    int       `json:"age"`
	Skills                 []string  `json:"skills"`
	Experience             string    `json:"experience"`
	UserType               string    `json:"userType"`
	MemberSince            time.Time `json:"memberSince"`
	TotalJobsPosted        *int64    `json:"totalJobsPosted,omitempty"`
	SuccessfulApplications *int64    `json:"successfulApplications,omitempty"`
}

func (s *UserService) GetPublicProfile(userID string) (*PublicProfile, error) {
	u, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, NotFoundError("user not found")
	}
	p := &PublicProfile{
		ID:          u.ID,
		Name:        u.Name,
		Photo:       u.Photo,
		Age:         u.Age,
		Skills:      u.Skills,
		Experience:  u.Experience,
		UserType:    u.Role,
		MemberSince: u.CreatedAt,
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	switch u.Role {
	case domain.RoleEmployer:
		n, err := s.store.Jobs().CountByOwner(userID)
		if err != nil {
			return nil, Internal("count jobs failed", err)
		}
		p.TotalJobsPosted = &n
	case domain.RoleWorker:
		n, err := s.store.Applications().CountByApplicantStatus(userID, domain.StatusAccepted)
		if err != nil {
			return nil, Internal("count applications failed", err)
		}
		p.SuccessfulApplications = &n
	}
	return p, nil
}

// DeleteAccount 删除用户并级联清理：自有职位及其投递、本人发出的投递。
// 全部写操作在一个事务里。返回被删职位 id，调用方据此失效职位缓存。
func (s *UserService) DeleteAccount(userID string) ([]string, error) {
	u, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, NotFoundError("user not found")
	}
	var deletedJobs []string
	err = s.store.InTx(func(tx domain.Store) error {
		jobs, err := tx.Jobs().ListByOwner(userID)
		if err != nil {
			return err
		}
		for _, j := range jobs {
			if err := tx.Applications().DeleteByJob(j.ID); err != nil {
				return err
			}
			if err := tx.Jobs().Delete(j.ID); err != nil {
				return err
			}
			deletedJobs = append(deletedJobs, j.ID)
		}
		if err := tx.Applications().DeleteByApplicant(userID); err != nil {
			return err
		}
		return tx.Users().Delete(userID)
	})
	if err != nil {
		return nil, Internal("delete account failed", err)
	}
	return deletedJobs, nil
}
