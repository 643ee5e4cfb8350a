package repo

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tez-jumush/internal/domain"
)

type ApplicationRepo struct{ db *gorm.DB }

func NewApplicationRepo(db *gorm.DB) *ApplicationRepo { return &ApplicationRepo{db: db} }

func (r *ApplicationRepo) Create(a *domain.Application) error { return r.db.Create(a).Error }

func (r *ApplicationRepo) FindByID(id string) (*domain.Application, error) {
	var a domain.Application
	err := r.db.First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *ApplicationRepo) FindByJobAndApplicant(jobID, userID string) (*domain.Application, error) {
	var a domain.Application
	err := r.db.First(&a, "job_id = ? AND user_id = ?", jobID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &a, err
}

func (r *ApplicationRepo) ListByApplicant(userID string, f domain.AppFilters) ([]domain.Application, int64, error) {
	q := r.db.Model(&domain.Application{}).Where("user_id = ?", userID)
	return r.page(q, f)
}

func (r *ApplicationRepo) ListByJob(jobID string, f domain.AppFilters) ([]domain.Application, int64, error) {
	q := r.db.Model(&domain.Application{}).Where("job_id = ?", jobID)
	return r.page(q, f)
}

func (r *ApplicationRepo) page(q *gorm.DB, f domain.AppFilters) ([]domain.Application, int64, error) {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var apps []domain.Application
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("applied_at DESC").Limit(f.Limit).Offset(offset).Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *ApplicationRepo) UpdateStatus(id, status, comment string) error {
	return r.db.Model(&domain.Application{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "employer_comment": comment}).Error
}

// RejectSiblings 录用后把同一职位上其余 pending/reviewed 的投递批量置为 rejected。
// 已经是终态的投递不动。
func (r *ApplicationRepo) RejectSiblings(jobID, acceptedID string) error {
	return r.db.Model(&domain.Application{}).
		Where("job_id = ? AND id <> ? AND status IN ?", jobID, acceptedID,
			[]string{domain.StatusPending, domain.StatusReviewed}).
		Updates(map[string]any{
			"status":           domain.StatusRejected,
			"employer_comment": domain.RejectedByAcceptComment,
		}).Error
}

func (r *ApplicationRepo) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Application{}).Error
}

func (r *ApplicationRepo) DeleteByJob(jobID string) error {
	return r.db.Where("job_id = ?", jobID).Delete(&domain.Application{}).Error
}

func (r *ApplicationRepo) DeleteByApplicant(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&domain.Application{}).Error
}

func (r *ApplicationRepo) CountByJob(jobID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Application{}).Where("job_id = ?", jobID).Count(&n).Error
	return n, err
}

func (r *ApplicationRepo) CountByApplicant(userID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Application{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *ApplicationRepo) CountByApplicantStatus(userID, status string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Application{}).
		Where("user_id = ? AND status = ?", userID, status).Count(&n).Error
	return n, err
}

func (r *ApplicationRepo) CountByApplicantSince(userID string, since time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Application{}).
		Where("user_id = ? AND applied_at >= ?", userID, since).Count(&n).Error
	return n, err
}

func (r *ApplicationRepo) StatusCountsByApplicant(userID string) ([]domain.StatusCount, error) {
	var rows []domain.StatusCount
	err := r.db.Model(&domain.Application{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").Scan(&rows).Error
	return rows, err
}

// --- 雇主侧聚合，都要 join jobs 按 owner 过滤 ---

func (r *ApplicationRepo) CountByOwner(ownerID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.user_id = ?", ownerID).Count(&n).Error
	return n, err
}

func (r *ApplicationRepo) CountByOwnerSince(ownerID string, since time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.user_id = ? AND applications.applied_at >= ?", ownerID, since).
		Count(&n).Error
	return n, err
}

func (r *ApplicationRepo) StatusCountsByOwner(ownerID string) ([]domain.StatusCount, error) {
	var rows []domain.StatusCount
	err := r.db.Model(&domain.Application{}).
		Select("applications.status, COUNT(*) as count").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.user_id = ?", ownerID).
		Group("applications.status").Scan(&rows).Error
	return rows, err
}

func (r *ApplicationRepo) TopJobsByApplications(ownerID string, limit int) ([]domain.JobAppCount, error) {
	var rows []domain.JobAppCount
	err := r.db.Model(&domain.Job{}).
		Select("jobs.id, jobs.title, COUNT(applications.id) as applications_count").
		Joins("LEFT JOIN applications ON applications.job_id = jobs.id").
		Where("jobs.user_id = ?", ownerID).
		Group("jobs.id, jobs.title").
		Order("applications_count DESC").
		Limit(limit).Scan(&rows).Error
	return rows, err
}
