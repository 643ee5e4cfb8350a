package repo

import (
	"errors"

	"gorm.io/gorm"

	"tez-jumush/internal/domain"
)

type JobRepo struct{ db *gorm.DB }

func NewJobRepo(db *gorm.DB) *JobRepo { return &JobRepo{db: db} }

func (r *JobRepo) Create(j *domain.Job) error { return r.db.Create(j).Error }

func (r *JobRepo) FindByID(id string) (*domain.Job, error) {
	var j domain.Job
	err := r.db.First(&j, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &j, err
}

func (r *JobRepo) FindByIDs(ids []string) (map[string]domain.Job, error) {
	out := make(map[string]domain.Job, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var jobs []domain.Job
	if err := r.db.Where("id IN ?", ids).Find(&jobs).Error; err != nil {
		return nil, err
	}
	for _, j := range jobs {
		out[j.ID] = j
	}
	return out, nil
}

func (r *JobRepo) Update(j *domain.Job) error { return r.db.Save(j).Error }

func (r *JobRepo) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Job{}).Error
}

func (r *JobRepo) ListByOwner(ownerID string) ([]domain.Job, error) {
	var jobs []domain.Job
	err := r.db.Where("user_id = ?", ownerID).Find(&jobs).Error
	return jobs, err
}

func (r *JobRepo) CountByOwner(ownerID string) (int64, error) {
	var n int64
	err := r.db.Model(&domain.Job{}).Where("user_id = ?", ownerID).Count(&n).Error
	return n, err
}

// List 带筛选分页的列表，附带总数
func (r *JobRepo) List(f domain.JobFilters) ([]domain.Job, int64, error) {
	q := r.db.Model(&domain.Job{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Location != "" {
		q = q.Where("location LIKE ?", "%"+f.Location+"%")
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ? OR employer LIKE ?", like, like, like)
	}
	if f.SalaryMin > 0 {
		q = q.Where("salary_amount >= ?", f.SalaryMin)
	}
	if f.SalaryMax > 0 {
		q = q.Where("salary_amount <= ?", f.SalaryMax)
	}
	if f.EmploymentType != "" {
		q = q.Where("employment_type = ?", f.EmploymentType)
	}
	if f.Urgency != "" {
		q = q.Where("urgency = ?", f.Urgency)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := f.SortBy
	if f.SortDesc {
		order += " DESC"
	} else {
		order += " ASC"
	}
	var jobs []domain.Job
	offset := (f.Page - 1) * f.Limit
	if err := q.Order(order).Limit(f.Limit).Offset(offset).Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}
