package repo

import (
	"gorm.io/gorm"

	"tez-jumush/internal/domain"
)

// Store 把三个 gorm 仓库聚合成 domain.Store。
// InTx 回调里拿到的 Store 绑定同一事务。
type Store struct {
	db    *gorm.DB
	users *UserRepo
	jobs  *JobRepo
	apps  *ApplicationRepo
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:    db,
		users: NewUserRepo(db),
		jobs:  NewJobRepo(db),
		apps:  NewApplicationRepo(db),
	}
}

func (s *Store) Users() domain.UserRepository               { return s.users }
func (s *Store) Jobs() domain.JobRepository                 { return s.jobs }
func (s *Store) Applications() domain.ApplicationRepository { return s.apps }

func (s *Store) InTx(fn func(domain.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

var _ domain.Store = (*Store)(nil)
