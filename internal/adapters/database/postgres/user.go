package postgres

import (
	"context"
	"strings"

	"github.com/Badsnus/campus-events/internal/domain/entity"
	"gorm.io/gorm"
)

type UserStorage struct {
	db *gorm.DB
}

func NewUserStorage(db *gorm.DB) *UserStorage {
	return &UserStorage{
		db: db,
	}
}

// Create is a function that creates a new user in the database.
func (s *UserStorage) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	err := s.db.WithContext(ctx).Create(user).Error
	return user, err
}

// Get is a function that gets a user from the database by id.
func (s *UserStorage) Get(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return &user, err
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

func (s *UserStorage) GetByTelegramID(ctx context.Context, telegramID int64) (*entity.User, error) {
	var user entity.User
	err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error
	return &user, err
}

func (s *UserStorage) GetMany(ctx context.Context, ids []string) ([]entity.User, error) {
	var users []entity.User
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (s *UserStorage) GetByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	var users []entity.User
	err := s.db.WithContext(ctx).Where("role = ?", role).Find(&users).Error
	return users, err
}

// updateColumns writes only the given columns of one user, so concurrent
// writers of other columns are never overwritten.
func (s *UserStorage) updateColumns(ctx context.Context, id string, columns map[string]any) error {
	res := s.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *UserStorage) UpdateProfile(ctx context.Context, id, name, bio string) error {
	return s.updateColumns(ctx, id, map[string]any{"name": name, "bio": bio})
}

func (s *UserStorage) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return s.updateColumns(ctx, id, map[string]any{"password_hash": passwordHash})
}

func (s *UserStorage) UpdateTelegramID(ctx context.Context, id string, telegramID int64) error {
	return s.updateColumns(ctx, id, map[string]any{"telegram_id": telegramID})
}

func (s *UserStorage) UpdateRole(ctx context.Context, id string, role entity.Role) error {
	return s.updateColumns(ctx, id, map[string]any{"role": role})
}

// List returns users matching search by name or email, newest first.
// A non-positive limit means no limit.
func (s *UserStorage) List(ctx context.Context, search string, offset, limit int) ([]entity.User, error) {
	var users []entity.User
	query := s.db.WithContext(ctx).Model(&entity.User{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("created_at DESC").Offset(offset).Find(&users).Error
	return users, err
}
