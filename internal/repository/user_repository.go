package repository

import (
	"context"
	"errors"

	"github.com/atolyem/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	FindByUID(ctx context.Context, uid string) (*model.User, error)
	IsAdmin(ctx context.Context, uid string) (bool, error)
	SetDB(db *gorm.DB)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, user *model.User) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "uid = ?", uid).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// IsAdmin treats an unknown uid as a regular user.
func (r *userRepository) IsAdmin(ctx context.Context, uid string) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "uid = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

func (r *userRepository) SetDB(db *gorm.DB) {
	r.db = db
}
