package repository

import (
	"context"
	"fmt"

	"marketplace-server/internal/models"

	"gorm.io/gorm"
)

// IdentityRepository reads and writes User and Pro records
type IdentityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository creates a new IdentityRepository
func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *IdentityRepository) CreatePro(ctx context.Context, pro *models.Pro) error {
	return r.db.WithContext(ctx).Create(pro).Error
}

func (r *IdentityRepository) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *IdentityRepository) FindProByID(ctx context.Context, id uint) (*models.Pro, error) {
	var pro models.Pro
	if err := r.db.WithContext(ctx).First(&pro, id).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

func (r *IdentityRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *IdentityRepository) FindProByEmail(ctx context.Context, email string) (*models.Pro, error) {
	var pro models.Pro
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&pro).Error; err != nil {
		return nil, err
	}
	return &pro, nil
}

// Lookup loads the record behind p
func (r *IdentityRepository) Lookup(ctx context.Context, p models.Participant) (models.Identity, error) {
	switch p.Kind {
	case models.KindUser:
		user, err := r.FindUserByID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		return user, nil
	case models.KindPro:
		pro, err := r.FindProByID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		return pro, nil
	}
	return nil, fmt.Errorf("unknown participant kind %d", uint8(p.Kind))
}

// Exists reports whether a record for p exists
func (r *IdentityRepository) Exists(ctx context.Context, p models.Participant) (bool, error) {
	var model interface{}
	switch p.Kind {
	case models.KindUser:
		model = &models.User{}
	case models.KindPro:
		model = &models.Pro{}
	default:
		return false, fmt.Errorf("unknown participant kind %d", uint8(p.Kind))
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", p.ID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
