package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/sucrestore/internal/models"
)

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	items := make([]models.User, 0, limit)
	if err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

// UserTaken reports whether another user already owns username or email.
func (r *GormRepo) UserTaken(ctx context.Context, username, email string, exceptID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("(username = ? OR email = ?) AND id <> ?", username, email, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

// BumpTokenVersion increments the user's session counter and returns the new
// value. loginAt, when set, is stored as the last login time.
func (r *GormRepo) BumpTokenVersion(ctx context.Context, id uint, loginAt *time.Time) (int64, error) {
	var version int64
	err := r.Transaction(ctx, func(tx *GormRepo) error {
		updates := map[string]any{"token_version": gorm.Expr("token_version + 1")}
		if loginAt != nil {
			updates["last_login"] = *loginAt
		}
		res := tx.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.DB.WithContext(ctx).Model(&models.User{}).
			Select("token_version").
			Where("id = ?", id).
			Scan(&version).Error
	})
	return version, err
}
