package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/sucrestore/internal/models"
)

func (r *GormRepo) ListSliders(ctx context.Context, onlyActive bool) ([]models.SliderImage, error) {
	q := r.DB.WithContext(ctx).Model(&models.SliderImage{})
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	var items []models.SliderImage
	if err := q.Order("display_order ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetSlider(ctx context.Context, id uint) (*models.SliderImage, error) {
	var s models.SliderImage
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) CreateSlider(ctx context.Context, s *models.SliderImage) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) SaveSlider(ctx context.Context, s *models.SliderImage) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

func (r *GormRepo) DeleteSlider(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.SliderImage{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListSettings(ctx context.Context) ([]models.AppSetting, error) {
	var items []models.AppSetting
	if err := r.DB.WithContext(ctx).Order("key ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetSetting(ctx context.Context, key string) (*models.AppSetting, error) {
	var s models.AppSetting
	if err := r.DB.WithContext(ctx).Where("key = ?", key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) UpsertSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	rows := make([]models.AppSetting, 0, len(values))
	for k, v := range values {
		rows = append(rows, models.AppSetting{Key: k, Value: v})
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
}
