package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/sucrestore/internal/models"
)

type ProductFilter struct {
	CategoryID *uint
	Search     string
	OnlyActive bool
}

func (f ProductFilter) scope(db *gorm.DB) *gorm.DB {
	if f.OnlyActive {
		db = db.Where("active = ?", true)
	}
	if f.CategoryID != nil {
		db = db.Where("category_id = ?", *f.CategoryID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		db = db.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	return db
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Scopes(f.scope).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Scopes(f.scope).
		Preload("Category").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// GetProductsByIDs keeps the order of ids.
func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uint, onlyActive bool) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := r.DB.WithContext(ctx).Preload("Category").Where("id IN ?", ids)
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	var found []models.Product
	if err := q.Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) GetProductBySlug(ctx context.Context, slug string, onlyActive bool) (*models.Product, error) {
	q := r.DB.WithContext(ctx).Preload("Category").Where("slug = ?", slug)
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	var p models.Product
	if err := q.First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) GetProductByExternalID(ctx context.Context, externalID string) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("external_id = ?", externalID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ProductSlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *GormRepo) SetProductActive(ctx context.Context, id uint, active bool) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock takes qty units only if that many are left. It reports
// false, without error, when the product is short.
func (r *GormRepo) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepo) IncrementStock(ctx context.Context, id uint, qty int) error {
	return r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}

// DeactivateMissingExternal switches off every active imported product whose
// external id is not in seen and returns the products it switched off.
func (r *GormRepo) DeactivateMissingExternal(ctx context.Context, seen []string) ([]models.Product, error) {
	var gone []models.Product
	err := r.Transaction(ctx, func(tx *GormRepo) error {
		q := tx.DB.WithContext(ctx).Where("external_id IS NOT NULL AND active = ?", true)
		if len(seen) > 0 {
			q = q.Where("external_id NOT IN ?", seen)
		}
		if err := q.Find(&gone).Error; err != nil {
			return err
		}
		if len(gone) == 0 {
			return nil
		}
		ids := make([]uint, len(gone))
		for i := range gone {
			ids[i] = gone[i].ID
			gone[i].Active = false
		}
		return tx.DB.WithContext(ctx).Model(&models.Product{}).
			Where("id IN ?", ids).
			Update("active", false).Error
	})
	if err != nil {
		return nil, err
	}
	return gone, nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) ListCategories(ctx context.Context, onlyActive bool) ([]models.Category, error) {
	q := r.DB.WithContext(ctx).Model(&models.Category{})
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	var items []models.Category
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	err := r.DB.WithContext(ctx).
		Where("name_key = ?", models.CategoryKey(name)).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CategorySlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Category{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	c.NameKey = models.CategoryKey(c.Name)
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	c.NameKey = models.CategoryKey(c.Name)
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) SetCategoryActive(ctx context.Context, id uint, active bool) error {
	res := r.DB.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
