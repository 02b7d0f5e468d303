package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/sucrestore/internal/es"
	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/models"
	"github.com/Skotchmaster/sucrestore/internal/mykafka"
	"github.com/Skotchmaster/sucrestore/internal/repo"
	"github.com/Skotchmaster/sucrestore/internal/transport"
	"github.com/Skotchmaster/sucrestore/internal/util"
)

// SearchIndex is the subset of es.ProductIndex the catalog needs.
type SearchIndex interface {
	IndexProduct(ctx context.Context, doc es.ProductDoc) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  SearchIndex
	Events mykafka.Publisher
}

type ProductQuery struct {
	CategoryID *uint
	Search     string
	Page       int
	Size       int
	All        bool
}

// ListProducts returns active products newest first. A text search goes to
// the search index when one is configured and falls back to the database.
func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) (util.Meta, []models.Product, error) {
	offset, limit := util.Calculate(q.Page, q.Size)
	search := strings.TrimSpace(q.Search)

	if s.Index != nil && search != "" && q.CategoryID == nil && !q.All {
		total, items, err := s.searchIndex(ctx, search, offset, limit)
		if err == nil {
			return util.NewMeta(q.Page, offset, limit, total), items, nil
		}
		logging.FromContext(ctx).Warn("product_search_fallback", "svc", "catalog.list", "error", err)
	}

	total, items, err := s.Repo.ListProducts(ctx, repo.ProductFilter{
		CategoryID: q.CategoryID,
		Search:     search,
		OnlyActive: !q.All,
	}, offset, limit)
	if err != nil {
		return util.Meta{}, nil, err
	}
	return util.NewMeta(q.Page, offset, limit, total), items, nil
}

func (s *CatalogService) searchIndex(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	total, ids, err := s.Index.Search(ctx, query, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	items, err := s.Repo.GetProductsByIDs(ctx, ids, true)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.Repo.GetProductBySlug(ctx, slug, true)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return p, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.ListCategories(ctx, true)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}

	p := &models.Product{
		Name:             name,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		VolumeWeight:     req.VolumeWeight,
		Price:            req.Price,
		OldPrice:         nullDecimal(req.OldPrice),
		Stock:            req.Stock,
		MainImage:        req.MainImage,
		Active:           req.Active == nil || *req.Active,
	}

	cat, err := categoryFor(ctx, s.Repo, req.CategoryID, req.CategoryName)
	if err != nil {
		return nil, err
	}
	if cat != nil {
		p.CategoryID, p.Category = &cat.ID, cat
	}

	base := req.Slug
	if strings.TrimSpace(base) == "" {
		base = name
	}
	if p.Slug, err = uniqueProductSlug(ctx, s.Repo, base, 0); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		l.Error("create_product_failed", "status", 500, "error", err)
		return nil, err
	}
	s.afterProductWrite(ctx, "product_created", p)
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name required", ErrValidation)
		}
		p.Name = name
	}
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		if p.Slug, err = uniqueProductSlug(ctx, s.Repo, *req.Slug, p.ID); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
		}
		p.Price = *req.Price
	}
	if req.OldPrice != nil {
		p.OldPrice = nullDecimal(req.OldPrice)
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
		}
		p.Stock = *req.Stock
	}
	if req.ShortDescription != nil {
		p.ShortDescription = *req.ShortDescription
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.VolumeWeight != nil {
		p.VolumeWeight = *req.VolumeWeight
	}
	if req.MainImage != nil {
		p.MainImage = *req.MainImage
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if req.CategoryID != nil || req.CategoryName != nil {
		var name string
		if req.CategoryName != nil {
			name = *req.CategoryName
		}
		cat, err := categoryFor(ctx, s.Repo, req.CategoryID, name)
		if err != nil {
			return nil, err
		}
		if cat != nil {
			p.CategoryID, p.Category = &cat.ID, cat
		}
	}

	if err := s.Repo.SaveProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Error("update_product_failed", "svc", "catalog.update_product", "product_id", id, "error", err)
		return nil, err
	}
	s.afterProductWrite(ctx, "product_updated", p)
	return p, nil
}

// DeleteProduct hides the product; order lines keep pointing at it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.SetProductActive(ctx, id, false); err != nil {
		return notFound(err, "product")
	}
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	s.afterProductWrite(ctx, "product_deleted", p)
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if _, err := s.Repo.GetCategoryByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	} else if !errors.Is(notFound(err, "category"), ErrNotFound) {
		return nil, err
	}

	slug, err := uniqueCategorySlug(ctx, s.Repo, name, 0)
	if err != nil {
		return nil, err
	}
	c := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Active:      true,
	}
	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req transport.PatchCategoryRequest) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		return nil, notFound(err, "category")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name required", ErrValidation)
		}
		if !strings.EqualFold(name, c.Name) {
			if other, err := s.Repo.GetCategoryByName(ctx, name); err == nil && other.ID != c.ID {
				return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
			}
			if c.Slug, err = uniqueCategorySlug(ctx, s.Repo, name, c.ID); err != nil {
				return nil, err
			}
		}
		c.Name = name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.ImageURL != nil {
		c.ImageURL = *req.ImageURL
	}
	if req.Active != nil {
		c.Active = *req.Active
	}

	if err := s.Repo.SaveCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	return notFound(s.Repo.SetCategoryActive(ctx, id, false), "category")
}

// categoryFor picks the category by id, else by name (created on demand),
// else returns nil.
func categoryFor(ctx context.Context, r *repo.GormRepo, id *uint, name string) (*models.Category, error) {
	if id != nil && *id > 0 {
		c, err := r.GetCategory(ctx, *id)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown category %d", ErrValidation, *id)
		}
		return c, nil
	}
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	return ResolveCategory(ctx, r, name)
}

// ResolveCategory finds a category by case-insensitive name or creates it.
func ResolveCategory(ctx context.Context, r *repo.GormRepo, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	c, err := r.GetCategoryByName(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(notFound(err, "category"), ErrNotFound) {
		return nil, err
	}

	slug, err := uniqueCategorySlug(ctx, r, name, 0)
	if err != nil {
		return nil, err
	}
	c = &models.Category{Name: name, Slug: slug, Active: true}
	if err := r.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func uniqueProductSlug(ctx context.Context, r *repo.GormRepo, base string, exceptID uint) (string, error) {
	return uniqueSlug(base, "product", func(slug string) (bool, error) {
		return r.ProductSlugTaken(ctx, slug, exceptID)
	})
}

func uniqueCategorySlug(ctx context.Context, r *repo.GormRepo, base string, exceptID uint) (string, error) {
	return uniqueSlug(base, "category", func(slug string) (bool, error) {
		return r.CategorySlugTaken(ctx, slug, exceptID)
	})
}

// uniqueSlug appends -2, -3, ... until taken reports false.
func uniqueSlug(base, fallback string, taken func(string) (bool, error)) (string, error) {
	root := util.Slugify(base)
	if root == "" {
		root = fallback
	}
	slug := root
	for i := 2; ; i++ {
		used, err := taken(slug)
		if err != nil {
			return "", err
		}
		if !used {
			return slug, nil
		}
		slug = root + "-" + strconv.Itoa(i)
	}
}

func (s *CatalogService) afterProductWrite(ctx context.Context, event string, p *models.Product) {
	publish(ctx, s.Events, mykafka.TopicCatalog, strconv.FormatUint(uint64(p.ID), 10), productEvent(event, p))
	syncIndex(ctx, s.Index, p)
}

func syncIndex(ctx context.Context, idx SearchIndex, p *models.Product) {
	if idx == nil {
		return
	}
	var err error
	if p.Active {
		err = idx.IndexProduct(ctx, es.DocFromProduct(p))
	} else {
		err = idx.DeleteProduct(ctx, p.ID)
	}
	if err != nil {
		logging.FromContext(ctx).Warn("search_index_sync_failed", "product_id", p.ID, "error", err)
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
