package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sucrestore/internal/repo"
	"github.com/Skotchmaster/sucrestore/internal/transport"
)

func newCatalogService(t *testing.T) (*CatalogService, *repo.GormRepo, *fakeIndex, *fakePublisher) {
	t.Helper()
	r := newTestRepo(t)
	idx := newFakeIndex()
	pub := &fakePublisher{}
	return &CatalogService{Repo: r, Index: idx, Events: pub}, r, idx, pub
}

func ptr[T any](v T) *T { return &v }

func TestCreateProduct_SlugAndCategory(t *testing.T) {
	svc, _, idx, pub := newCatalogService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:         "Beurre de Karité",
		Price:        decimal.NewFromInt(3500),
		OldPrice:     ptr(decimal.NewFromInt(4000)),
		Stock:        12,
		CategoryName: "Soins",
	})
	require.NoError(t, err)
	assert.Equal(t, "beurre-de-karite", p.Slug)
	assert.True(t, p.Active)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Soins", p.Category.Name)
	assert.True(t, p.OldPrice.Valid)

	dup, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:  "Beurre de karite",
		Price: decimal.NewFromInt(3000),
	})
	require.NoError(t, err)
	assert.Equal(t, "beurre-de-karite-2", dup.Slug)

	assert.Contains(t, idx.docs, p.ID)
	assert.Equal(t, []string{"product_created", "product_created"}, pub.types())

	resp := transport.NewProductResponse(*p)
	assert.True(t, resp.Available)
	assert.Equal(t, "soins", resp.CategorySlug)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _, _, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: " "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "x", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "x", Stock: -2})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "x", CategoryID: ptr(uint(42))})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	svc, _, idx, pub := newCatalogService(t)
	ctx := context.Background()
	p, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Name: "Bissap", Price: decimal.NewFromInt(500), Stock: 3})
	require.NoError(t, err)

	got, err := svc.UpdateProduct(ctx, p.ID, transport.PatchProductRequest{
		Price: ptr(decimal.NewFromInt(650)),
		Stock: ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "650", got.Price.String())
	assert.False(t, transport.NewProductResponse(*got).Available)

	_, err = svc.UpdateProduct(ctx, p.ID, transport.PatchProductRequest{Stock: ptr(-1)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProduct(ctx, 999, transport.PatchProductRequest{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	_, err = svc.GetProductBySlug(ctx, "bissap")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotContains(t, idx.docs, p.ID)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, 999), ErrNotFound)
	assert.Equal(t, []string{"product_created", "product_updated", "product_deleted"}, pub.types())
}

func TestListProducts(t *testing.T) {
	svc, r, idx, _ := newCatalogService(t)
	ctx := context.Background()
	a := seedProduct(t, r, "jus-de-mangue", 700, 5)
	b := seedProduct(t, r, "jus-de-gingembre", 600, 5)
	c := seedProduct(t, r, "savon", 300, 5)
	require.NoError(t, r.SetProductActive(ctx, c.ID, false))

	meta, items, err := svc.ListProducts(ctx, ProductQuery{Page: 1, Size: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, meta.Total)
	assert.True(t, meta.HasNext)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID, "newest first")

	meta, _, err = svc.ListProducts(ctx, ProductQuery{All: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, meta.Total)

	idx.searchIDs = []uint{a.ID}
	_, items, err = svc.ListProducts(ctx, ProductQuery{Search: "mangue"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)

	idx.searchErr = errIndexDown
	meta, items, err = svc.ListProducts(ctx, ProductQuery{Search: "JUS"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, meta.Total, "falls back to the database")
	assert.Len(t, items, 2)
}

func TestCategories(t *testing.T) {
	svc, _, _, _ := newCatalogService(t)
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, transport.CategoryRequest{Name: "Boissons"})
	require.NoError(t, err)
	assert.Equal(t, "boissons", c.Slug)

	_, err = svc.CreateCategory(ctx, transport.CategoryRequest{Name: "boissons"})
	assert.ErrorIs(t, err, ErrConflict)

	other, err := svc.CreateCategory(ctx, transport.CategoryRequest{Name: "Epices"})
	require.NoError(t, err)
	_, err = svc.UpdateCategory(ctx, other.ID, transport.PatchCategoryRequest{Name: ptr("BOISSONS")})
	assert.ErrorIs(t, err, ErrConflict)

	renamed, err := svc.UpdateCategory(ctx, c.ID, transport.PatchCategoryRequest{Name: ptr("Boissons fraîches")})
	require.NoError(t, err)
	assert.Equal(t, "boissons-fraiches", renamed.Slug)

	require.NoError(t, svc.DeleteCategory(ctx, other.ID))
	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, c.ID, cats[0].ID)

	assert.ErrorIs(t, svc.DeleteCategory(ctx, 999), ErrNotFound)
}
