package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sucrestore/internal/importer"
	"github.com/Skotchmaster/sucrestore/internal/repo"
)

func newImportService(t *testing.T) (*ImportService, *repo.GormRepo, *fakeIndex) {
	t.Helper()
	r := newTestRepo(t)
	idx := newFakeIndex()
	return &ImportService{Repo: r, Index: idx, Events: &fakePublisher{}}, r, idx
}

func rows(lines ...[]string) []importer.Row {
	out := make([]importer.Row, 0, len(lines))
	for i, cells := range lines {
		out = append(out, importer.Row{Number: i + 2, Cells: cells})
	}
	return out
}

func TestImportBatch_CreatesThenIsIdempotent(t *testing.T) {
	svc, r, idx := newImportService(t)
	ctx := context.Background()
	batch := rows(
		[]string{"P1", "https://img/1.jpg", "Crème Karité", "Hydratante", "250ml", "Soins", "En stock", "2 500 FCFA"},
		[]string{"P2", "", "Savon Noir", "Traditionnel", "", "", "3", "1.500"},
	)

	sum := svc.ImportBatch(ctx, batch)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 2, sum.Success)
	assert.Equal(t, 2, sum.Created)
	assert.Zero(t, sum.Updated)
	assert.Empty(t, sum.Errors)

	p, err := r.GetProductByExternalID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "creme-karite", p.Slug)
	assert.Equal(t, "2500", p.Price.String())
	assert.Equal(t, importer.InStockDefault, p.Stock)
	assert.Equal(t, "250ml", p.ShortDescription)
	assert.True(t, p.Active)
	assert.Contains(t, idx.docs, p.ID)

	p2, err := r.GetProductByExternalID(ctx, "P2")
	require.NoError(t, err)
	assert.Equal(t, "1500", p2.Price.String())
	assert.Equal(t, 3, p2.Stock)
	cat, err := r.GetCategory(ctx, *p2.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, importer.DefaultCategory, cat.Name)

	again := svc.ImportBatch(ctx, batch)
	assert.Zero(t, again.Created)
	assert.Equal(t, 2, again.Updated)
	assert.Zero(t, again.Deactivated)

	n, err := r.CountProducts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestImportBatch_DeactivatesMissing(t *testing.T) {
	svc, r, idx := newImportService(t)
	ctx := context.Background()

	svc.ImportBatch(ctx, rows(
		[]string{"A1", "", "Produit A", "", "", "Divers", "oui", "100"},
		[]string{"B1", "", "Produit B", "", "", "Divers", "oui", "200"},
	))
	b, err := r.GetProductByExternalID(ctx, "B1")
	require.NoError(t, err)
	require.Contains(t, idx.docs, b.ID)

	pub := svc.Events.(*fakePublisher)
	sum := svc.ImportBatch(ctx, rows(
		[]string{"A1", "", "Produit A", "", "", "Divers", "oui", "100"},
	))
	assert.EqualValues(t, 1, sum.Deactivated)
	assert.NotContains(t, idx.docs, b.ID)
	assert.Len(t, idx.docs, 1)
	assert.Contains(t, pub.types(), "product_deleted")

	b, err = r.GetProductByExternalID(ctx, "B1")
	require.NoError(t, err)
	assert.False(t, b.Active)

	// B1 comes back
	sum = svc.ImportBatch(ctx, rows(
		[]string{"A1", "", "Produit A", "", "", "Divers", "oui", "100"},
		[]string{"B1", "", "Produit B", "", "", "Divers", "oui", "200"},
	))
	assert.Zero(t, sum.Created)
	b, err = r.GetProductByExternalID(ctx, "B1")
	require.NoError(t, err)
	assert.True(t, b.Active)
}

func TestImportBatch_RowErrorsAreCollected(t *testing.T) {
	svc, r, _ := newImportService(t)
	ctx := context.Background()

	svc.ImportBatch(ctx, rows([]string{"X9", "", "Ancien", "", "", "", "", "10"}))

	sum := svc.ImportBatch(ctx, rows(
		[]string{"", "", "", "", "", "", "", ""},
		[]string{"X9", "", "", "", "", "", "", ""},
		[]string{"Y1", "", "Bon produit", "", "", "", "", "1,2.3.4"},
		[]string{"Z1", "", "Autre", "", "", "", "", "50"},
	))
	assert.Equal(t, 3, sum.Total, "blank rows are skipped")
	assert.Equal(t, 1, sum.Success)
	require.Len(t, sum.Errors, 2)
	assert.Equal(t, 3, sum.Errors[0].Row)
	assert.Equal(t, importer.ErrNameRequired.Error(), sum.Errors[0].Message)
	assert.Equal(t, 4, sum.Errors[1].Row)

	x, err := r.GetProductByExternalID(ctx, "X9")
	require.NoError(t, err)
	assert.True(t, x.Active, "a failing row still marks its id as seen")
}

func TestImportBatch_SlugMatch(t *testing.T) {
	svc, r, _ := newImportService(t)
	ctx := context.Background()
	manual := seedProduct(t, r, "huile-de-coco", 900, 2)

	sum := svc.ImportBatch(ctx, rows([]string{"H1", "", "Huile de Coco", "", "", "", "", "1000"}))
	assert.Equal(t, 1, sum.Updated)

	got, err := r.GetProduct(ctx, manual.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ExternalID)
	assert.Equal(t, "H1", *got.ExternalID)

	// same name, different external id: a distinct product
	sum = svc.ImportBatch(ctx, rows(
		[]string{"H1", "", "Huile de Coco", "", "", "", "", "1000"},
		[]string{"H2", "", "Huile de Coco", "", "", "", "", "1200"},
	))
	assert.Equal(t, 1, sum.Created)
	other, err := r.GetProductByExternalID(ctx, "H2")
	require.NoError(t, err)
	assert.Equal(t, "huile-de-coco-2", other.Slug)
}

func TestImportBatch_KeepsImageWhenCellEmpty(t *testing.T) {
	svc, r, _ := newImportService(t)
	ctx := context.Background()

	svc.ImportBatch(ctx, rows([]string{"I1", "/uploads/a.jpg", "Image", "", "", "", "", "1"}))
	svc.ImportBatch(ctx, rows([]string{"I1", "", "Image", "", "", "", "", "1"}))

	p, err := r.GetProductByExternalID(ctx, "I1")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.jpg", p.MainImage)
}

type stubSource struct {
	rows []importer.Row
	err  error
}

func (stubSource) Name() string { return "stub" }

func (s stubSource) Rows(context.Context) ([]importer.Row, error) { return s.rows, s.err }

func TestRun_SourceErrorsAndGuard(t *testing.T) {
	svc, _, _ := newImportService(t)
	ctx := context.Background()

	_, err := svc.Run(ctx, stubSource{err: importer.ErrEmptySource})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Run(ctx, stubSource{err: assert.AnError})
	assert.ErrorIs(t, err, ErrUpstream)

	svc.running.Store(true)
	_, err = svc.Run(ctx, stubSource{})
	assert.ErrorIs(t, err, ErrImportRunning)
	svc.running.Store(false)

	sum, err := svc.Run(ctx, importer.CSVSource{Reader: strings.NewReader(
		"id;image;nom;desc;vol;cat;dispo;prix\nC1;;Café;;;Boissons;oui;1 200\n",
	)})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Created)
	assert.False(t, svc.Running())

	pub := svc.Events.(*fakePublisher)
	assert.Equal(t, []string{"catalog_imported"}, pub.types())
}

func TestResolveCategory_CaseInsensitive(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	a, err := ResolveCategory(ctx, r, "Soins Visage")
	require.NoError(t, err)
	assert.Equal(t, "soins-visage", a.Slug)

	b, err := ResolveCategory(ctx, r, "  SOINS VISAGE ")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	c, err := ResolveCategory(ctx, r, "Soins-Visage")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
	assert.Equal(t, "soins-visage-2", c.Slug)

	d, err := ResolveCategory(ctx, r, "Épicerie Fine")
	require.NoError(t, err)
	e, err := ResolveCategory(ctx, r, "ÉPICERIE FINE")
	require.NoError(t, err)
	assert.Equal(t, d.ID, e.ID)
	assert.Equal(t, "Épicerie Fine", e.Name)
}
