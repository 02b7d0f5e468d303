package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Skotchmaster/sucrestore/internal/importer"
	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/models"
	"github.com/Skotchmaster/sucrestore/internal/mykafka"
	"github.com/Skotchmaster/sucrestore/internal/repo"
	"github.com/Skotchmaster/sucrestore/internal/util"
)

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type Summary struct {
	Total       int        `json:"total"`
	Success     int        `json:"success"`
	Created     int        `json:"created"`
	Updated     int        `json:"updated"`
	Deactivated int64      `json:"deactivated"`
	Errors      []RowError `json:"errors"`
}

func (s *Summary) fail(row int, err error) {
	s.Errors = append(s.Errors, RowError{Row: row, Message: err.Error()})
}

type ImportService struct {
	Repo   *repo.GormRepo
	Index  SearchIndex
	Events mykafka.Publisher

	running atomic.Bool
}

// Run reads every row of src and applies it to the catalog. Only one run is
// allowed at a time; a concurrent call gets ErrImportRunning.
func (s *ImportService) Run(ctx context.Context, src importer.Source) (*Summary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrImportRunning
	}
	defer s.running.Store(false)

	l := logging.FromContext(ctx).With("svc", "import.run", "source", src.Name())

	rows, err := src.Rows(ctx)
	if err != nil {
		if errors.Is(err, importer.ErrEmptySource) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		l.Error("import_source_failed", "status", 502, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	sum := s.ImportBatch(ctx, rows)
	l.Info("import_finished",
		"total", sum.Total,
		"created", sum.Created,
		"updated", sum.Updated,
		"deactivated", sum.Deactivated,
		"errors", len(sum.Errors),
	)
	publish(ctx, s.Events, mykafka.TopicCatalog, src.Name(), mykafka.ImportEvent{
		Type:        "catalog_imported",
		Source:      src.Name(),
		Total:       sum.Total,
		Created:     sum.Created,
		Updated:     sum.Updated,
		Deactivated: sum.Deactivated,
		Errors:      len(sum.Errors),
		At:          time.Now().UTC(),
	})
	return sum, nil
}

// ImportBatch upserts rows one transaction each, then deactivates imported
// products whose external id did not appear. Row failures are collected in
// the summary and never stop the batch.
func (s *ImportService) ImportBatch(ctx context.Context, rows []importer.Row) *Summary {
	l := logging.FromContext(ctx).With("svc", "import.batch")
	sum := &Summary{Errors: []RowError{}}
	var seen []string

	for _, row := range rows {
		rec, skip, err := importer.ParseRow(row)
		if skip {
			continue
		}
		sum.Total++
		// a failing row still counts as present so its product is kept
		if ext := row.ExternalID(); ext != "" {
			seen = append(seen, ext)
		}
		if err != nil {
			l.Warn("import_row_failed", "row", row.Number, "error", err)
			sum.fail(row.Number, err)
			continue
		}

		p, created, err := s.applyRow(ctx, rec)
		if err != nil {
			l.Warn("import_row_failed", "row", row.Number, "error", err)
			sum.fail(row.Number, err)
			continue
		}
		sum.Success++
		if created {
			sum.Created++
		} else {
			sum.Updated++
		}
		syncIndex(ctx, s.Index, p)
	}

	if len(seen) > 0 {
		gone, err := s.Repo.DeactivateMissingExternal(ctx, seen)
		if err != nil {
			l.Error("import_reconcile_failed", "error", err)
			sum.fail(0, fmt.Errorf("reconcile: %w", err))
		}
		sum.Deactivated = int64(len(gone))
		for i := range gone {
			p := &gone[i]
			publish(ctx, s.Events, mykafka.TopicCatalog, strconv.FormatUint(uint64(p.ID), 10), productEvent("product_deleted", p))
			syncIndex(ctx, s.Index, p)
		}
	}
	return sum
}

// applyRow writes one record. A panic inside the row is turned into a row
// error.
func (s *ImportService) applyRow(ctx context.Context, rec importer.Record) (p *models.Product, created bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cat, err := ResolveCategory(ctx, tx, rec.CategoryName)
		if err != nil {
			return err
		}

		p, err = matchProduct(ctx, tx, rec)
		if err != nil {
			return err
		}
		if p == nil {
			created = true
			p = &models.Product{}
			if p.Slug, err = uniqueProductSlug(ctx, tx, rec.Name, 0); err != nil {
				return err
			}
		}
		if rec.ExternalID != "" && p.ExternalID == nil {
			ext := rec.ExternalID
			p.ExternalID = &ext
		}

		p.Name = rec.Name
		p.Description = rec.Description
		p.ShortDescription = rec.ShortDescription
		p.VolumeWeight = rec.VolumeWeight
		p.Price = rec.Price
		p.Stock = rec.Stock
		p.Active = true
		p.CategoryID, p.Category = &cat.ID, cat
		if rec.ImageURL != "" {
			p.MainImage = rec.ImageURL
		}

		if created {
			return tx.CreateProduct(ctx, p)
		}
		return tx.SaveProduct(ctx, p)
	})
	if err != nil {
		return nil, false, err
	}
	return p, created, nil
}

// matchProduct finds the product a record updates: by external id first,
// then by slug. A slug match that already carries a different external id
// is a different product, so nil is returned.
func matchProduct(ctx context.Context, r *repo.GormRepo, rec importer.Record) (*models.Product, error) {
	if rec.ExternalID != "" {
		p, err := r.GetProductByExternalID(ctx, rec.ExternalID)
		if err == nil {
			return p, nil
		}
		if !isRecordNotFound(err) {
			return nil, err
		}
	}

	p, err := r.GetProductBySlug(ctx, util.Slugify(rec.Name), false)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if rec.ExternalID != "" && p.ExternalID != nil && *p.ExternalID != rec.ExternalID {
		return nil, nil
	}
	return p, nil
}

func (s *ImportService) Running() bool {
	return s.running.Load()
}
