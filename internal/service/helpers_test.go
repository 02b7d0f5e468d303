package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sucrestore/internal/db"
	"github.com/Skotchmaster/sucrestore/internal/es"
	"github.com/Skotchmaster/sucrestore/internal/hash"
	"github.com/Skotchmaster/sucrestore/internal/models"
	"github.com/Skotchmaster/sucrestore/internal/mykafka"
	"github.com/Skotchmaster/sucrestore/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	ctx := context.Background()
	gdb, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })
	return &repo.GormRepo{DB: gdb}
}

func seedProduct(t *testing.T, r *repo.GormRepo, name string, price int64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:   name,
		Slug:   name,
		Price:  decimal.NewFromInt(price),
		Stock:  stock,
		Active: true,
	}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

func seedUser(t *testing.T, r *repo.GormRepo, username string, role models.Role) *models.User {
	t.Helper()
	pw, err := hash.HashPassword("secret123")
	require.NoError(t, err)
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: pw,
		Role:         role,
		Active:       true,
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

type recordedEvent struct {
	Topic string
	Key   string
	Event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{Topic: topic, Key: key, Event: event})
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.events {
		switch ev := e.Event.(type) {
		case mykafka.OrderEvent:
			out = append(out, ev.Type)
		case mykafka.ProductEvent:
			out = append(out, ev.Type)
		case mykafka.ImportEvent:
			out = append(out, ev.Type)
		}
	}
	return out
}

type fakeIndex struct {
	docs      map[uint]es.ProductDoc
	searchIDs []uint
	searchErr error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[uint]es.ProductDoc{}}
}

func (f *fakeIndex) IndexProduct(_ context.Context, doc es.ProductDoc) error {
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uint) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _, _ int) (int64, []uint, error) {
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	return int64(len(f.searchIDs)), f.searchIDs, nil
}

var errIndexDown = errors.New("index unavailable")
