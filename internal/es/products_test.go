package es

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sucrestore/internal/models"
)

func newFakeIndex(t *testing.T, handler http.HandlerFunc) *ProductIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the client checks this header to make sure it talks to Elasticsearch
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &ProductIndex{Client: client, Index: "products"}
}

func TestSearch_ParsesHitIDs(t *testing.T) {
	var gotBody map[string]any
	idx := newFakeIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/products/_search"))
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &gotBody))
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":2},"hits":[{"_id":"7"},{"_id":"3"},{"_id":"bad"}]}}`)
	})

	total, ids, err := idx.Search(context.Background(), "savon", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []uint{7, 3}, ids)
	assert.EqualValues(t, 10, gotBody["size"])
}

func TestSearch_ErrorStatus(t *testing.T) {
	idx := newFakeIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})

	_, _, err := idx.Search(context.Background(), "x", 0, 10)
	require.Error(t, err)
}

func TestIndexProduct_UsesDocumentID(t *testing.T) {
	var path, method string
	idx := newFakeIndex(t, func(w http.ResponseWriter, r *http.Request) {
		path, method = r.URL.Path, r.Method
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})

	p := &models.Product{ID: 12, Name: "Savon", Category: &models.Category{Name: "Soins"}}
	require.NoError(t, idx.IndexProduct(context.Background(), DocFromProduct(p)))
	assert.Equal(t, "/products/_doc/12", path)
	assert.Equal(t, http.MethodPut, method)
}

func TestDeleteProduct_IgnoresMissing(t *testing.T) {
	idx := newFakeIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	})
	require.NoError(t, idx.DeleteProduct(context.Background(), 5))
}
