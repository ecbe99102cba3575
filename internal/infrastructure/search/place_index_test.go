package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/oksasatya/go-places-api/internal/domain/entity"
)

// fakeES answers like an Elasticsearch node for the calls the index makes.
type fakeES struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodPut && len(parts) == 3 && parts[1] == "_doc":
		b, _ := io.ReadAll(r.Body)
		f.docs[parts[2]] = b
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	case r.Method == http.MethodDelete && len(parts) == 3:
		if _, ok := f.docs[parts[2]]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		delete(f.docs, parts[2])
		_, _ = w.Write([]byte(`{"result":"deleted"}`))
	case strings.HasSuffix(r.URL.Path, "/_search"):
		hits := make([]map[string]json.RawMessage, 0, len(f.docs))
		for _, d := range f.docs {
			hits = append(hits, map[string]json.RawMessage{"_source": d})
		}
		b, _ := json.Marshal(map[string]any{"hits": map[string]any{"hits": hits}})
		_, _ = w.Write(b)
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"unexpected"}`))
	}
}

func newIndex(t *testing.T) (*PlaceIndex, *fakeES) {
	t.Helper()
	fake := &fakeES{docs: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return NewPlaceIndex(es, "places"), fake
}

func TestPlaceIndex_IndexSearchDelete(t *testing.T) {
	x, fake := newIndex(t)
	ctx := context.Background()
	p := &entity.Place{ID: "p1", CreatorID: "u1", Title: "Eiffel Tower", Address: "Paris", Location: entity.Location{Lat: 48.85, Long: 2.29}}

	if err := x.Index(ctx, p); err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(fake.docs) != 1 {
		t.Fatalf("expected one doc, got %d", len(fake.docs))
	}
	got, err := x.Search(ctx, "tower", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p1" || got[0].Location != p.Location {
		t.Fatalf("search = %+v", got)
	}
	if err := x.Delete(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := x.Delete(ctx, "p1"); err != nil {
		t.Fatalf("deleting a missing doc should succeed: %v", err)
	}
}
