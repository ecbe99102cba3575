// Package search indexes places in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-places-api/internal/application"
	"github.com/oksasatya/go-places-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

type PlaceIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewPlaceIndex(es *elasticsearch.Client, index string) *PlaceIndex {
	return &PlaceIndex{ES: es, Index: index}
}

var _ application.PlaceIndex = (*PlaceIndex)(nil)

type placeDoc struct {
	ID          string    `json:"id"`
	CreatorID   string    `json:"creator_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Image       string    `json:"image"`
	Location    geoPoint  `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type geoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func toDoc(p *entity.Place) placeDoc {
	return placeDoc{
		ID:          p.ID,
		CreatorID:   p.CreatorID,
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Image:       p.ImagePath,
		Location:    geoPoint{Lat: p.Location.Lat, Lon: p.Location.Long},
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d placeDoc) place() *entity.Place {
	return &entity.Place{
		ID:          d.ID,
		CreatorID:   d.CreatorID,
		Title:       d.Title,
		Description: d.Description,
		Address:     d.Address,
		ImagePath:   d.Image,
		Location:    entity.Location{Lat: d.Location.Lat, Long: d.Location.Lon},
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// EnsureIndex creates the index with a geo_point mapping when it does not exist.
func (x *PlaceIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.ES.Indices.Exists([]string{x.Index}, x.ES.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	mapping := `{"mappings":{"properties":{"location":{"type":"geo_point"},"creator_id":{"type":"keyword"},"title":{"type":"text"},"description":{"type":"text"},"address":{"type":"text"}}}}`
	res, err = x.ES.Indices.Create(x.Index, x.ES.Indices.Create.WithContext(c), x.ES.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))))
	if err != nil {
		return err
	}
	return checkResponse(res)
}

func (x *PlaceIndex) Index(ctx context.Context, p *entity.Place) error {
	b, err := json.Marshal(toDoc(p))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	return checkResponse(res)
}

func (x *PlaceIndex) Delete(ctx context.Context, placeID string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: placeID}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	if res.StatusCode == http.StatusNotFound {
		_ = res.Body.Close()
		return nil
	}
	return checkResponse(res)
}

// Search runs a multi_match over title, description and address.
func (x *PlaceIndex) Search(ctx context.Context, q string, size int) ([]*entity.Place, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description", "address"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Index), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source placeDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]*entity.Place, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.place())
	}
	return out, nil
}

func checkResponse(res *esapi.Response) error {
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("es %s: %s", res.Status(), bytes.TrimSpace(body))
	}
	return nil
}
