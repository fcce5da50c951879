// internal/search/search.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fiche-manager/internal/common/errors"
	"fiche-manager/internal/common/logger"
	"fiche-manager/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

const (
	ClientIndex    = "clients"
	FormationIndex = "formations"

	defaultPageSize = 20
	maxPageSize     = 100
)

// Service indexes clients and formations and serves the admin list search.
// Postgres remains the source of truth; the index is rebuilt from it and a
// failed index write never fails the write that triggered it.
type Service struct {
	client *elasticsearch.Client
	logger logger.Logger
}

func NewService(client *elasticsearch.Client, log logger.Logger) *Service {
	return &Service{client: client, logger: log}
}

// ==========================
// Indexing
// ==========================

func (s *Service) IndexClient(ctx context.Context, client *models.Client) error {
	return s.index(ctx, ClientIndex, client.ID, client)
}

func (s *Service) IndexFormation(ctx context.Context, formation *models.Formation) error {
	return s.index(ctx, FormationIndex, formation.ID, formation)
}

func (s *Service) DeleteDocument(ctx context.Context, index, id string) error {
	res, err := s.client.Delete(index, id, s.client.Delete.WithContext(ctx))
	if err != nil {
		return errors.NewIndexingFailedError(index, err)
	}
	defer res.Body.Close()
	// 404 is fine: the document was never indexed
	if res.IsError() && res.StatusCode != 404 {
		return errors.NewIndexingFailedError(index, fmt.Errorf("delete returned %s", res.Status()))
	}
	return nil
}

func (s *Service) index(ctx context.Context, index, id string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.NewIndexingFailedError(index, err)
	}

	res, err := s.client.Index(index, bytes.NewReader(body),
		s.client.Index.WithDocumentID(id),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return errors.NewIndexingFailedError(index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewIndexingFailedError(index, fmt.Errorf("index returned %s", res.Status()))
	}
	return nil
}

// ==========================
// Searching
// ==========================

// Result is one page of search hits, decoded to their indexed source.
type Result struct {
	Data      []map[string]interface{} `json:"data"`
	TotalHits int64                    `json:"totalHits"`
}

type Page struct {
	From int
	Size int
}

func (p Page) clamp() Page {
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	if p.From < 0 {
		p.From = 0
	}
	return p
}

// SearchClients matches the query against client name, city and contact.
func (s *Service) SearchClients(ctx context.Context, query string, page Page) (*Result, error) {
	return s.search(ctx, ClientIndex, query, []string{"name^2", "city", "contactName"}, page)
}

// SearchFormations matches the query against formation name and reference.
func (s *Service) SearchFormations(ctx context.Context, query string, page Page) (*Result, error) {
	return s.search(ctx, FormationIndex, query, []string{"name^2", "reference"}, page)
}

func (s *Service) search(ctx context.Context, index, query string, fields []string, page Page) (*Result, error) {
	page = page.clamp()

	var q map[string]interface{}
	if strings.TrimSpace(query) == "" {
		q = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		q = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    fields,
				"fuzziness": "AUTO",
			},
		}
	}

	body, err := json.Marshal(map[string]interface{}{
		"query": q,
		"from":  page.From,
		"size":  page.Size,
	})
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(index, err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(index, fmt.Errorf("search returned %s", res.Status()))
	}

	var decoded struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, errors.NewSearchQueryFailedError(index, err)
	}

	result := &Result{TotalHits: decoded.Hits.Total.Value}
	for _, hit := range decoded.Hits.Hits {
		result.Data = append(result.Data, hit.Source)
	}
	return result, nil
}
