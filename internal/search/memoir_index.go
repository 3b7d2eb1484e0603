package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/sunsetmemories/backend/internal/domain"
	pkglogger "github.com/sunsetmemories/backend/pkg/logger"
)

const memoirIndexName = "memoirs"

// MemoirIndex maintains the Elasticsearch index of public memoirs and
// serves community search queries.
type MemoirIndex struct {
	es *elasticsearch.Client
}

// NewMemoirIndex creates an Elasticsearch-backed memoir index
func NewMemoirIndex(addresses []string, username, password string) (*MemoirIndex, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
	}
	if username != "" {
		cfg.Username = username
		cfg.Password = password
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation failed: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch connection failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	pkglogger.GetLogger().Info().Msg("connected to Elasticsearch")
	return &MemoirIndex{es: es}, nil
}

type memoirDoc struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	AuthorID uint64 `json:"author_id"`
}

// Index upserts a public memoir document
func (i *MemoirIndex) Index(ctx context.Context, memoir *domain.Memoir) error {
	data, err := json.Marshal(memoirDoc{
		Title:    memoir.Title,
		Content:  memoir.Content,
		AuthorID: memoir.UserID,
	})
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      memoirIndexName,
		DocumentID: strconv.FormatUint(memoir.ID, 10),
		Body:       bytes.NewReader(data),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, i.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		body, readErr := io.ReadAll(res.Body)
		if readErr != nil {
			return fmt.Errorf("index error [%s]: failed to read response body: %w", res.Status(), readErr)
		}
		return fmt.Errorf("index error [%s]: %s", res.Status(), string(body))
	}
	return nil
}

// Delete removes a memoir document. Called when a memoir is deleted or
// made private.
func (i *MemoirIndex) Delete(ctx context.Context, memoirID uint64) error {
	req := esapi.DeleteRequest{
		Index:      memoirIndexName,
		DocumentID: strconv.FormatUint(memoirID, 10),
	}

	res, err := req.Do(ctx, i.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// 404 is ok (document already gone)
	if res.IsError() && res.StatusCode != 404 {
		body, readErr := io.ReadAll(res.Body)
		if readErr != nil {
			return fmt.Errorf("delete error [%s]: failed to read response body: %w", res.Status(), readErr)
		}
		return fmt.Errorf("delete error [%s]: %s", res.Status(), string(body))
	}
	return nil
}

// Search runs a multi-match query over title and content and returns
// matching memoir ids, best score first.
func (i *MemoirIndex) Search(ctx context.Context, q string, page, limit int) ([]uint64, int64, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": []string{"title^2", "content"},
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, 0, err
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(memoirIndexName),
		i.es.Search.WithBody(&buf),
		i.es.Search.WithFrom((page-1)*limit),
		i.es.Search.WithSize(limit),
		i.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("search error: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint64, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, parseErr := strconv.ParseUint(hit.ID, 10, 64)
		if parseErr != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, parsed.Hits.Total.Value, nil
}
