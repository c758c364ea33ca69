package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/taskhub/taskhub/internal/models"
)

// TaskDoc is the task projection stored in the search index.
type TaskDoc struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

// TaskIndex mirrors tasks into Elasticsearch and serves full-text queries.
// A nil TaskIndex is a no-op for writes; Search on nil is a caller bug and
// is guarded at the handler level.
type TaskIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}
	return client, nil
}

func docFromTask(task *models.Task) TaskDoc {
	return TaskDoc{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		Status:      string(task.Status),
	}
}

func (t *TaskIndex) IndexTask(ctx context.Context, task *models.Task) error {
	if t == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(docFromTask(task)); err != nil {
		return fmt.Errorf("search: encode task: %w", err)
	}
	res, err := t.ES.Index(
		t.Index,
		&buf,
		t.ES.Index.WithContext(ctx),
		t.ES.Index.WithDocumentID(strconv.FormatUint(uint64(task.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("search: index task: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search: index task: %s", res.Status())
	}
	return nil
}

func (t *TaskIndex) RemoveTask(ctx context.Context, taskID uint) error {
	if t == nil {
		return nil
	}
	res, err := t.ES.Delete(
		t.Index,
		strconv.FormatUint(uint64(taskID), 10),
		t.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: remove task: %w", err)
	}
	defer res.Body.Close()
	// 404 only means the task was never indexed
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search: remove task: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy multi-match over the caller's tasks only.
func (t *TaskIndex) Search(ctx context.Context, userID uint, query string, from, size int) (int64, []TaskDoc, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"title^2", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := t.ES.Search(
		t.ES.Search.WithContext(ctx),
		t.ES.Search.WithIndex(t.Index),
		t.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: query failed: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source TaskDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]TaskDoc, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
