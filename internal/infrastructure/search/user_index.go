// Package search keeps the user directory in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-ddd-membership-api/pkg/api"
	"github.com/oksasatya/go-ddd-membership-api/pkg/helpers"
)

const requestTimeout = 3 * time.Second

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "long"},
      "email":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "name":        {"type": "text"},
      "surname":     {"type": "text"},
      "account_ids": {"type": "long"}
    }
  }
}`

type userDoc struct {
	ID         int64   `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Surname    string  `json:"surname"`
	AccountIDs []int64 `json:"account_ids"`
}

// UserIndex indexes users with their account ids and serves directory search.
type UserIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{es: es, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *UserIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Indices.Exists([]string{x.index}, x.es.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = x.es.Indices.Create(x.index,
		x.es.Indices.Create.WithContext(c),
		x.es.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
	)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", x.index, res.Status())
	}
	return nil
}

func (x *UserIndex) Index(ctx context.Context, u api.User) error {
	if u.Id == nil {
		return fmt.Errorf("index user: missing id")
	}
	doc := userDoc{ID: *u.Id, Email: u.Email, Name: u.Name, Surname: u.Surname, AccountIDs: []int64{}}
	if u.AccountIds != nil {
		doc.AccountIDs = *u.AccountIds
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: strconv.FormatInt(doc.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index user %d: %s", doc.ID, res.Status())
	}
	return nil
}

// Search runs a multi_match over email, name and surname. An empty query
// matches everything.
func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]api.User, error) {
	var query map[string]any
	if q == "" {
		query = map[string]any{"match_all": map[string]any{}}
	} else {
		query = map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name", "surname"},
			},
		}
	}
	b, err := json.Marshal(map[string]any{"query": query, "size": size})
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", x.index, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source userDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]api.User, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		d := h.Source
		id := d.ID
		ids := d.AccountIDs
		if ids == nil {
			ids = []int64{}
		}
		out = append(out, api.User{Id: &id, Email: d.Email, Name: d.Name, Surname: d.Surname, AccountIds: &ids})
	}
	return out, nil
}

func (x *UserIndex) Name() string { return "elasticsearch" }

func (x *UserIndex) Check(ctx context.Context) error { return helpers.PingES(ctx, x.es) }
