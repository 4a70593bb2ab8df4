// Package search は商品検索インデックス（Elasticsearch）。
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"app/internal/domain/model"

	"github.com/elastic/go-elasticsearch/v9"
)

type productDoc struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Price        int64  `json:"price"`
	DepartmentID int64  `json:"department_id"`
}

type ESIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewESIndexer(url string, index string) (*ESIndexer, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
	})
	if err != nil {
		return nil, err
	}
	return &ESIndexer{client: client, index: index}, nil
}

func (e *ESIndexer) Index(ctx context.Context, p model.Product) error {
	doc := productDoc{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		DepartmentID: p.DepartmentID,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return err
	}

	res, err := e.client.Index(
		e.index,
		&buf,
		e.client.Index.WithContext(ctx),
		e.client.Index.WithDocumentID(strconv.FormatInt(p.ID, 10)),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (e *ESIndexer) Delete(ctx context.Context, productID int64) error {
	res, err := e.client.Delete(
		e.index,
		strconv.FormatInt(productID, 10),
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	//既に無いなら成功扱い
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search はヒットした商品のIDを返す。本体はDBから引き直す。
func (e *ESIndexer) Search(ctx context.Context, query string, size int) ([]int64, error) {
	if size <= 0 || size > 100 {
		size = 20
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source productDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, nil
}
