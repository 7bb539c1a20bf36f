package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/armadaproject/searchbench/internal/common/logging"
)

const typesenseApiKeyHeader = "X-TYPESENSE-API-KEY"

// Typesense benchmarks a Typesense server. The index is used as the collection name.
type Typesense struct {
	client *client
	index  string
	apiKey string
}

func (t *Typesense) Name() string {
	return "typesense"
}

func (t *Typesense) headers() map[string]string {
	return map[string]string{typesenseApiKeyHeader: t.apiKey}
}

func (t *Typesense) Prep(ctx context.Context, documents json.RawMessage) error {
	start := time.Now()
	err := t.client.expect(ctx, http.MethodPost, t.client.url("/collections/%s/documents", url.PathEscape(t.index)), documents, t.headers(), http.StatusOK)
	if err != nil {
		return err
	}
	logging.Infof("TypeSense took %s to process submitted documents", time.Since(start))
	return nil
}

func (t *Typesense) Search(ctx context.Context, query string) (int, error) {
	u := t.client.url("/collections/%s/documents/search", url.PathEscape(t.index)) + "?" + url.Values{"q": []string{query}}.Encode()
	return t.client.status(ctx, http.MethodPost, u, nil, t.headers())
}
