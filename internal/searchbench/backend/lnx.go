package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/armadaproject/searchbench/internal/common/logging"
)

// Lnx benchmarks an lnx server using fuzzy queries.
type Lnx struct {
	client *client
	index  string
}

func (l *Lnx) Name() string {
	return "lnx"
}

func (l *Lnx) Prep(ctx context.Context, documents json.RawMessage) error {
	if err := l.client.clear(ctx, http.MethodDelete, l.client.url("/indexes/%s/documents/clear", url.PathEscape(l.index)), nil); err != nil {
		return err
	}

	start := time.Now()
	if err := l.client.expect(ctx, http.MethodPost, l.client.url("/indexes/%s/documents", url.PathEscape(l.index)), documents, nil, http.StatusOK); err != nil {
		return err
	}
	if err := l.client.expect(ctx, http.MethodPost, l.client.url("/indexes/%s/commit", url.PathEscape(l.index)), nil, nil, http.StatusOK); err != nil {
		return err
	}
	logging.Infof("lnx took %s to process submitted documents", time.Since(start))
	return nil
}

type lnxQuery struct {
	Query struct {
		Fuzzy struct {
			Ctx string `json:"ctx"`
		} `json:"fuzzy"`
	} `json:"query"`
}

func (l *Lnx) Search(ctx context.Context, query string) (int, error) {
	payload := lnxQuery{}
	payload.Query.Fuzzy.Ctx = query
	return l.client.status(ctx, http.MethodPost, l.client.url("/indexes/%s/search", url.PathEscape(l.index)), payload, nil)
}
