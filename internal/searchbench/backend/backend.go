// Package backend talks to the search engines searchbench benchmarks.
//
// Every Backend can load a set of documents into an index and run a single search against it. Search reports the
// HTTP status of the response; deciding whether that status counts as a success is left to the caller.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/armadaproject/searchbench/internal/common/logging"
	"github.com/armadaproject/searchbench/internal/searchbench/configuration"
)

// Backend is a search engine under test.
type Backend interface {
	// Name identifies the backend in logs and metrics
	Name() string
	// Prep replaces the contents of the index with documents, a JSON array.
	Prep(ctx context.Context, documents json.RawMessage) error
	// Search runs a single query and returns the HTTP status code of the response.
	Search(ctx context.Context, query string) (int, error)
}

// New creates the Backend described by config.
func New(config configuration.BackendConfig) (Backend, error) {
	c := newClient(config)
	switch config.Kind {
	case configuration.BackendLnx:
		return &Lnx{client: c, index: config.Index}, nil
	case configuration.BackendMeilisearch:
		return newMeilisearch(c, config), nil
	case configuration.BackendTypesense:
		return &Typesense{client: c, index: config.Index, apiKey: config.ApiKey}, nil
	default:
		return nil, errors.Errorf("unknown backend %q", config.Kind)
	}
}

// client is a thin wrapper around http.Client that knows the engine's base address.
type client struct {
	address string
	http    *http.Client
}

func newClient(config configuration.BackendConfig) *client {
	return &client{
		address: strings.TrimSuffix(config.Address, "/"),
		http:    &http.Client{Timeout: config.RequestTimeout},
	}
}

func (c *client) url(format string, args ...any) string {
	return c.address + fmt.Sprintf(format, args...)
}

// do sends the request with an optional JSON body and returns the response.  The caller must close the body.
func (c *client) do(ctx context.Context, method, url string, body any, headers map[string]string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case json.RawMessage:
			reader = bytes.NewReader(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			reader = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s %s", method, url)
	}
	return resp, nil
}

// status sends the request and returns only the status code, draining the body so the connection can be reused.
func (c *client) status(ctx context.Context, method, url string, body any, headers map[string]string) (int, error) {
	resp, err := c.do(ctx, method, url, body, headers)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// expect sends the request and fails unless the response has one of the accepted status codes.
func (c *client) expect(ctx context.Context, method, url string, body any, headers map[string]string, accepted ...int) error {
	resp, err := c.do(ctx, method, url, body, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	for _, code := range accepted {
		if resp.StatusCode == code {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
	}
	text, _ := io.ReadAll(resp.Body)
	return errors.Errorf("%s %s got unexpected response code %d data: %s", method, url, resp.StatusCode, bytes.TrimSpace(text))
}

// clear empties an index before documents are loaded. Engines reject clearing an index that doesn't exist yet, so
// any response status is accepted, but failing to reach the engine is an error.
func (c *client) clear(ctx context.Context, method, url string, headers map[string]string) error {
	status, err := c.status(ctx, method, url, nil, headers)
	if err != nil {
		return errors.WithMessage(err, "clearing existing documents")
	}
	if !IsSuccess(status) {
		logging.Debugf("%s %s returned %d, continuing with an uncleared index", method, url, status)
	}
	return nil
}

// decode sends the request and unmarshals a JSON response into out.
func (c *client) decode(ctx context.Context, method, url string, body any, headers map[string]string, out any) error {
	resp, err := c.do(ctx, method, url, body, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		text, _ := io.ReadAll(resp.Body)
		return errors.Errorf("%s %s returned %d: %s", method, url, resp.StatusCode, bytes.TrimSpace(text))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WithMessagef(err, "decoding response of %s %s", method, url)
	}
	return nil
}

// IsSuccess reports whether a status code counts as a successful search.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}
