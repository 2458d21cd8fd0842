// Package rest implements the HTTP transport the hive client sends through.
// Importing it registers the transport with the root package, so most
// applications only need the blank import:
//
//	import _ "github.com/sharedcode/hive/rest"
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sharedcode/hive"
)

// Sender performs hive exchanges over HTTP with a per-request timeout. It is
// safe for concurrent use; all requests share one http.Client so connections
// are pooled across the save/load/transfer traffic of a busy server.
type Sender struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewSender builds a Sender for the service rooted at baseURL. timeout bounds
// each exchange end to end, connection setup and body read included.
func NewSender(baseURL, apiKey string, timeout time.Duration) *Sender {
	return &Sender{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Send implements hive.Transport by running RoundTrip on its own goroutine
// and handing the outcome to done.
func (s *Sender) Send(req hive.Request, done func(hive.Result)) {
	go func() {
		done(s.RoundTrip(context.Background(), req))
	}()
}

// RoundTrip performs one synchronous exchange. The CLI and health probes use
// it directly; the async client goes through Send.
func (s *Sender) RoundTrip(ctx context.Context, req hive.Request) hive.Result {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	hr, err := http.NewRequestWithContext(ctx, req.Method, s.baseURL+req.Path, body)
	if err != nil {
		return hive.Result{Err: fmt.Errorf("build request: %w", err)}
	}
	hr.Header.Set("X-API-Key", s.apiKey)
	if req.Body != nil {
		hr.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(hr)
	if err != nil {
		return hive.Result{Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return hive.Result{Err: fmt.Errorf("read response: %w", err)}
	}
	return hive.Result{Status: resp.StatusCode, Body: b}
}

func init() {
	hive.RegisterTransport(func(cfg hive.Config) hive.Transport {
		return NewSender(cfg.BaseURL, cfg.APIKey, cfg.RequestTimeout)
	})
}
