package hive

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestNewClientWith_ValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BaseURL = ""
	_, err := NewClientWith(cfg, ClientDeps{Transport: &fakeTransport{}, Cache: newMapCache(), Dispatcher: &fakeDispatcher{}})
	if err == nil {
		t.Fatalf("empty base URL accepted")
	}
}

func TestNewClientWith_RequiresRegisteredCache(t *testing.T) {
	// The root test binary imports no cache implementation, so resolving the
	// configured type must fail with a pointer at the missing import.
	_, err := NewClientWith(testConfig(), ClientDeps{Transport: &fakeTransport{}, Dispatcher: &fakeDispatcher{}})
	if err == nil {
		t.Fatalf("expected an error for an unregistered cache type")
	}
	if !strings.Contains(err.Error(), "no cache registered") {
		t.Errorf("error = %v, expected it to name the unregistered cache", err)
	}
}

func TestNewClientWith_RequiresTransport(t *testing.T) {
	prev := transportFactory
	transportFactory = nil
	defer func() { transportFactory = prev }()

	_, err := NewClientWith(testConfig(), ClientDeps{Cache: newMapCache(), Dispatcher: &fakeDispatcher{}})
	if err == nil {
		t.Fatalf("expected an error for a missing transport")
	}
	if !strings.Contains(err.Error(), "no transport registered") {
		t.Errorf("error = %v, expected it to name the missing transport", err)
	}
}

func TestNewClientWith_NormalizesBaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.BaseURL = "http://hive.test///"
	c, err := NewClientWith(cfg, ClientDeps{Transport: &fakeTransport{}, Cache: newMapCache(), Dispatcher: &fakeDispatcher{}})
	if err != nil {
		t.Fatalf("NewClientWith failed: %v", err)
	}
	if got := c.Config().BaseURL; got != "http://hive.test" {
		t.Errorf("base URL = %q, expected trailing slashes stripped", got)
	}
}

func TestClient_Ping(t *testing.T) {
	tr := &syncTransport{result: Result{Status: http.StatusOK}}
	c, err := NewClientWith(testConfig(), ClientDeps{Transport: tr, Cache: newMapCache(), Dispatcher: &fakeDispatcher{}})
	if err != nil {
		t.Fatalf("NewClientWith failed: %v", err)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if len(tr.requests) != 1 || tr.requests[0].Path != "/health" {
		t.Errorf("Ping did not probe /health: %+v", tr.requests)
	}

	tr.result = Result{Status: http.StatusServiceUnavailable}
	if err := c.Ping(context.Background()); err == nil {
		t.Errorf("Ping reported healthy on 503")
	}
}

func TestClient_PingHonorsContext(t *testing.T) {
	// A transport that never completes: Ping must give up with the context.
	c, _, _, _ := newTestClient(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Ping(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Ping error = %v, expected context.Canceled", err)
	}
}

func TestClient_CacheErrorsDegradeToMisses(t *testing.T) {
	cfg := testConfig()
	tr := &fakeTransport{}
	d := &fakeDispatcher{}
	c, err := NewClientWith(cfg, ClientDeps{Transport: tr, Cache: errorCache{err: errors.New("cache down")}, Dispatcher: d})
	if err != nil {
		t.Fatalf("NewClientWith failed: %v", err)
	}

	// A failing cache read behaves as a miss: the load is still fetched.
	if got := c.LoadKV("pos"); got != "" {
		t.Errorf("LoadKV with broken cache = %q", got)
	}
	if len(tr.requests) != 1 {
		t.Fatalf("broken cache suppressed the fetch")
	}
	if _, ok := loggedCategories(c)[LogCacheError]; !ok {
		t.Errorf("cache read failure not logged under %q", LogCacheError)
	}

	// A failing cache write after a successful save is reported, not raised.
	c.SaveKV("pos", `"v"`)
	tr.complete(1, Result{Status: http.StatusOK})
	if _, ok := loggedCategories(c)[LogCacheError]; !ok {
		t.Errorf("cache write failure not logged under %q", LogCacheError)
	}
}

func TestClient_CloseStopsDispatch(t *testing.T) {
	cfg := testConfig()
	tr := &fakeTransport{}
	c, err := NewClientWith(cfg, ClientDeps{Transport: tr, Cache: newMapCache()})
	if err != nil {
		t.Fatalf("NewClientWith failed: %v", err)
	}
	c.Close()
	// Posting after Close is dropped, never a panic.
	if !c.SaveKV("pos", `"v"`) {
		t.Errorf("SaveKV after Close should still report accepted")
	}
	c.Close() // idempotent
}
