package hive

import "fmt"

// Request describes one exchange with the hive service. Path is
// service-relative (e.g. /v1/state/steam_76561198000000001); the transport
// owns base-URL joining, headers, and the timeout.
type Request struct {
	Method string
	Path   string
	// Body is the JSON request body, nil for bodyless methods.
	Body []byte
}

// Result is the outcome of a Request. Exactly one of two variants holds:
// either the exchange failed in transport (Err != nil, Status zero) or the
// service answered (Status set, Body holding the raw response).
type Result struct {
	Status int
	Body   []byte
	Err    error
}

// OK reports whether the request reached the service and was answered with a
// 2xx status.
func (r Result) OK() bool {
	return r.Err == nil && r.Status >= 200 && r.Status < 300
}

// Failure converts a non-OK Result into an Error classified Transient, which
// is how the retry path treats anything it does not recognize as a business
// outcome. A result that is OK yields nil.
func (r Result) Failure() error {
	if r.OK() {
		return nil
	}
	if r.Err != nil {
		return Error{Code: Transient, Err: r.Err}
	}
	return Error{Code: Transient, Err: fmt.Errorf("http status %d", r.Status), UserData: r.Status}
}

// Transport sends requests to the hive service. done is invoked exactly once
// per Send, from any goroutine; the client re-posts completions onto its
// dispatcher before acting on them.
type Transport interface {
	Send(req Request, done func(Result))
}

// TransportFactory creates the Transport a Client sends through.
type TransportFactory func(cfg Config) Transport

var transportFactory TransportFactory

// RegisterTransport installs the factory used by NewClient when no explicit
// transport is supplied. The rest package registers itself on import.
func RegisterTransport(f TransportFactory) {
	transportFactory = f
}

func newTransport(cfg Config) Transport {
	if transportFactory == nil {
		return nil
	}
	return transportFactory(cfg)
}
