// Package hive implements the client side of the hive state service used by
// game servers to persist player data and to hand players off between
// servers. It provides a key/value sync API backed by a local read-through
// cache, a two-phase transfer protocol (create on the source server, claim on
// the destination), bounded request payloads, and retry with jitter on
// transient service failures. Concrete backends live in subpackages such as
// cache (in-process map), redis (shared cache for server fleets), rest (HTTP
// transport), and hivestub (an in-memory service stub for development and
// tests).
//
// The client never blocks a caller on network I/O. Writes are accepted and
// delivered asynchronously; reads answer from the cache and schedule a fetch
// on a miss. Callers re-poll from their own tick, the way a game-server frame
// loop does.
package hive

// Threading model
//
// All protocol state transitions (cache fills, retry scheduling, completion
// handling) run on a single dispatch goroutine, mirroring the cooperative
// single-thread environment the client was designed for. Public methods may be
// called from any goroutine: they only read configuration, consult the cache
// (which is safe for concurrent use), and enqueue work. Completion callbacks
// arriving on transport goroutines are re-posted onto the dispatch goroutine
// before they touch client state, so the callback for a given request runs at
// most once and never races another.
//
// There is deliberately no per-key deduplication of in-flight requests. Two
// overlapping loads for the same key issue two fetches and the later
// completion wins; this matches the upstream service being the source of
// truth for current state.
