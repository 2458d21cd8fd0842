package hive

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// TransferTTLMinutes is the lifetime the client requests for a staged
// handoff. A player who has not arrived at the destination server within the
// hour forfeits the transfer; the source server still holds the
// authoritative copy.
const TransferTTLMinutes = 60

// TransferRequest is the wire body staging a payload handoff between two
// servers. The hive answers with an opaque single-use token the destination
// side redeems. Payload is embedded in the body as the JSON value itself,
// not a quoted copy, so the claimer receives the document the source staged.
type TransferRequest struct {
	SteamID    string          `json:"steam_id"`
	SrcServer  string          `json:"src_server"`
	DstServer  string          `json:"dst_server"`
	Payload    json.RawMessage `json:"payload"`
	TTLMinutes int             `json:"ttl_minutes"`
}

// NewTransferRequest fills a TransferRequest with the client's fixed TTL.
func NewTransferRequest(ownerID, src, dst, payload string) TransferRequest {
	return TransferRequest{
		SteamID:    ownerID,
		SrcServer:  src,
		DstServer:  dst,
		Payload:    json.RawMessage(payload),
		TTLMinutes: TransferTTLMinutes,
	}
}

// CreateTransferRequest returns the wire request that stages t. The encode
// fails when t.Payload is not valid JSON text.
func CreateTransferRequest(t TransferRequest) (Request, error) {
	body, err := DefaultMarshaler.Marshal(t)
	if err != nil {
		return Request{}, fmt.Errorf("encode transfer: %w", err)
	}
	return Request{Method: http.MethodPost, Path: "/v1/transfer", Body: body}, nil
}

// ClaimTransferRequest returns the wire request redeeming token for ownerID.
func ClaimTransferRequest(ownerID, token string) (Request, error) {
	body, err := DefaultMarshaler.Marshal(struct {
		SteamID string `json:"steam_id"`
		Token   string `json:"token"`
	}{SteamID: ownerID, Token: token})
	if err != nil {
		return Request{}, fmt.Errorf("encode claim: %w", err)
	}
	return Request{Method: http.MethodPost, Path: "/v1/transfer/claim", Body: body}, nil
}

// createOp carries one pending CreateTransfer exchange. Retries re-send the
// identical body and resolve the original future, so a caller holding the
// future observes the token no matter which attempt lands.
type createOp struct {
	req     TransferRequest
	future  *Future[string]
	attempt int
}

// claimOp carries one pending ClaimTransfer exchange.
type claimOp struct {
	ownerID string
	token   string
	attempt int
}

// CreateTransfer stages a payload handoff for ownerID from the src server to
// the dst server. The payload must be JSON text; it travels inside the
// create body as-is. It returns immediately. The bool reports acceptance:
// false means the payload exceeded the limit and nothing was sent. The
// Future resolves to the server-issued token once the hive acknowledges the
// stage; a payload that is not valid JSON resolves it with a rejection
// instead. With writes disabled it is already resolved with an empty token.
//
// Staging is retried unconditionally, so a request that was applied upstream
// but whose response was lost may stage a second transfer. Tokens are
// single-use and expire, which keeps the duplicate harmless.
func (c *Client) CreateTransfer(ownerID, src, dst, payload string) (*Future[string], bool) {
	if !c.cfg.WritesEnabled {
		return resolvedFuture("", nil), true
	}
	if len(payload) > c.cfg.PayloadLimit {
		c.limiter.LogOnce(LogPayloadSize, "hive payload size exceeds limit",
			"owner", ownerID, "size", len(payload), "limit", c.cfg.PayloadLimit)
		return resolvedFuture("", Error{Code: Rejected, Err: ErrPayloadTooLarge, UserData: len(payload)}), false
	}
	op := createOp{
		req:     NewTransferRequest(ownerID, src, dst, payload),
		future:  newFuture[string](),
		attempt: 1,
	}
	c.dispatch.Post(func() { c.sendCreate(op) })
	return op.future, true
}

func (c *Client) sendCreate(op createOp) {
	req, err := CreateTransferRequest(op.req)
	if err != nil {
		c.limiter.LogOnce(LogTransferError, "hive transfer create failed",
			"owner", op.req.SteamID, "error", err)
		op.future.resolve("", Error{Code: Rejected, Err: err})
		return
	}
	c.transport.Send(req, func(res Result) {
		c.dispatch.Post(func() { c.createDone(op, res) })
	})
}

func (c *Client) createDone(op createOp, res Result) {
	if res.OK() {
		var out struct {
			Token string `json:"token"`
		}
		// A malformed success body yields an empty token rather than an
		// error: the stage happened, the caller just cannot redeem it.
		_ = c.marshaler.Unmarshal(res.Body, &out)
		op.future.resolve(out.Token, nil)
		return
	}
	if c.policy.enabled {
		next := op
		next.attempt++
		c.dispatch.PostAfter(c.policy.NextDelay(), func() { c.sendCreate(next) })
	}
	c.limiter.LogOnce(LogTransferError, "hive transfer create failed",
		"owner", op.req.SteamID, "attempt", op.attempt, "error", res.Failure())
}

// ClaimTransfer redeems a handoff token for ownerID. An empty token is
// rejected immediately. A cache hit under the claim key returns the memoized
// payload with true and no network activity, which makes the call idempotent
// once a claim has landed. Otherwise a claim request is dispatched and the
// call returns ("", false); callers poll until the payload appears. A 410
// from the hive means the transfer was already claimed or has expired and is
// final: no retry, no log, and every later poll keeps answering false.
func (c *Client) ClaimTransfer(ownerID, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	if found, payload := c.cacheGet(ClaimCacheKey(token)); found {
		return payload, true
	}
	op := claimOp{ownerID: ownerID, token: token, attempt: 1}
	c.dispatch.Post(func() { c.sendClaim(op) })
	return "", false
}

func (c *Client) sendClaim(op claimOp) {
	req, err := ClaimTransferRequest(op.ownerID, op.token)
	if err != nil {
		c.limiter.LogOnce(LogClaimError, "hive transfer claim failed",
			"token", op.token, "error", err)
		return
	}
	c.transport.Send(req, func(res Result) {
		c.dispatch.Post(func() { c.claimDone(op, res) })
	})
}

func (c *Client) claimDone(op claimOp, res Result) {
	if res.OK() {
		var out struct {
			Payload json.RawMessage `json:"payload"`
		}
		if err := c.marshaler.Unmarshal(res.Body, &out); err != nil || len(out.Payload) == 0 {
			// No payload member in a success response; nothing to memoize.
			return
		}
		// Canonicalize through the marshaler before memoizing. A JSON null
		// is a present member and memoizes as "null"; only an absent member
		// leaves the poll unanswered.
		var v any
		if c.marshaler.Unmarshal(out.Payload, &v) != nil {
			return
		}
		text, err := c.marshaler.Marshal(v)
		if err != nil {
			return
		}
		c.cacheSet(ClaimCacheKey(op.token), string(text))
		return
	}
	if res.Status == http.StatusGone {
		// Already claimed or expired. Final, so stay quiet.
		return
	}
	if c.policy.enabled {
		next := op
		next.attempt++
		c.dispatch.PostAfter(c.policy.NextDelay(), func() { c.sendClaim(next) })
	}
	c.limiter.LogOnce(LogClaimError, "hive transfer claim failed",
		"token", op.token, "attempt", op.attempt, "error", res.Failure())
}
