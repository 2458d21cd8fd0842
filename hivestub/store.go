package hivestub

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// transfer is one staged handoff awaiting its claim.
type transfer struct {
	token     string
	steamID   string
	srcServer string
	dstServer string
	payload   string
	expiresAt time.Time
}

// Store is the stub's in-memory backing: raw state values plus staged
// transfers behind one mutex. Claims are single-use; the record is removed
// the moment it is redeemed, so a second claim answers gone.
type Store struct {
	mu        sync.Mutex
	state     map[string][]byte
	transfers map[string]*transfer
	now       func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		state:     make(map[string][]byte),
		transfers: make(map[string]*transfer),
		now:       time.Now,
	}
}

// SetState upserts the raw JSON value for key.
func (s *Store) SetState(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state[key] = value
}

// GetState fetches the raw JSON value for key.
func (s *Store) GetState(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.state[key]
	return v, ok
}

// CreateTransfer stages a handoff and returns its server-issued token. The
// payload is held as opaque text; callers staging it for the HTTP claim
// endpoint must pass valid JSON, since claim echoes it into the response
// body verbatim.
func (s *Store) CreateTransfer(steamID, src, dst, payload string, ttl time.Duration) string {
	t := &transfer{
		token:     uuid.NewString(),
		steamID:   steamID,
		srcServer: src,
		dstServer: dst,
		payload:   payload,
		expiresAt: s.now().Add(ttl),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers[t.token] = t
	return t.token
}

// ClaimTransfer redeems a token for steamID, returning the staged payload.
// Missing, expired, mismatched, or already-claimed tokens all answer false;
// the caller cannot tell these apart, matching the wire contract's single
// gone outcome.
func (s *Store) ClaimTransfer(steamID, token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transfers[token]
	if !ok {
		return "", false
	}
	if s.now().After(t.expiresAt) {
		delete(s.transfers, token)
		return "", false
	}
	if t.steamID != steamID {
		return "", false
	}
	delete(s.transfers, token)
	return t.payload, true
}

// Sweep drops expired transfers and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for token, t := range s.transfers {
		if now.After(t.expiresAt) {
			delete(s.transfers, token)
			n++
		}
	}
	return n
}

// TransferCount reports how many handoffs are currently staged.
func (s *Store) TransferCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transfers)
}
