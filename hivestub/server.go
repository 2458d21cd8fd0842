// Package hivestub hosts the hive wire contract in memory: the four
// endpoints a game server's client speaks (state put/get, transfer create
// and claim) plus the health probe. It exists so servers and tests can run
// against a hive without standing up the real service, the way the upstream
// project ships a server stub for development.
package hivestub

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// defaultTTLMinutes is applied when a create request carries no usable TTL.
const defaultTTLMinutes = 60

// Options configure the stub server.
type Options struct {
	// Address is the listen address for Run, e.g. ":8080".
	Address string
	// APIKey is the value required in X-API-Key. Empty disables the check.
	APIKey string
	// SweepInterval is how often expired transfers are reaped. Claims also
	// check expiry lazily, so sweeping only bounds memory. Defaults to one
	// minute.
	SweepInterval time.Duration
}

// Server is an in-memory hive service.
type Server struct {
	opts   Options
	store  *Store
	engine *gin.Engine
}

// NewServer builds a stub ready to Run or to mount in an httptest server via
// Handler.
func NewServer(opts Options) *Server {
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	s := &Server{
		opts:   opts,
		store:  NewStore(),
		engine: gin.Default(),
	}
	// Match routes on the escaped path so state keys containing %2F stay a
	// single :key segment, the way the client escapes them.
	s.engine.UseRawPath = true
	s.routes()
	return s
}

// Store exposes the backing store, which tests use to pre-stage data.
func (s *Server) Store() *Store {
	return s.store
}

// Handler returns the HTTP handler serving the hive contract.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)

	v1 := s.engine.Group("/v1")
	v1.Use(s.requireKey)
	v1.PUT("/state/:key", s.putState)
	v1.GET("/state/:key", s.getState)
	v1.POST("/transfer", s.createTransfer)
	v1.POST("/transfer/claim", s.claimTransfer)
}

// Run serves on opts.Address until ctx is canceled, reaping expired
// transfers in the background.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.opts.Address,
		Handler: s.engine,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("hive stub listening", "address", s.opts.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("hive stub: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(s.opts.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := s.store.Sweep(); n > 0 {
					log.Debug("swept expired transfers", "count", n)
				}
			}
		}
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) requireKey(c *gin.Context) {
	if s.opts.APIKey == "" {
		return
	}
	if c.GetHeader("X-API-Key") != s.opts.APIKey {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid api key"})
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) putState(c *gin.Context) {
	key := c.Param("key")
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "reading body failed"})
		return
	}
	var body struct {
		V json.RawMessage `json:"v"`
	}
	// A literal null binds as the bytes "null", not a nil slice, so it needs
	// its own check alongside the absent-member one.
	if err := json.Unmarshal(raw, &body); err != nil || len(body.V) == 0 || string(body.V) == "null" {
		c.JSON(http.StatusBadRequest, gin.H{"message": `body must be {"v": <json>}`})
		return
	}
	s.store.SetState(key, body.V)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) getState(c *gin.Context) {
	key := c.Param("key")
	v, ok := s.store.GetState(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "state key not found"})
		return
	}
	c.Data(http.StatusOK, "application/json", v)
}

func (s *Server) createTransfer(c *gin.Context) {
	var body struct {
		SteamID    string          `json:"steam_id"`
		SrcServer  string          `json:"src_server"`
		DstServer  string          `json:"dst_server"`
		Payload    json.RawMessage `json:"payload"`
		TTLMinutes int             `json:"ttl_minutes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SteamID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "steam_id is required"})
		return
	}
	if body.TTLMinutes <= 0 {
		body.TTLMinutes = defaultTTLMinutes
	}
	if len(body.Payload) == 0 {
		// Claim echoes the stored text into a JSON body, so an absent
		// payload member stages null rather than nothing.
		body.Payload = json.RawMessage("null")
	}
	token := s.store.CreateTransfer(body.SteamID, body.SrcServer, body.DstServer,
		string(body.Payload), time.Duration(body.TTLMinutes)*time.Minute)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) claimTransfer(c *gin.Context) {
	var body struct {
		SteamID string `json:"steam_id"`
		Token   string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SteamID == "" || body.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "steam_id and token are required"})
		return
	}
	payload, ok := s.store.ClaimTransfer(body.SteamID, body.Token)
	if !ok {
		c.JSON(http.StatusGone, gin.H{"message": "transfer gone"})
		return
	}
	// The staged document comes back untouched.
	c.JSON(http.StatusOK, gin.H{"payload": json.RawMessage(payload)})
}
