package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"eucalito/internal/core"
	"eucalito/internal/ports"
	"eucalito/internal/services"
)

const snapshotCacheKey = "snapshot"

// Server is the JSON API over the ledger service. The extractor is
// optional: without it POST /api/extract answers 503 and everything
// else keeps working.
type Server struct {
	http.Server
	ledger      *services.LedgerService
	extractor   ports.Extractor
	rateLimiter *rateLimiter

	snapshotCache *lruCache[core.LedgerSnapshot]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, ledger *services.LedgerService, extractor ports.Extractor, snapshotTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:           ledger,
		extractor:        extractor,
		rateLimiter:      newRateLimiter(),
		snapshotCache:    newLRUCache[core.LedgerSnapshot](4, snapshotTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/snapshot", s.withSecurityHeaders(s.handleSnapshot))

	mux.HandleFunc("GET /api/transactions", s.withSecurityHeaders(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("PATCH /api/transactions/{id}", s.withSecurityHeaders(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withSecurityHeaders(s.handleDeleteTransaction))
	mux.HandleFunc("POST /api/transactions/{id}/confirm", s.withSecurityHeaders(s.handleConfirmTransaction))

	mux.HandleFunc("GET /api/counterparties", s.withSecurityHeaders(s.handleListCounterparties))
	mux.HandleFunc("GET /api/counterparties/{name}/balance", s.withSecurityHeaders(s.handleCounterpartyBalance))
	mux.HandleFunc("POST /api/counterparties/{name}/settle", s.withSecurityHeaders(s.handleSettle))

	mux.HandleFunc("GET /api/bookings", s.withSecurityHeaders(s.handleListBookings))
	mux.HandleFunc("POST /api/bookings", s.withSecurityHeaders(s.handleCreateBooking))
	mux.HandleFunc("PATCH /api/bookings/{id}", s.withSecurityHeaders(s.handleUpdateBooking))
	mux.HandleFunc("DELETE /api/bookings/{id}", s.withSecurityHeaders(s.handleDeleteBooking))
	mux.HandleFunc("POST /api/bookings/{id}/pay", s.withSecurityHeaders(s.handlePayBooking))

	mux.HandleFunc("POST /api/extract", s.withSecurityHeaders(s.handleExtract))

	mux.HandleFunc("GET /export.csv", s.withSecurityHeaders(s.handleExportCSV))
	mux.HandleFunc("GET /export.json", s.withSecurityHeaders(s.handleExportJSON))
	mux.HandleFunc("POST /restore", s.withSecurityHeaders(s.handleRestore))
	mux.HandleFunc("POST /admin/nuke", s.withSecurityHeaders(s.handleNuke))

	return s
}

// InvalidateSnapshot drops the cached snapshot. Write handlers call it
// directly; the main wires it to the repository's change feed so writes
// from other processes invalidate too.
func (s *Server) InvalidateSnapshot() {
	s.snapshotCache.Delete(snapshotCacheKey)
}

func (s *Server) cachedSnapshot(ctx context.Context) (core.LedgerSnapshot, error) {
	if snap, found := s.snapshotCache.Get(snapshotCacheKey); found {
		slog.DebugContext(ctx, "Snapshot cache hit")
		return snap, nil
	}
	snap, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return core.LedgerSnapshot{}, err
	}
	s.snapshotCache.Set(snapshotCacheKey, snap)
	return snap, nil
}

// startCacheCleanup runs periodic cleanup for the snapshot cache.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.snapshotCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
