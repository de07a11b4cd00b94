package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/danang-cvb/leadgen-cli/internal/model"
	"github.com/danang-cvb/leadgen-cli/internal/scorer"
	"github.com/danang-cvb/leadgen-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scoring API server",
	Long:  "Serves on-demand scoring and read access to stored leads over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.Open(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, scorer.New(cfg.Scoring)),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			// The signal context is already cancelled; drain on a fresh one.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(st store.Store, sc *scorer.Scorer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(rateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst))

	r.Get("/health", handleHealth)
	r.Post("/score", handleScore(sc))
	r.Get("/leads", handleLeads(st))

	return r
}

// rateLimiter rejects requests beyond the configured global rate with 429.
func rateLimiter(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// scoreEntity is the request shape for POST /score: a name plus the scoring
// inputs. It satisfies the scorer's entity interface directly.
type scoreEntity struct {
	Name      string   `json:"name"`
	Countries []string `json:"history_countries"`
	Email     bool     `json:"has_email"`
	Phone     bool     `json:"has_phone"`
	Delegates int      `json:"max_delegates"`
}

func (e scoreEntity) DisplayName() string        { return e.Name }
func (e scoreEntity) HistoryCountries() []string { return e.Countries }
func (e scoreEntity) HasEmail() bool             { return e.Email }
func (e scoreEntity) HasPhone() bool             { return e.Phone }
func (e scoreEntity) MaxDelegates() int          { return e.Delegates }

func handleScore(sc *scorer.Scorer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Entities []scoreEntity `json:"entities"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Entities) == 0 {
			writeError(w, http.StatusBadRequest, "entities is required")
			return
		}

		type scoredOut struct {
			Name  string      `json:"name"`
			Score model.Score `json:"score"`
		}
		out := make([]scoredOut, 0, len(req.Entities))
		for _, e := range req.Entities {
			if e.Name == "" {
				writeError(w, http.StatusBadRequest, "entity name is required")
				return
			}
			out = append(out, scoredOut{Name: e.Name, Score: sc.Score(e)})
		}

		writeJSON(w, http.StatusOK, map[string]any{"results": out})
	}
}

func handleLeads(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := store.LeadFilter{
			Source:  model.SourceType(q.Get("source")),
			Country: q.Get("country"),
		}
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			filter.Limit = n
		}
		if v := q.Get("offset"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "invalid offset")
				return
			}
			filter.Offset = n
		}

		leads, err := st.ListLeads(r.Context(), filter)
		if err != nil {
			zap.L().Error("serve: list leads failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list leads failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"leads": leads, "count": len(leads)})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
