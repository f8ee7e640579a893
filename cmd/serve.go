package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/pipeline"
)

var servePort int

// runState holds the latest pipeline result for the read endpoints.
type runState struct {
	mu  sync.RWMutex
	res *pipeline.Result
}

func (s *runState) get() *pipeline.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res
}

func (s *runState) set(res *pipeline.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.res = res
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only API over pipeline runs",
	Long:  "Accepts signal batches over HTTP and exposes the resulting leads, rejections and explanations. The API is read-only over results: it cannot tune scores or hide rejections.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		state := &runState{}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/run", func(w http.ResponseWriter, req *http.Request) {
			var inputs []model.SignalInput
			if err := json.NewDecoder(req.Body).Decode(&inputs); err != nil {
				respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if len(inputs) == 0 {
				respondJSON(w, http.StatusBadRequest, map[string]string{"error": "no signals given"})
				return
			}

			p := pipeline.New(ruleSet, cfg.Pipeline.Concurrency)
			res, err := p.Process(req.Context(), inputs, time.Now().UTC())
			if err != nil {
				zap.L().Error("pipeline run failed", zap.Error(err))
				respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "pipeline run failed"})
				return
			}
			state.set(res)
			respondJSON(w, http.StatusOK, res)
		})

		r.Get("/leads", func(w http.ResponseWriter, _ *http.Request) {
			res := state.get()
			if res == nil {
				respondJSON(w, http.StatusNotFound, map[string]string{"error": "no run yet"})
				return
			}
			respondJSON(w, http.StatusOK, res.Leads)
		})

		r.Get("/leads/{id}/explanation", func(w http.ResponseWriter, req *http.Request) {
			res := state.get()
			if res == nil {
				respondJSON(w, http.StatusNotFound, map[string]string{"error": "no run yet"})
				return
			}
			id := chi.URLParam(req, "id")
			for _, l := range res.Leads {
				if leadID(l) == id {
					respondJSON(w, http.StatusOK, map[string]string{
						"id":          id,
						"explanation": l.Explanation(),
					})
					return
				}
			}
			respondJSON(w, http.StatusNotFound, map[string]string{"error": "no such lead"})
		})

		r.Get("/rejections", func(w http.ResponseWriter, _ *http.Request) {
			res := state.get()
			if res == nil {
				respondJSON(w, http.StatusNotFound, map[string]string{"error": "no run yet"})
				return
			}
			respondJSON(w, http.StatusOK, res.Rejections)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("response encode failed", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
