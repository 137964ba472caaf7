package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hartanah/propcompare/internal/model"
	"github.com/hartanah/propcompare/internal/store"
	"github.com/hartanah/propcompare/internal/workflow"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for comparison sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine, err := initEngine()
		if err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		api := &apiServer{
			engine:   engine,
			store:    st,
			registry: workflow.NewRegistry(),
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           api.router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type apiServer struct {
	engine   workflow.Engine
	store    store.Store
	registry *workflow.Registry
}

func (s *apiServer) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
		r.Post("/sessions/{id}/url", s.handleSubmitURL)
		r.Post("/sessions/{id}/preferences", s.handleSubmitPreferences)

		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})

	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	wf := s.registry.Create(s.engine)
	writeJSON(w, http.StatusCreated, sessionView(wf))
}

func (s *apiServer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	wf, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, sessionView(wf))
}

func (s *apiServer) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.registry.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleSubmitURL(w http.ResponseWriter, r *http.Request) {
	wf, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	record, err := wf.SubmitURL(r.Context(), req.URL)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"step":      wf.Step().String(),
		"reference": record,
	})
}

func (s *apiServer) handleSubmitPreferences(w http.ResponseWriter, r *http.Request) {
	wf, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var prefs model.UserPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := wf.SubmitPreferences(r.Context(), prefs)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	s.persistResult(r, result)

	writeJSON(w, http.StatusOK, map[string]any{
		"step":   wf.Step().String(),
		"result": result,
	})
}

// persistResult records a finished session in run history. Persistence
// failures do not affect the API response.
func (s *apiServer) persistResult(r *http.Request, result model.RunResult) {
	ctx := r.Context()

	run, err := s.store.CreateRun(ctx, result.Reference.ListingURL)
	if err != nil {
		zap.L().Warn("persist session run failed", zap.Error(err))
		return
	}
	if err := s.store.CompleteRun(ctx, run.ID, &result); err != nil {
		zap.L().Warn("persist session result failed",
			zap.String("run_id", run.ID),
			zap.Error(err),
		)
	}
}

func (s *apiServer) handleListRuns(w http.ResponseWriter, r *http.Request) {
	filter := store.RunFilter{
		Status:     model.RunStatus(r.URL.Query().Get("status")),
		ListingURL: r.URL.Query().Get("url"),
		Limit:      20,
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list runs failed")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *apiServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func sessionView(wf *workflow.Workflow) map[string]any {
	view := map[string]any{
		"id":   wf.ID,
		"step": wf.Step().String(),
	}
	if ref, ok := wf.Reference(); ok {
		view["reference"] = ref
	}
	if result, ok := wf.Result(); ok {
		view["result"] = result
	}
	return view
}

func writeWorkflowError(w http.ResponseWriter, err error) {
	if eris.Is(err, workflow.ErrOutOfOrder) {
		writeError(w, http.StatusConflict, "submission out of order")
		return
	}
	zap.L().Error("workflow submission failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "submission failed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
