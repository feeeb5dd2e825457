package stats

import (
	"errors"
	"net/http"
	"time"

	"github.com/mesut7942/my-gym-log/internal/auth"
	"github.com/mesut7942/my-gym-log/internal/exercises"
	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"
	"github.com/mesut7942/my-gym-log/internal/units"
	"github.com/mesut7942/my-gym-log/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type converterResolver interface {
	Converter(r *http.Request) units.Converter
}

// Handler serves the stats views. Read failures are logged and answered with an empty view.
type Handler struct {
	analyzer *Analyzer
	resolver converterResolver
	now      func() time.Time
}

func NewHandler(analyzer *Analyzer, resolver converterResolver) *Handler {
	return &Handler{
		analyzer: analyzer,
		resolver: resolver,
		now:      time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/stats/dashboard", handler.HandleDashboard).Methods("GET", "OPTIONS").Name("stats-dashboard")
	router.HandleFunc("/stats/history", handler.HandleHistory).Methods("GET", "OPTIONS").Name("stats-history")
	router.HandleFunc("/stats/progress", handler.HandleProgress).Methods("GET", "OPTIONS").Name("stats-progress")
	router.HandleFunc("/stats/profile", handler.HandleProfile).Methods("GET", "OPTIONS").Name("stats-profile")
	router.HandleFunc("/stats/exercises/{id}", handler.HandleExerciseDetails).Methods("GET", "OPTIONS").Name("stats-exercise-details")
}

func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.dashboard")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	dashboard, err := handler.analyzer.Dashboard(ctx, userID, handler.now())
	if err != nil {
		log.Errorf("failed to get dashboard for %s: %s", userID, err)
		dashboard = EmptyDashboard()
	}
	pkg.WriteJSON(w, http.StatusOK, dashboard.WithUnit(handler.resolver.Converter(r)))
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.history")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	history, err := handler.analyzer.History(ctx, userID)
	if err != nil {
		log.Errorf("failed to get history for %s: %s", userID, err)
		history = EmptyHistory()
	}
	pkg.WriteJSON(w, http.StatusOK, history.WithUnit(handler.resolver.Converter(r)))
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.progress")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	progress, err := handler.analyzer.Progress(ctx, userID, handler.now())
	if err != nil {
		log.Errorf("failed to get progress for %s: %s", userID, err)
		progress = EmptyProgress()
	}
	pkg.WriteJSON(w, http.StatusOK, progress.WithUnit(handler.resolver.Converter(r)))
}

func (handler *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.profile")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	profile, err := handler.analyzer.Profile(ctx, userID, handler.now())
	if err != nil {
		log.Errorf("failed to get profile for %s: %s", userID, err)
		profile = Profile{}
	}
	pkg.WriteJSON(w, http.StatusOK, profile.WithUnit(handler.resolver.Converter(r)))
}

func (handler *Handler) HandleExerciseDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.exerciseDetails")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	exerciseID := mux.Vars(r)["id"]
	if _, err := uuid.Parse(exerciseID); err != nil {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}

	details, err := handler.analyzer.ExerciseDetails(ctx, userID, exerciseID)
	if err != nil {
		if errors.Is(err, exercises.ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get exercise details %s: %s", exerciseID, err)
		details = ExerciseDetails{
			Progress: ExerciseProgress{History: []ExerciseSession{}},
		}
	}
	pkg.WriteJSON(w, http.StatusOK, details.WithUnit(handler.resolver.Converter(r)))
}
