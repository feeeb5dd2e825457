package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mesut7942/my-gym-log/internal/auth"
	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"
	"github.com/mesut7942/my-gym-log/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=exercises_test

type exercisesRepo interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	Get(ctx context.Context, userID, id string) (*Exercise, error)
	List(ctx context.Context, params ListParams) ([]Exercise, error)
	Delete(ctx context.Context, userID, id string) error
}

type ListResponse struct {
	Exercises []Exercise `json:"exercises"`
	Total     int        `json:"total"`
}

type AddExerciseRequest struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup"`
	Description string `json:"description"`
}

type DeleteExerciseResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	repo exercisesRepo
	now  func() time.Time
}

func NewHandler(repo exercisesRepo) *Handler {
	return &Handler{
		repo: repo,
		now:  time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/exercises", handler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	router.HandleFunc("/exercises", handler.HandleAdd).Methods("POST", "OPTIONS").Name("add-exercise")
	router.HandleFunc("/exercises/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")
	router.HandleFunc("/exercises/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-exercise")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	userID, _ := auth.UserIDFromContext(ctx)
	params := ListParams{UserID: userID}
	if mgParam := r.URL.Query().Get("muscle_group"); mgParam != "" {
		mg, ok := ParseMuscleGroup(mgParam)
		if !ok {
			http.Error(w, "error, invalid muscle group", http.StatusBadRequest)
			return
		}
		params.MuscleGroup = &mg
	}

	exercises, err := handler.repo.List(ctx, params)
	if err != nil {
		// library read failures end up as an empty list
		log.Errorf("failed to list exercises: %s", err)
		exercises = []Exercise{}
	}

	pkg.WriteJSON(w, http.StatusOK, ListResponse{
		Exercises: exercises,
		Total:     len(exercises),
	})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.get")
	defer span.End()

	userID, _ := auth.UserIDFromContext(ctx)
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}

	exercise, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get exercise %s: %s", id, err)
		http.Error(w, "failed to get exercise", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, exercise)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.add")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req AddExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}
	muscleGroup, ok := ParseMuscleGroup(req.MuscleGroup)
	if !ok {
		http.Error(w, "error, invalid muscle group", http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, Exercise{
		ID:          uuid.NewString(),
		Name:        name,
		MuscleGroup: muscleGroup,
		Description: strings.TrimSpace(req.Description),
		IsCustom:    true,
		OwnerID:     &userID,
		CreatedAt:   handler.now(),
	})
	if err != nil {
		if errors.Is(err, ErrExerciseExists) {
			http.Error(w, "error, exercise already exists", http.StatusConflict)
			return
		}
		log.Errorf("failed to add new exercise [%s] [%s]: %s", muscleGroup, name, err)
		http.Error(w, "error, failed to add new exercise", http.StatusInternalServerError)
		return
	}

	log.Debugf("new custom exercise added: %s", added.ID)
	pkg.WriteJSON(w, http.StatusCreated, added)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		switch {
		case errors.Is(err, ErrExerciseNotFound):
			http.Error(w, "exercise not found", http.StatusNotFound)
		case errors.Is(err, ErrExerciseInUse):
			http.Error(w, "error, exercise is in use", http.StatusConflict)
		default:
			log.Errorf("failed to delete exercise %s: %s", id, err)
			http.Error(w, "failed to delete exercise", http.StatusInternalServerError)
		}
		return
	}

	pkg.WriteJSON(w, http.StatusOK, DeleteExerciseResponse{DeletedID: id})
}
