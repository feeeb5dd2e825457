package templates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/mesut7942/my-gym-log/internal/auth"
	"github.com/mesut7942/my-gym-log/internal/exercises"
	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"
	"github.com/mesut7942/my-gym-log/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=templates_test

const (
	maxTargetSets = 20
	maxTargetReps = 100
)

type templatesRepo interface {
	Add(ctx context.Context, template Template) error
	Get(ctx context.Context, userID, id string) (*Template, error)
	List(ctx context.Context, userID string) ([]Template, error)
	Update(ctx context.Context, template Template) error
	Delete(ctx context.Context, userID, id string) error
}

type exerciseLookup interface {
	Get(ctx context.Context, userID, id string) (*exercises.Exercise, error)
}

type SaveTemplateRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Exercises   []TemplateExerciseRequest `json:"exercises"`
}

type TemplateExerciseRequest struct {
	ExerciseID string `json:"exerciseId"`
	TargetSets int    `json:"targetSets"`
	TargetReps int    `json:"targetReps"`
}

type ListResponse struct {
	Templates []Template `json:"templates"`
	Total     int        `json:"total"`
}

type DeleteTemplateResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	repo      templatesRepo
	exercises exerciseLookup
	now       func() time.Time
}

func NewHandler(repo templatesRepo, exercises exerciseLookup) *Handler {
	return &Handler{
		repo:      repo,
		exercises: exercises,
		now:       time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/templates", handler.HandleList).Methods("GET", "OPTIONS").Name("list-templates")
	router.HandleFunc("/templates", handler.HandleAdd).Methods("POST", "OPTIONS").Name("add-template")
	router.HandleFunc("/templates/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-template")
	router.HandleFunc("/templates/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-template")
	router.HandleFunc("/templates/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-template")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	templates, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("failed to list templates: %s", err)
		templates = []Template{}
	}

	pkg.WriteJSON(w, http.StatusOK, ListResponse{
		Templates: templates,
		Total:     len(templates),
	})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}

	template, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get template %s: %s", id, err)
		http.Error(w, "failed to get template", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, template)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.add")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	template, status, msg := handler.templateFromRequest(ctx, r, userID)
	if status != 0 {
		http.Error(w, msg, status)
		return
	}
	template.ID = uuid.NewString()
	template.CreatedAt = handler.now()

	if err := handler.repo.Add(ctx, template); err != nil {
		if errors.Is(err, exercises.ErrExerciseNotFound) {
			http.Error(w, "error, unknown exercise", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add template [%s]: %s", template.Name, err)
		http.Error(w, "error, failed to add template", http.StatusInternalServerError)
		return
	}

	log.Debugf("new template added: %s", template.ID)
	pkg.WriteJSON(w, http.StatusCreated, template)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}

	template, status, msg := handler.templateFromRequest(ctx, r, userID)
	if status != 0 {
		http.Error(w, msg, status)
		return
	}
	template.ID = id

	if err := handler.repo.Update(ctx, template); err != nil {
		switch {
		case errors.Is(err, ErrTemplateNotFound):
			http.Error(w, "template not found", http.StatusNotFound)
		case errors.Is(err, exercises.ErrExerciseNotFound):
			http.Error(w, "error, unknown exercise", http.StatusBadRequest)
		default:
			log.Errorf("failed to update template %s: %s", id, err)
			http.Error(w, "error, failed to update template", http.StatusInternalServerError)
		}
		return
	}

	updated, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		log.Errorf("failed to reload template %s: %s", id, err)
		http.Error(w, "failed to get template", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, updated)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete template %s: %s", id, err)
		http.Error(w, "failed to delete template", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, DeleteTemplateResponse{DeletedID: id})
}

// templateFromRequest validates the body and resolves every exercise, returning a non-zero status on failure.
func (handler *Handler) templateFromRequest(ctx context.Context, r *http.Request, userID string) (Template, int, string) {
	var req SaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("save template, unmarshal json params: %s", err)
		return Template{}, http.StatusBadRequest, "save template failed"
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Template{}, http.StatusBadRequest, "error, template name empty"
	}

	template := Template{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Exercises:   make([]TemplateExercise, 0, len(req.Exercises)),
	}
	for i, te := range req.Exercises {
		if te.TargetSets < 0 || te.TargetSets > maxTargetSets || te.TargetReps < 0 || te.TargetReps > maxTargetReps {
			return Template{}, http.StatusBadRequest, "error, invalid targets"
		}
		if _, err := uuid.Parse(te.ExerciseID); err != nil {
			return Template{}, http.StatusBadRequest, "error, unknown exercise"
		}
		exercise, err := handler.exercises.Get(ctx, userID, te.ExerciseID)
		if err != nil {
			if errors.Is(err, exercises.ErrExerciseNotFound) {
				return Template{}, http.StatusBadRequest, "error, unknown exercise"
			}
			log.Errorf("save template, get exercise %s: %s", te.ExerciseID, err)
			return Template{}, http.StatusInternalServerError, "error, failed to save template"
		}
		template.Exercises = append(template.Exercises, TemplateExercise{
			ID:           uuid.NewString(),
			ExerciseID:   exercise.ID,
			ExerciseName: exercise.Name,
			MuscleGroup:  exercise.MuscleGroup,
			Position:     i + 1,
			TargetSets:   te.TargetSets,
			TargetReps:   te.TargetReps,
		})
	}

	return template, 0, ""
}
