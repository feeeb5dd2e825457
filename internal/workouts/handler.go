package workouts

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mesut7942/my-gym-log/internal/auth"
	"github.com/mesut7942/my-gym-log/internal/exercises"
	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"
	"github.com/mesut7942/my-gym-log/internal/templates"
	"github.com/mesut7942/my-gym-log/internal/units"
	"github.com/mesut7942/my-gym-log/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const elapsedTickInterval = time.Second

type converterResolver interface {
	Converter(r *http.Request) units.Converter
}

type StartWorkoutRequest struct {
	Name       string  `json:"name"`
	TemplateID *string `json:"templateId"`
}

type AddExerciseRequest struct {
	ExerciseID string `json:"exerciseId"`
}

// UpdateSetRequest carries the weight in the caller's display unit.
type UpdateSetRequest struct {
	Weight    *float64 `json:"weight"`
	Reps      *int     `json:"reps"`
	RPE       *float64 `json:"rpe"`
	Completed *bool    `json:"completed"`
}

type SetView struct {
	Set
	Weight string `json:"weight,omitempty"`
}

type EntryView struct {
	Entry
	Sets     []SetView `json:"sets"`
	VolumeKg float64   `json:"volumeKg"`
	Volume   string    `json:"volume"`
}

type WorkoutView struct {
	Workout
	Entries        []EntryView `json:"entries"`
	Unit           units.Unit  `json:"unit"`
	VolumeKg       float64     `json:"volumeKg"`
	Volume         string      `json:"volume"`
	ElapsedSeconds int         `json:"elapsedSeconds"`
}

type CancelWorkoutResponse struct {
	CanceledID string `json:"canceledId"`
}

type ElapsedMessage struct {
	ElapsedSeconds int  `json:"elapsedSeconds"`
	Completed      bool `json:"completed"`
}

func NewWorkoutView(w Workout, converter units.Converter, now time.Time) WorkoutView {
	view := WorkoutView{
		Workout:        w,
		Entries:        make([]EntryView, 0, len(w.Entries)),
		Unit:           converter.Unit,
		VolumeKg:       w.Volume(),
		Volume:         converter.Format(w.Volume()),
		ElapsedSeconds: int(Elapsed(w, now).Seconds()),
	}
	for _, entry := range w.Entries {
		ev := EntryView{
			Entry:    entry,
			Sets:     make([]SetView, 0, len(entry.Sets)),
			VolumeKg: entry.Volume(),
			Volume:   converter.Format(entry.Volume()),
		}
		for _, set := range entry.Sets {
			sv := SetView{Set: set}
			if set.WeightKg != nil {
				sv.Weight = converter.Format(*set.WeightKg)
			}
			ev.Sets = append(ev.Sets, sv)
		}
		view.Entries = append(view.Entries, ev)
	}
	return view
}

type Handler struct {
	editor   *Editor
	resolver converterResolver
	now      func() time.Time
}

func NewHandler(editor *Editor, resolver converterResolver) *Handler {
	return &Handler{
		editor:   editor,
		resolver: resolver,
		now:      time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/workouts", handler.HandleStart).Methods("POST", "OPTIONS").Name("start-workout")
	router.HandleFunc("/workouts/active", handler.HandleActive).Methods("GET", "OPTIONS").Name("active-workout")
	router.HandleFunc("/workouts/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	router.HandleFunc("/workouts/{id}", handler.HandleCancel).Methods("DELETE", "OPTIONS").Name("cancel-workout")
	router.HandleFunc("/workouts/{id}/finish", handler.HandleFinish).Methods("POST", "OPTIONS").Name("finish-workout")
	router.HandleFunc("/workouts/{id}/elapsed", handler.HandleElapsed).Methods("GET", "OPTIONS").Name("workout-elapsed")
	router.HandleFunc("/workouts/{id}/exercises", handler.HandleAddExercise).Methods("POST", "OPTIONS").Name("add-workout-exercise")
	router.HandleFunc("/workouts/{id}/exercises/{entryId}", handler.HandleRemoveExercise).Methods("DELETE", "OPTIONS").Name("remove-workout-exercise")
	router.HandleFunc("/workouts/{id}/exercises/{entryId}/sets", handler.HandleAddSet).Methods("POST", "OPTIONS").Name("add-set")
	router.HandleFunc("/workouts/{id}/sets/{setId}", handler.HandleUpdateSet).Methods("PUT", "OPTIONS").Name("update-set")
	router.HandleFunc("/workouts/{id}/sets/{setId}", handler.HandleRemoveSet).Methods("DELETE", "OPTIONS").Name("remove-set")
	router.HandleFunc("/workouts/{id}/sets/{setId}/toggle", handler.HandleToggleSet).Methods("POST", "OPTIONS").Name("toggle-set")
}

func (handler *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.start")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req StartWorkoutRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Tracef("start workout, unmarshal json params: %s", err)
			http.Error(w, "start workout failed", http.StatusBadRequest)
			return
		}
	}
	if req.TemplateID != nil {
		if _, err := uuid.Parse(*req.TemplateID); err != nil {
			http.Error(w, "template not found", http.StatusNotFound)
			return
		}
	}

	workout, err := handler.editor.Start(ctx, userID, req.Name, req.TemplateID)
	if err != nil {
		handler.writeError(w, err, "start workout")
		return
	}

	log.Debugf("workout %s started by %s", workout.ID, userID)
	handler.writeWorkout(w, r, http.StatusCreated, workout)
}

func (handler *Handler) HandleActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.active")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	workout, err := handler.editor.Active(ctx, userID)
	if err != nil {
		handler.writeError(w, err, "get active workout")
		return
	}
	handler.writeWorkout(w, r, http.StatusOK, workout)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	userID, workoutID, ok := handler.workoutParams(w, r)
	if !ok {
		return
	}

	workout, err := handler.editor.Get(ctx, userID, workoutID)
	if err != nil {
		handler.writeError(w, err, "get workout")
		return
	}
	handler.writeWorkout(w, r, http.StatusOK, workout)
}

func (handler *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.finish")
	defer span.End()

	userID, workoutID, ok := handler.workoutParams(w, r)
	if !ok {
		return
	}

	workout, err := handler.editor.Finish(ctx, userID, workoutID)
	if err != nil {
		handler.writeError(w, err, "finish workout")
		return
	}

	log.Debugf("workout %s finished", workoutID)
	handler.writeWorkout(w, r, http.StatusOK, workout)
}

func (handler *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.cancel")
	defer span.End()

	userID, workoutID, ok := handler.workoutParams(w, r)
	if !ok {
		return
	}
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	if err := handler.editor.Cancel(ctx, userID, workoutID, confirm); err != nil {
		handler.writeError(w, err, "cancel workout")
		return
	}

	log.Debugf("workout %s canceled", workoutID)
	pkg.WriteJSON(w, http.StatusOK, CancelWorkoutResponse{CanceledID: workoutID})
}

// HandleElapsed streams the elapsed seconds of the workout as server-sent events, once per second,
// until the client goes away. A completed workout gets a single message.
func (handler *Handler) HandleElapsed(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.elapsed")
	defer span.End()

	userID, workoutID, ok := handler.workoutParams(w, r)
	if !ok {
		return
	}

	workout, err := handler.editor.Get(ctx, userID, workoutID)
	if err != nil {
		handler.writeError(w, err, "get workout")
		return
	}

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", pkg.ContentType.EventStream)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(msg ElapsedMessage) error {
		data, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	if workout.IsCompleted() {
		if err := send(ElapsedMessage{
			ElapsedSeconds: int(Elapsed(*workout, handler.now()).Seconds()),
			Completed:      true,
		}); err != nil {
			log.Errorf("elapsed stream for workout %s: %s", workoutID, err)
		}
		return
	}

	err = Tick(ctx, workout.StartedAt, elapsedTickInterval, func(elapsed time.Duration) error {
		return send(ElapsedMessage{ElapsedSeconds: int(elapsed.Seconds())})
	})
	if err != nil {
		log.Tracef("elapsed stream for workout %s ended: %s", workoutID, err)
	}
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.addExercise")
	defer span.End()

	userID, workoutID, ok := handler.workoutParams(w, r)
	if !ok {
		return
	}

	var req AddExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("add workout exercise, unmarshal json params: %s", err)
		http.Error(w, "add exercise failed", http.StatusBadRequest)
		return
	}
	if _, err := uuid.Parse(req.ExerciseID); err != nil {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}

	workout, err := handler.editor.AddExercise(ctx, userID, workoutID, req.ExerciseID)
	if err != nil {
		handler.writeError(w, err, "add exercise")
		return
	}
	handler.writeWorkout(w, r, http.StatusOK, workout)
}

func (handler *Handler) HandleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.removeExercise")
	defer span.End()

	userID, workoutID, ok := handler.workoutParams(w, r)
	if !ok {
		return
	}

	workout, err := handler.editor.RemoveExercise(ctx, userID, workoutID, mux.Vars(r)["entryId"])
	if err != nil {
		handler.writeError(w, err, "remove exercise")
		return
	}
	handler.writeWorkout(w, r, http.StatusOK, workout)
}

func (handler *Handler) HandleAddSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.addSet")
	defer span.End()

	userID, workoutID, ok := handler.workoutParams(w, r)
	if !ok {
		return
	}

	workout, err := handler.editor.AddSet(ctx, userID, workoutID, mux.Vars(r)["entryId"])
	if err != nil {
		handler.writeError(w, err, "add set")
		return
	}
	handler.writeWorkout(w, r, http.StatusOK, workout)
}

func (handler *Handler) HandleUpdateSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.updateSet")
	defer span.End()

	userID, workoutID, ok := handler.workoutParams(w, r)
	if !ok {
		return
	}

	var req UpdateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("update set, unmarshal json params: %s", err)
		http.Error(w, "update set failed", http.StatusBadRequest)
		return
	}

	converter := handler.resolver.Converter(r)
	workout, err := handler.editor.UpdateSet(ctx, userID, workoutID, mux.Vars(r)["setId"], SetUpdate{
		Weight:    req.Weight,
		Unit:      converter.Unit,
		Reps:      req.Reps,
		RPE:       req.RPE,
		Completed: req.Completed,
	})
	if err != nil {
		handler.writeError(w, err, "update set")
		return
	}
	handler.writeWorkoutWith(w, converter, http.StatusOK, workout)
}

func (handler *Handler) HandleRemoveSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.removeSet")
	defer span.End()

	userID, workoutID, ok := handler.workoutParams(w, r)
	if !ok {
		return
	}

	workout, err := handler.editor.RemoveSet(ctx, userID, workoutID, mux.Vars(r)["setId"])
	if err != nil {
		handler.writeError(w, err, "remove set")
		return
	}
	handler.writeWorkout(w, r, http.StatusOK, workout)
}

func (handler *Handler) HandleToggleSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.toggleSet")
	defer span.End()

	userID, workoutID, ok := handler.workoutParams(w, r)
	if !ok {
		return
	}

	workout, err := handler.editor.ToggleSet(ctx, userID, workoutID, mux.Vars(r)["setId"])
	if err != nil {
		handler.writeError(w, err, "toggle set")
		return
	}
	handler.writeWorkout(w, r, http.StatusOK, workout)
}

func (handler *Handler) workoutParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return "", "", false
	}
	workoutID := mux.Vars(r)["id"]
	if _, err := uuid.Parse(workoutID); err != nil {
		http.Error(w, "workout not found", http.StatusNotFound)
		return "", "", false
	}
	return userID, workoutID, true
}

func (handler *Handler) writeWorkout(w http.ResponseWriter, r *http.Request, status int, workout *Workout) {
	handler.writeWorkoutWith(w, handler.resolver.Converter(r), status, workout)
}

func (handler *Handler) writeWorkoutWith(w http.ResponseWriter, converter units.Converter, status int, workout *Workout) {
	pkg.WriteJSON(w, status, NewWorkoutView(*workout, converter, handler.now()))
}

func (handler *Handler) writeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, ErrWorkoutNotFound),
		errors.Is(err, ErrEntryNotFound),
		errors.Is(err, ErrSetNotFound),
		errors.Is(err, exercises.ErrExerciseNotFound),
		errors.Is(err, templates.ErrTemplateNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrWorkoutNotInProgress),
		errors.Is(err, ErrWorkoutAlreadyActive):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrCancelNotConfirmed),
		errors.Is(err, ErrInvalidRPE),
		errors.Is(err, ErrInvalidSetValue):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("failed to %s: %s", action, err)
		http.Error(w, "failed to "+action, http.StatusInternalServerError)
	}
}
