package events

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mesut7942/my-gym-log/internal/auth"
	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"
	"github.com/mesut7942/my-gym-log/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListResponse struct {
	Events []Event `json:"events"`
	Total  int     `json:"total"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/events", h.HandleList).Methods("GET", "OPTIONS").Name("list-events")
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.events.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	params := ListParams{
		EventParams: EventParams{UserID: userID},
		Page:        0,
		Size:        defaultPageSize,
	}
	if typeParam := query.Get("type"); typeParam != "" {
		eventType := EventType(typeParam)
		if !eventType.IsValid() {
			http.Error(w, "error, invalid event type", http.StatusBadRequest)
			return
		}
		params.Type = &eventType
	}
	for name, target := range map[string]**time.Time{"from": &params.From, "to": &params.To} {
		if value := query.Get(name); value != "" {
			t, err := time.Parse(time.RFC3339, value)
			if err != nil {
				http.Error(w, "error, invalid "+name+" time", http.StatusBadRequest)
				return
			}
			*target = &t
		}
	}
	if pageParam := query.Get("page"); pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil || page < 0 {
			http.Error(w, "error, invalid page", http.StatusBadRequest)
			return
		}
		params.Page = page
	}
	if sizeParam := query.Get("size"); sizeParam != "" {
		size, err := strconv.Atoi(sizeParam)
		if err != nil || size <= 0 || size > maxPageSize {
			http.Error(w, "error, invalid size", http.StatusBadRequest)
			return
		}
		params.Size = size
	}

	events, err := h.service.List(ctx, params)
	if err != nil {
		log.Errorf("list events: %s", err)
		events = []Event{}
	}
	total, err := h.service.Count(ctx, params.EventParams)
	if err != nil {
		log.Errorf("count events: %s", err)
		total = len(events)
	}

	pkg.WriteJSON(w, http.StatusOK, ListResponse{
		Events: events,
		Total:  total,
	})
}
