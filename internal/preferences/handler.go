package preferences

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"
	"github.com/mesut7942/my-gym-log/internal/units"
	"github.com/mesut7942/my-gym-log/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=preferences_test

type store interface {
	Get(ctx context.Context, deviceID string) (Preferences, error)
	Put(ctx context.Context, deviceID string, prefs Preferences) error
}

type Handler struct {
	store store
}

func NewHandler(store store) *Handler {
	return &Handler{
		store: store,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/preferences", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-preferences")
	mainRouter.HandleFunc("/preferences", handler.HandlePut).Methods("PUT", "OPTIONS").Name("put-preferences")
}

func deviceID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(DeviceIDHeader))
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "preferencesHandler.get")
	defer span.End()

	device := deviceID(r)
	if device == "" {
		http.Error(w, "missing device id", http.StatusBadRequest)
		return
	}

	prefs, err := handler.store.Get(ctx, device)
	if err != nil {
		// unreadable preferences fall back to the defaults
		log.Errorf("get preferences for device %s: %s", device, err)
	}

	pkg.WriteJSON(w, http.StatusOK, prefs)
}

func (handler *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "preferencesHandler.put")
	defer span.End()

	device := deviceID(r)
	if device == "" {
		http.Error(w, "missing device id", http.StatusBadRequest)
		return
	}

	var update Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Errorf("update preferences, unmarshal json: %s", err)
		http.Error(w, "invalid preferences", http.StatusBadRequest)
		return
	}

	current, err := handler.store.Get(ctx, device)
	if err != nil {
		log.Errorf("update preferences, get current for device %s: %s", device, err)
		http.Error(w, "failed to update preferences", http.StatusInternalServerError)
		return
	}

	updated := current.Apply(update)
	if err := handler.store.Put(ctx, device, updated); err != nil {
		log.Errorf("update preferences for device %s: %s", device, err)
		http.Error(w, "failed to update preferences", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, updated)
}

// Resolver picks the unit converter for a request: the "unit" query param wins,
// then the device preferences, then kilograms.
type Resolver struct {
	store store
}

func NewResolver(store store) *Resolver {
	return &Resolver{
		store: store,
	}
}

func (res *Resolver) Converter(r *http.Request) units.Converter {
	if unit := r.URL.Query().Get("unit"); unit != "" {
		return units.NewConverter(units.Unit(unit))
	}

	device := deviceID(r)
	if device == "" || res.store == nil {
		return units.NewConverter(units.Kilograms)
	}

	prefs, err := res.store.Get(r.Context(), device)
	if err != nil {
		log.Errorf("resolve unit for device %s: %s", device, err)
		return units.NewConverter(units.Kilograms)
	}
	return prefs.Converter()
}
