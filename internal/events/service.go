package events

import (
	"context"
	"fmt"

	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=events_test

type eventsRepo interface {
	Add(ctx context.Context, event Event) (*Event, error)
	List(ctx context.Context, params ListParams) ([]Event, error)
	Count(ctx context.Context, params EventParams) (int, error)
}

type Service struct {
	repo      eventsRepo
	publisher Publisher
}

func NewService(repo eventsRepo, publisher Publisher) *Service {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
	}
}

// Record stores the event, then publishes it. A failed publish is logged only,
// the stored event is the source of truth.
func (s *Service) Record(ctx context.Context, event Event) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("type", event.Type.String()))

	if !event.Type.IsValid() {
		return nil, fmt.Errorf("invalid event type: %s", event.Type)
	}

	stored, err := s.repo.Add(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("add %s event: %w", event.Type, err)
	}

	if err := s.publisher.Publish(ctx, *stored); err != nil {
		log.Errorf("publish %s event %d: %s", stored.Type, stored.ID, err)
	}

	return stored, nil
}

func (s *Service) List(ctx context.Context, params ListParams) (_ []Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	events, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *Service) Count(ctx context.Context, params EventParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.events.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	count, err := s.repo.Count(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
