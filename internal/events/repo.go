package events

import (
	"context"
	"fmt"
	"time"

	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type EventParams struct {
	UserID string
	Type   *EventType
	From   *time.Time
	To     *time.Time
}

type ListParams struct {
	EventParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, event Event) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("type", event.Type.String()))

	var workoutID *string
	if event.WorkoutID != "" {
		workoutID = &event.WorkoutID
	}
	if event.Data == nil {
		event.Data = map[string]string{}
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO gymlog_event (user_id, workout_id, type, data, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;`,
		event.UserID, workoutID, event.Type, event.Data, event.Timestamp,
	).Scan(&event.ID)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return &event, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	var eventType *string
	if params.Type != nil {
		t := params.Type.String()
		eventType = &t
		span.SetAttributes(attribute.String("type", t))
	}
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, COALESCE(workout_id::text, ''), type, data, timestamp
		FROM gymlog_event
		WHERE user_id = $1
		  AND ($2::text IS NULL OR type = $2)
		  AND ($3::timestamptz IS NULL OR timestamp >= $3)
		  AND ($4::timestamptz IS NULL OR timestamp <= $4)
		ORDER BY timestamp DESC, id DESC
		LIMIT $5 OFFSET $6;`,
		params.UserID, eventType,
		params.From, params.To,
		params.Size, params.Size*params.Page,
	)
	if err != nil {
		return nil, err
	}

	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Event, error) {
		var (
			event     Event
			eventType string
		)
		err := row.Scan(&event.ID, &event.UserID, &event.WorkoutID, &eventType, &event.Data, &event.Timestamp)
		event.Type = EventType(eventType)
		return event, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect events: %w", err)
	}
	return events, nil
}

func (r *Repo) Count(ctx context.Context, params EventParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.events.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	var eventType *string
	if params.Type != nil {
		t := params.Type.String()
		eventType = &t
	}

	var count int
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM gymlog_event
		WHERE user_id = $1
		  AND ($2::text IS NULL OR type = $2)
		  AND ($3::timestamptz IS NULL OR timestamp >= $3)
		  AND ($4::timestamptz IS NULL OR timestamp <= $4);`,
		params.UserID, eventType, params.From, params.To,
	).Scan(&count)
	if err != nil {
		return -1, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
