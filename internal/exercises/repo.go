package exercises

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"
	"github.com/mesut7942/my-gym-log/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrExerciseExists   = errors.New("exercise with that name already exists")
	ErrExerciseInUse    = errors.New("exercise is used by workouts or templates")
)

type ListParams struct {
	UserID      string
	MuscleGroup *MuscleGroup
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exercise.ID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO exercise (id, name, muscle_group, description, is_custom, owner_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		exercise.ID, exercise.Name, exercise.MuscleGroup, exercise.Description,
		exercise.IsCustom, exercise.OwnerID, exercise.CreatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrExerciseExists
		}
		return nil, fmt.Errorf("insert exercise: %w", err)
	}

	return &exercise, nil
}

// Get returns a built-in exercise, or a custom one owned by userID.
func (r *Repo) Get(ctx context.Context, userID, id string) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, muscle_group, description, is_custom, owner_id, created_at
			FROM exercise
			WHERE id = $1 AND (owner_id IS NULL OR owner_id = $2);`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}

	exercise, err := pgx.CollectExactlyOneRow(rows, scanExercise)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	var muscleGroup *string
	if params.MuscleGroup != nil {
		mg := string(*params.MuscleGroup)
		muscleGroup = &mg
		span.SetAttributes(attribute.String("muscle_group", mg))
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, muscle_group, description, is_custom, owner_id, created_at
			FROM exercise
			WHERE (owner_id IS NULL OR owner_id = $1)
			  AND ($2::text IS NULL OR muscle_group = $2)
			ORDER BY muscle_group, name;`,
		params.UserID, muscleGroup,
	)
	if err != nil {
		return nil, err
	}

	exercises, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Exercise, error) {
		e, err := scanExercise(row)
		if err != nil {
			return Exercise{}, err
		}
		return *e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect exercises: %w", err)
	}
	return exercises, nil
}

// Delete removes a custom exercise of the user. Built-in exercises are never deleted.
func (r *Repo) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM exercise WHERE id = $1 AND owner_id = $2 AND is_custom;`,
		id, userID,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrExerciseInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func scanExercise(row pgx.CollectableRow) (*Exercise, error) {
	e := &Exercise{}
	var muscleGroup string
	if err := row.Scan(
		&e.ID, &e.Name, &muscleGroup, &e.Description, &e.IsCustom, &e.OwnerID, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.MuscleGroup = MuscleGroup(muscleGroup)
	return e, nil
}
