package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesut7942/my-gym-log/internal/exercises"
	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"
	"github.com/mesut7942/my-gym-log/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrTemplateNotFound = errors.New("template not found")

const selectTemplatesSQL = `
	SELECT
		t.id, t.user_id, t.name, t.description, t.created_at,
		te.id, te.position, te.target_sets, te.target_reps,
		e.id, e.name, e.muscle_group
	FROM template t
	LEFT JOIN template_exercise te ON te.template_id = t.id
	LEFT JOIN exercise e ON e.id = te.exercise_id
`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, template Template) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", template.ID))

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO template (id, user_id, name, description, created_at)
			VALUES ($1, $2, $3, $4, $5);`,
			template.ID, template.UserID, template.Name, template.Description, template.CreatedAt,
		); err != nil {
			return err
		}
		return insertTemplateExercises(ctx, tx, template)
	})
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return exercises.ErrExerciseNotFound
		}
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func insertTemplateExercises(ctx context.Context, tx pgx.Tx, template Template) error {
	for _, te := range template.Exercises {
		if _, err := tx.Exec(ctx, `
			INSERT INTO template_exercise (id, template_id, exercise_id, position, target_sets, target_reps)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			te.ID, template.ID, te.ExerciseID, te.Position, te.TargetSets, te.TargetReps,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, id string) (_ *Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", id))

	rows, err := r.db.Query(ctx, selectTemplatesSQL+`
		WHERE t.id = $1 AND t.user_id = $2
		ORDER BY te.position;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}

	templates, err := collectTemplates(rows)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, ErrTemplateNotFound
	}
	return &templates[0], nil
}

func (r *Repo) List(ctx context.Context, userID string) (_ []Template, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, selectTemplatesSQL+`
		WHERE t.user_id = $1
		ORDER BY t.name, t.id, te.position;`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	templates, err := collectTemplates(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("templates.count", len(templates)))
	return templates, nil
}

// Update replaces name, description and the whole exercise list of the template.
func (r *Repo) Update(ctx context.Context, template Template) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", template.ID))

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE template SET name = $1, description = $2
			WHERE id = $3 AND user_id = $4;`,
			template.Name, template.Description, template.ID, template.UserID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrTemplateNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM template_exercise WHERE template_id = $1;`, template.ID); err != nil {
			return err
		}
		return insertTemplateExercises(ctx, tx, template)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrTemplateNotFound):
			return err
		case pkg.IsForeignKeyViolationError(err):
			return exercises.ErrExerciseNotFound
		}
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("template.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM template WHERE id = $1 AND user_id = $2;`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func collectTemplates(rows pgx.Rows) ([]Template, error) {
	defer rows.Close()

	templates := make([]Template, 0)
	templateIdx := make(map[string]int)

	for rows.Next() {
		var (
			t           Template
			teID        *string
			position    *int
			targetSets  *int
			targetReps  *int
			exerciseID  *string
			exName      *string
			muscleGroup *string
		)
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Name, &t.Description, &t.CreatedAt,
			&teID, &position, &targetSets, &targetReps,
			&exerciseID, &exName, &muscleGroup,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		ti, ok := templateIdx[t.ID]
		if !ok {
			t.Exercises = []TemplateExercise{}
			templates = append(templates, t)
			ti = len(templates) - 1
			templateIdx[t.ID] = ti
		}
		if teID == nil {
			continue
		}

		te := TemplateExercise{ID: *teID}
		if position != nil {
			te.Position = *position
		}
		if targetSets != nil {
			te.TargetSets = *targetSets
		}
		if targetReps != nil {
			te.TargetReps = *targetReps
		}
		if exerciseID != nil {
			te.ExerciseID = *exerciseID
		}
		if exName != nil {
			te.ExerciseName = *exName
		}
		if muscleGroup != nil {
			te.MuscleGroup = exercises.MuscleGroup(*muscleGroup)
		}
		templates[ti].Exercises = append(templates[ti].Exercises, te)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}
