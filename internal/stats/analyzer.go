package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mesut7942/my-gym-log/internal/auth"
	"github.com/mesut7942/my-gym-log/internal/exercises"
	"github.com/mesut7942/my-gym-log/internal/telemetry/metrics"
	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"
	"github.com/mesut7942/my-gym-log/internal/workouts"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=stats_test

type workoutsReader interface {
	ListCompleted(ctx context.Context, userID string) ([]workouts.Workout, error)
	ListPerformedEntries(ctx context.Context, userID, exerciseID string) ([]workouts.PerformedEntry, error)
}

type exerciseLookup interface {
	Get(ctx context.Context, userID, id string) (*exercises.Exercise, error)
}

type usersReader interface {
	Get(ctx context.Context, id string) (*auth.User, error)
}

type viewCache interface {
	Get(userID, view string) ([]byte, uint64, bool)
	Set(userID, view string, gen uint64, value []byte)
}

// Analyzer fetches the rows behind each stats view and runs them through the aggregations.
// Results are kept in the view cache, in kilograms, until the user writes again.
type Analyzer struct {
	workouts       workoutsReader
	exercises      exerciseLookup
	users          usersReader
	cache          viewCache
	metricsManager *metrics.Manager
	loc            *time.Location
}

type NewAnalyzerParams struct {
	Workouts       workoutsReader
	Exercises      exerciseLookup
	Users          usersReader
	Cache          viewCache
	MetricsManager *metrics.Manager
	Location       *time.Location
}

func NewAnalyzer(params NewAnalyzerParams) *Analyzer {
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Analyzer{
		workouts:       params.Workouts,
		exercises:      params.Exercises,
		users:          params.Users,
		cache:          params.Cache,
		metricsManager: params.MetricsManager,
		loc:            loc,
	}
}

func (a *Analyzer) Dashboard(ctx context.Context, userID string, now time.Time) (_ Dashboard, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.dashboard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now = now.In(a.loc)
	return cached(a, userID, "dashboard|"+now.Format(dayLayout), func() (Dashboard, error) {
		ws, err := a.workouts.ListCompleted(ctx, userID)
		if err != nil {
			return Dashboard{}, err
		}
		return BuildDashboard(ws, now), nil
	})
}

func (a *Analyzer) History(ctx context.Context, userID string) (_ History, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.history")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return cached(a, userID, "history", func() (History, error) {
		ws, err := a.workouts.ListCompleted(ctx, userID)
		if err != nil {
			return History{}, err
		}
		return BuildHistory(ws), nil
	})
}

func (a *Analyzer) Progress(ctx context.Context, userID string, now time.Time) (_ Progress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.progress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now = now.In(a.loc)
	return cached(a, userID, "progress|"+now.Format(dayLayout), func() (Progress, error) {
		ws, err := a.workouts.ListCompleted(ctx, userID)
		if err != nil {
			return Progress{}, err
		}
		return BuildProgress(ws, now), nil
	})
}

// ExerciseDetails returns exercises.ErrExerciseNotFound for an unknown or foreign exercise.
func (a *Analyzer) ExerciseDetails(ctx context.Context, userID, exerciseID string) (_ ExerciseDetails, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.exerciseDetails")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	return cached(a, userID, "exercise|"+exerciseID, func() (ExerciseDetails, error) {
		exercise, err := a.exercises.Get(ctx, userID, exerciseID)
		if err != nil {
			return ExerciseDetails{}, err
		}
		entries, err := a.workouts.ListPerformedEntries(ctx, userID, exerciseID)
		if err != nil {
			return ExerciseDetails{}, err
		}
		for i := range entries {
			entries[i].CompletedAt = entries[i].CompletedAt.In(a.loc)
		}
		return ExerciseDetails{
			Exercise: *exercise,
			Progress: ExerciseHistory(entries),
		}, nil
	})
}

func (a *Analyzer) Profile(ctx context.Context, userID string, now time.Time) (_ Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.profile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now = now.In(a.loc)
	return cached(a, userID, "profile|"+now.Format(dayLayout), func() (Profile, error) {
		ws, err := a.workouts.ListCompleted(ctx, userID)
		if err != nil {
			return Profile{}, err
		}
		profile := BuildProfile(ws, now)

		user, err := a.users.Get(ctx, userID)
		if err != nil {
			return Profile{}, err
		}
		profile.DisplayName = user.DisplayName
		profile.Email = user.Email
		memberSince := user.CreatedAt
		profile.MemberSince = &memberSince

		return profile, nil
	})
}

// cached serves the view from the cache, or loads and stores it. Failed loads are never cached.
func cached[T any](a *Analyzer, userID, view string, load func() (T, error)) (T, error) {
	var gen uint64
	if a.cache != nil {
		var raw []byte
		var ok bool
		// the generation is read before load, a write during load makes this entry unreachable
		raw, gen, ok = a.cache.Get(userID, view)
		if ok {
			var v T
			err := json.Unmarshal(raw, &v)
			if err == nil {
				a.metricsManager.StatsCacheLookup(true)
				return v, nil
			}
			log.Errorf("unmarshal cached stats view %s: %s", view, err)
		}
		a.metricsManager.StatsCacheLookup(false)
	}

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	if a.cache != nil {
		if raw, err := json.Marshal(v); err != nil {
			log.Errorf("marshal stats view %s: %s", view, err)
		} else {
			a.cache.Set(userID, view, gen, raw)
		}
	}
	return v, nil
}
