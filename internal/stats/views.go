package stats

import (
	"sort"
	"time"

	"github.com/mesut7942/my-gym-log/internal/exercises"
	"github.com/mesut7942/my-gym-log/internal/units"
	"github.com/mesut7942/my-gym-log/internal/workouts"
)

const recentWorkoutsLimit = 5

type WorkoutSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	StartedAt       time.Time `json:"startedAt"`
	CompletedAt     time.Time `json:"completedAt"`
	DurationSeconds int       `json:"durationSeconds"`
	Exercises       int       `json:"exercises"`
	Sets            int       `json:"sets"`
	VolumeKg        float64   `json:"volumeKg"`
	Volume          string    `json:"volume,omitempty"`
}

type Dashboard struct {
	Streak           int              `json:"streak"`
	WorkoutsThisWeek int              `json:"workoutsThisWeek"`
	TotalWorkouts    int              `json:"totalWorkouts"`
	Recent           []WorkoutSummary `json:"recent"`
}

type History struct {
	Workouts []WorkoutSummary `json:"workouts"`
	Total    int              `json:"total"`
}

type Progress struct {
	WeeklyVolume     []VolumePoint    `json:"weeklyVolume"`
	MonthlyFrequency []DayCount       `json:"monthlyFrequency"`
	PersonalRecords  []PersonalRecord `json:"personalRecords"`
}

type ExerciseDetails struct {
	Exercise exercises.Exercise `json:"exercise"`
	Progress ExerciseProgress   `json:"progress"`
}

type Profile struct {
	DisplayName   string     `json:"displayName"`
	Email         string     `json:"email"`
	MemberSince   *time.Time `json:"memberSince"`
	TotalWorkouts int        `json:"totalWorkouts"`
	TotalSets     int        `json:"totalSets"`
	TotalVolumeKg float64    `json:"totalVolumeKg"`
	TotalVolume   string     `json:"totalVolume,omitempty"`
	Streak        int        `json:"streak"`
}

func EmptyDashboard() Dashboard {
	return Dashboard{Recent: []WorkoutSummary{}}
}

func EmptyHistory() History {
	return History{Workouts: []WorkoutSummary{}}
}

func EmptyProgress() Progress {
	return Progress{
		WeeklyVolume:     []VolumePoint{},
		MonthlyFrequency: []DayCount{},
		PersonalRecords:  []PersonalRecord{},
	}
}

func Summarize(w workouts.Workout) WorkoutSummary {
	summary := WorkoutSummary{
		ID:        w.ID,
		Name:      w.Name,
		StartedAt: w.StartedAt,
		Exercises: len(w.Entries),
		Sets:      w.SetCount(),
		VolumeKg:  w.Volume(),
	}
	if w.CompletedAt != nil {
		summary.CompletedAt = *w.CompletedAt
	}
	if w.DurationSeconds != nil {
		summary.DurationSeconds = *w.DurationSeconds
	}
	return summary
}

// summarizeRecent returns summaries of completed workouts, most recently completed first.
func summarizeRecent(ws []workouts.Workout, limit int) []WorkoutSummary {
	done := completed(ws)
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].CompletedAt.After(*done[j].CompletedAt)
	})
	if limit > 0 && len(done) > limit {
		done = done[:limit]
	}

	summaries := make([]WorkoutSummary, 0, len(done))
	for _, w := range done {
		summaries = append(summaries, Summarize(w))
	}
	return summaries
}

func BuildDashboard(ws []workouts.Workout, now time.Time) Dashboard {
	loc := now.Location()
	today := day(now, loc)
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))

	dashboard := Dashboard{
		Streak: Streak(ws, now),
		Recent: summarizeRecent(ws, recentWorkoutsLimit),
	}
	for _, w := range completed(ws) {
		dashboard.TotalWorkouts++
		if !w.CompletedAt.In(loc).Before(weekStart) {
			dashboard.WorkoutsThisWeek++
		}
	}
	return dashboard
}

func BuildHistory(ws []workouts.Workout) History {
	summaries := summarizeRecent(ws, 0)
	return History{
		Workouts: summaries,
		Total:    len(summaries),
	}
}

func BuildProgress(ws []workouts.Workout, now time.Time) Progress {
	return Progress{
		WeeklyVolume:     WeeklyVolume(ws, now),
		MonthlyFrequency: MonthlyFrequency(ws, now),
		PersonalRecords:  PersonalRecords(ws),
	}
}

func BuildProfile(ws []workouts.Workout, now time.Time) Profile {
	profile := Profile{
		Streak: Streak(ws, now),
	}
	for _, w := range completed(ws) {
		profile.TotalWorkouts++
		profile.TotalSets += w.SetCount()
		profile.TotalVolumeKg += w.Volume()
	}
	return profile
}

func summariesWithUnit(summaries []WorkoutSummary, c units.Converter) []WorkoutSummary {
	converted := make([]WorkoutSummary, len(summaries))
	for i, s := range summaries {
		s.Volume = c.Format(s.VolumeKg)
		converted[i] = s
	}
	return converted
}

func (d Dashboard) WithUnit(c units.Converter) Dashboard {
	d.Recent = summariesWithUnit(d.Recent, c)
	return d
}

func (h History) WithUnit(c units.Converter) History {
	h.Workouts = summariesWithUnit(h.Workouts, c)
	return h
}

func (p Progress) WithUnit(c units.Converter) Progress {
	weekly := make([]VolumePoint, len(p.WeeklyVolume))
	for i, point := range p.WeeklyVolume {
		point.Volume = c.Format(point.VolumeKg)
		weekly[i] = point
	}
	records := make([]PersonalRecord, len(p.PersonalRecords))
	for i, pr := range p.PersonalRecords {
		pr.Weight = c.Format(pr.WeightKg)
		records[i] = pr
	}
	p.WeeklyVolume = weekly
	p.PersonalRecords = records
	return p
}

func (ep ExerciseProgress) WithUnit(c units.Converter) ExerciseProgress {
	history := make([]ExerciseSession, len(ep.History))
	for i, session := range ep.History {
		session.MaxWeight = c.Format(session.MaxWeightKg)
		session.Volume = c.Format(session.VolumeKg)
		history[i] = session
	}
	ep.MaxWeight = c.Format(ep.MaxWeightKg)
	ep.History = history
	return ep
}

func (ed ExerciseDetails) WithUnit(c units.Converter) ExerciseDetails {
	ed.Progress = ed.Progress.WithUnit(c)
	return ed
}

func (p Profile) WithUnit(c units.Converter) Profile {
	p.TotalVolume = c.Format(p.TotalVolumeKg)
	return p
}
