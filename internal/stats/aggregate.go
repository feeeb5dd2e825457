package stats

import (
	"sort"
	"time"

	"github.com/mesut7942/my-gym-log/internal/workouts"
)

const (
	weeklyVolumeWindows  = 8
	personalRecordsLimit = 10
	exerciseHistoryLimit = 10

	weekLabelLayout = "Jan 2"
	dayLayout       = "2006-01-02"
)

type VolumePoint struct {
	Label    string  `json:"label"`
	VolumeKg float64 `json:"volumeKg"`
	Volume   string  `json:"volume,omitempty"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type PersonalRecord struct {
	ExerciseName string    `json:"exerciseName"`
	WeightKg     float64   `json:"weightKg"`
	Weight       string    `json:"weight,omitempty"`
	Date         time.Time `json:"date"`
}

type ExerciseSession struct {
	Date        string  `json:"date"`
	MaxWeightKg float64 `json:"maxWeightKg"`
	MaxWeight   string  `json:"maxWeight,omitempty"`
	VolumeKg    float64 `json:"volumeKg"`
	Volume      string  `json:"volume,omitempty"`
}

type ExerciseProgress struct {
	MaxWeightKg float64           `json:"maxWeightKg"`
	MaxWeight   string            `json:"maxWeight,omitempty"`
	TotalSets   int               `json:"totalSets"`
	Sessions    int               `json:"sessions"`
	History     []ExerciseSession `json:"history"`
}

// day returns midnight of t's calendar day in loc.
func day(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func completed(ws []workouts.Workout) []workouts.Workout {
	done := make([]workouts.Workout, 0, len(ws))
	for _, w := range ws {
		if w.CompletedAt != nil {
			done = append(done, w)
		}
	}
	return done
}

// Streak counts consecutive workout days going back from now. A workout today or
// yesterday starts the chain; a gap of two or more days ends it. Several workouts
// on the same day count once.
func Streak(ws []workouts.Workout, now time.Time) int {
	loc := now.Location()
	today := day(now, loc)

	seen := make(map[time.Time]bool)
	days := make([]time.Time, 0, len(ws))
	for _, w := range completed(ws) {
		d := day(*w.CompletedAt, loc)
		if d.After(today) || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].After(days[j])
	})

	streak := 0
	check := today
	for _, d := range days {
		if daysBetween(d, check) > 1 {
			break
		}
		streak++
		check = d
	}
	return streak
}

// WeeklyVolume splits the trailing 8 weeks into 7-day windows ending with today,
// drops the current one, and returns the other 7 oldest first.
func WeeklyVolume(ws []workouts.Workout, now time.Time) []VolumePoint {
	loc := now.Location()
	end := day(now, loc).AddDate(0, 0, 1)

	type window struct {
		from, to time.Time
		volume   float64
	}
	windows := make([]window, weeklyVolumeWindows)
	for i := range windows {
		windows[i] = window{
			from: end.AddDate(0, 0, -7*(weeklyVolumeWindows-i)),
			to:   end.AddDate(0, 0, -7*(weeklyVolumeWindows-i-1)),
		}
	}

	for _, w := range completed(ws) {
		at := w.CompletedAt.In(loc)
		for i := range windows {
			if !at.Before(windows[i].from) && at.Before(windows[i].to) {
				windows[i].volume += w.Volume()
				break
			}
		}
	}

	points := make([]VolumePoint, 0, weeklyVolumeWindows-1)
	for _, win := range windows[:weeklyVolumeWindows-1] {
		points = append(points, VolumePoint{
			Label:    win.from.Format(weekLabelLayout),
			VolumeKg: win.volume,
		})
	}
	return points
}

// MonthlyFrequency counts completed workouts per day from the 1st of the month through today.
func MonthlyFrequency(ws []workouts.Workout, now time.Time) []DayCount {
	loc := now.Location()
	today := day(now, loc)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)

	counts := make(map[string]int)
	for _, w := range completed(ws) {
		counts[day(*w.CompletedAt, loc).Format(dayLayout)]++
	}

	result := make([]DayCount, 0, today.Day())
	for d := first; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		result = append(result, DayCount{Date: key, Count: counts[key]})
	}
	return result
}

// PersonalRecords returns the heaviest set per exercise name. Equal weights keep the
// earliest date. Sorted by weight descending, then name, at most 10.
func PersonalRecords(ws []workouts.Workout) []PersonalRecord {
	best := make(map[string]PersonalRecord)
	for _, w := range completed(ws) {
		for _, entry := range w.Entries {
			for _, set := range entry.Sets {
				if set.WeightKg == nil || *set.WeightKg <= 0 {
					continue
				}
				weight := *set.WeightKg
				name := entry.Exercise.Name
				current, ok := best[name]
				if !ok || weight > current.WeightKg || (weight == current.WeightKg && w.CompletedAt.Before(current.Date)) {
					best[name] = PersonalRecord{
						ExerciseName: name,
						WeightKg:     weight,
						Date:         *w.CompletedAt,
					}
				}
			}
		}
	}

	records := make([]PersonalRecord, 0, len(best))
	for _, pr := range best {
		records = append(records, pr)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].WeightKg != records[j].WeightKg {
			return records[i].WeightKg > records[j].WeightKg
		}
		return records[i].ExerciseName < records[j].ExerciseName
	})

	if len(records) > personalRecordsLimit {
		records = records[:personalRecordsLimit]
	}
	return records
}

// ExerciseHistory groups the entries of one exercise by the calendar day of their
// completion: max weight and total volume per day, ascending, last 10 days.
func ExerciseHistory(entries []workouts.PerformedEntry) ExerciseProgress {
	progress := ExerciseProgress{
		History: []ExerciseSession{},
	}

	sessions := make(map[string]*ExerciseSession)
	workoutIDs := make(map[string]bool)
	for _, entry := range entries {
		if entry.CompletedAt.IsZero() {
			continue
		}
		workoutIDs[entry.WorkoutID] = true

		key := entry.CompletedAt.Format(dayLayout)
		session, ok := sessions[key]
		if !ok {
			session = &ExerciseSession{Date: key}
			sessions[key] = session
		}

		for _, set := range entry.Sets {
			progress.TotalSets++
			session.VolumeKg += set.Volume()
			if set.WeightKg != nil && *set.WeightKg > session.MaxWeightKg {
				session.MaxWeightKg = *set.WeightKg
			}
		}
		if session.MaxWeightKg > progress.MaxWeightKg {
			progress.MaxWeightKg = session.MaxWeightKg
		}
	}
	progress.Sessions = len(workoutIDs)

	for _, session := range sessions {
		progress.History = append(progress.History, *session)
	}
	sort.Slice(progress.History, func(i, j int) bool {
		return progress.History[i].Date < progress.History[j].Date
	})
	if n := len(progress.History); n > exerciseHistoryLimit {
		progress.History = progress.History[n-exerciseHistoryLimit:]
	}

	return progress
}
