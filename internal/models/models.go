// Package models holds the StrengthLog domain aggregates assembled from
// Firestore documents. Values are plain data; derived quantities (volume,
// duration) are computed by accessors so they can never drift from the
// underlying fields.
package models

import "time"

// Exercise is one entry in the exercise library.
type Exercise struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Translations map[string]string `json:"translations,omitempty"`
}

// ExerciseSet is a single performed set within a workout.
type ExerciseSet struct {
	ExerciseID   string  `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name"`
	Order        int     `json:"order"`
	Reps         int     `json:"reps"`
	WeightKg     float64 `json:"weight_kg"`
	IsWarmup     bool    `json:"is_warmup"`
	RPE          float64 `json:"rpe,omitempty"` // 0 = not recorded
}

// Volume is the load moved in this set, in kilogram-reps.
func (s ExerciseSet) Volume() float64 {
	return s.WeightKg * float64(s.Reps)
}

// Workout is one logged training session.
type Workout struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time,omitzero"`
	Sets      []ExerciseSet `json:"sets"`
}

// DurationMinutes returns the session length, or 0 when no end time was logged.
func (w Workout) DurationMinutes() int {
	if w.EndTime.IsZero() {
		return 0
	}
	return int(w.EndTime.Sub(w.StartTime).Minutes())
}

// TotalVolume sums the volume of all working (non-warmup) sets.
func (w Workout) TotalVolume() float64 {
	var total float64
	for _, s := range w.Sets {
		if !s.IsWarmup {
			total += s.Volume()
		}
	}
	return total
}

// WorkingSets returns the non-warmup sets.
func (w Workout) WorkingSets() []ExerciseSet {
	var working []ExerciseSet
	for _, s := range w.Sets {
		if !s.IsWarmup {
			working = append(working, s)
		}
	}
	return working
}

// Program sources.
const (
	SourceUserPrograms = "user_programs"
	SourceFollowing    = "following"
	SourceGlobal       = "global"
)

// ProgramSet is a prescribed set within a program workout. ExerciseName is
// empty until the set has been through name denormalization; Weight is nil
// when the program does not prescribe a load.
type ProgramSet struct {
	ExerciseID   string   `json:"exercise_id"`
	ExerciseName string   `json:"exercise_name,omitempty"`
	Order        int      `json:"order"`
	Reps         int      `json:"reps"`
	Weight       *float64 `json:"weight,omitempty"`
	IsWarmup     bool     `json:"is_warmup"`
}

// ProgramWorkout is one workout template within a program.
type ProgramWorkout struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Week int          `json:"week,omitempty"` // 0 = no week assignment
	Sets []ProgramSet `json:"sets"`
}

// Program is a training program. Workouts is nil for list views and populated
// only when a single program is fetched in full — callers rely on that
// distinction when rendering.
type Program struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	WorkoutsOrder []string         `json:"workouts_order"`
	Source        string           `json:"source"`
	Workouts      []ProgramWorkout `json:"workouts,omitempty"`
}
