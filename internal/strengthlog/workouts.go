package strengthlog

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/claude/strengthlog-mcp/internal/models"
)

// workoutNameLangs is the language preference order for workout names.
var workoutNameLangs = []string{"en", "sv", "de", "fr", "es"}

// minPlausibleMillis is the smallest document id accepted as a
// milliseconds-since-epoch timestamp (2001-09-09). Anything smaller is some
// other kind of id.
const minPlausibleMillis = 1_000_000_000_000

// defaultWorkoutLimit caps GetWorkouts when the caller passes no limit.
const defaultWorkoutLimit = 500

// GetWorkouts fetches the user's workout log, resolves exercise names, and
// returns workouts sorted newest-first. since drops workouts that started
// before it; limit truncates the result (0 means the default cap).
func (c *Client) GetWorkouts(ctx context.Context, since *time.Time, limit int) ([]models.Workout, error) {
	if limit <= 0 {
		limit = defaultWorkoutLimit
	}

	if err := c.names.EnsureLoaded(ctx, c.session.UserID()); err != nil {
		return nil, err
	}

	docs, err := c.fs.FetchCollection(ctx, "25users/"+c.session.UserID()+"/log", nil)
	if err != nil {
		return nil, err
	}

	// Resolve every referenced exercise in one batch so each missing id is
	// fetched at most once, no matter how many sets share it.
	ids := make(map[string]struct{})
	for i := range docs {
		collectSetExerciseIDs(decodeDocument(&docs[i]), ids)
	}
	c.names.ResolveMissing(ctx, ids)

	workouts := make([]models.Workout, 0, len(docs))
	for i := range docs {
		w, ok := c.parseWorkout(&docs[i])
		if !ok {
			continue
		}
		if since != nil && w.StartTime.Before(since.UTC()) {
			continue
		}
		workouts = append(workouts, w)
	}

	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].StartTime.After(workouts[j].StartTime)
	})
	if len(workouts) > limit {
		workouts = workouts[:limit]
	}
	return workouts, nil
}

// collectSetExerciseIDs adds every exercise id referenced by a workout
// document's sets to ids.
func collectSetExerciseIDs(fields map[string]Value, ids map[string]struct{}) {
	sets := fields["sets"]
	if sets.Kind != KindMap {
		return
	}
	for _, set := range sets.Map {
		if id := set.Field("exercise").AsString(); id != "" {
			ids[id] = struct{}{}
		}
	}
}

// parseWorkout assembles one Workout from a log document. A document whose
// shape cannot be read at all is dropped rather than failing the listing.
func (c *Client) parseWorkout(doc *wireDocument) (models.Workout, bool) {
	if doc.Name == "" {
		return models.Workout{}, false
	}
	fields := decodeDocument(doc)
	id := doc.ID()

	w := models.Workout{
		ID:   id,
		Name: workoutName(fields["name"]),
	}

	startMs := fields["start"].AsInt()
	endMs := fields["end"].AsInt()
	if startMs > 0 {
		w.StartTime = time.UnixMilli(startMs).UTC()
	}
	if endMs > 0 {
		w.EndTime = time.UnixMilli(endMs).UTC()
	}

	// Older log entries carry no start field but use a millisecond epoch as
	// their document id.
	if w.StartTime.IsZero() {
		if ms, err := strconv.ParseInt(id, 10, 64); err == nil && ms > minPlausibleMillis {
			w.StartTime = time.UnixMilli(ms).UTC()
		}
	}
	if w.StartTime.IsZero() {
		// Last resort so the workout still lists and filters sanely.
		w.StartTime = time.Now().UTC()
	}

	if sets := fields["sets"]; sets.Kind == KindMap {
		w.Sets = make([]models.ExerciseSet, 0, len(sets.Map))
		for _, setVal := range sets.Map {
			if s, ok := c.parseExerciseSet(setVal); ok {
				w.Sets = append(w.Sets, s)
			}
		}
	}
	// The wire's per-set map has no inherent order; the order field is the
	// only source of truth.
	sort.SliceStable(w.Sets, func(i, j int) bool { return w.Sets[i].Order < w.Sets[j].Order })

	return w, true
}

// workoutName resolves the name field: localized map first, then a flat
// string, then the literal "Workout".
func workoutName(v Value) string {
	switch v.Kind {
	case KindMap:
		for _, lang := range workoutNameLangs {
			if name := v.Field(lang).AsString(); name != "" {
				return name
			}
		}
	case KindString:
		if v.Str != "" {
			return v.Str
		}
	}
	return "Workout"
}

// parseExerciseSet reads one entry of a workout's sets map. Weights and RPE
// are micro-unit integers; an explicit weight of zero falls back to
// bodyweight plus extra load.
func (c *Client) parseExerciseSet(v Value) (models.ExerciseSet, bool) {
	if v.Kind != KindMap {
		return models.ExerciseSet{}, false
	}

	exerciseID := v.Field("exercise").AsString()
	s := models.ExerciseSet{
		ExerciseID:   exerciseID,
		ExerciseName: c.names.NameOrID(exerciseID),
		Order:        int(v.Field("order").AsInt()),
		IsWarmup:     v.Field("warmup").AsBool(),
	}

	variables := v.Field("variables")
	s.Reps = int(variables.Field("reps").AsInt())

	weightMicro := variables.Field("weight").AsInt()
	if weightMicro == 0 {
		weightMicro = variables.Field("bodyweight").AsInt() + variables.Field("extraWeight").AsInt()
	}
	s.WeightKg = float64(weightMicro) / 1_000_000

	if rpeRaw := variables.Field("rpe").AsInt(); rpeRaw > 0 {
		s.RPE = float64(rpeRaw) / 1000.0
	}

	return s, true
}
