package mcp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/claude/strengthlog-mcp/internal/models"
)

// num formats a float without trailing zeros (100, 72.5, 8.5).
func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// renderWorkouts produces one markdown section per workout: heading with date
// and duration, volume summary, then per-exercise warmup/working set lines.
func renderWorkouts(workouts []models.Workout) string {
	if len(workouts) == 0 {
		return "No workouts found."
	}

	var b strings.Builder
	for _, w := range workouts {
		duration := ""
		if mins := w.DurationMinutes(); mins > 0 {
			duration = fmt.Sprintf(" (%dmin)", mins)
		}
		fmt.Fprintf(&b, "## %s — %s%s\n", w.Name, w.StartTime.Format("2006-01-02 15:04"), duration)
		fmt.Fprintf(&b, "Total volume: %.0f kg | Working sets: %d\n", w.TotalVolume(), len(w.WorkingSets()))

		for _, name := range setExerciseOrder(w.Sets) {
			var warmup, working []string
			for _, s := range w.Sets {
				if s.ExerciseName != name {
					continue
				}
				line := num(s.WeightKg) + "kg x " + strconv.Itoa(s.Reps)
				if s.IsWarmup {
					warmup = append(warmup, line)
				} else {
					if s.RPE > 0 {
						line += " @RPE" + num(s.RPE)
					}
					working = append(working, line)
				}
			}
			if len(warmup) > 0 {
				fmt.Fprintf(&b, "  %s (warmup): %s\n", name, strings.Join(warmup, ", "))
			}
			if len(working) > 0 {
				fmt.Fprintf(&b, "  %s: %s\n", name, strings.Join(working, ", "))
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// setExerciseOrder returns the distinct exercise names of a workout's sets in
// order of first appearance.
func setExerciseOrder(sets []models.ExerciseSet) []string {
	seen := make(map[string]bool, len(sets))
	var order []string
	for _, s := range sets {
		if !seen[s.ExerciseName] {
			seen[s.ExerciseName] = true
			order = append(order, s.ExerciseName)
		}
	}
	return order
}

func renderExercises(exercises []models.Exercise) string {
	if len(exercises) == 0 {
		return "No exercises found."
	}

	sorted := make([]models.Exercise, len(exercises))
	copy(sorted, exercises)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d exercises:\n", len(exercises))
	for _, ex := range sorted {
		var langs []string
		for lang := range ex.Translations {
			if lang != "en" {
				langs = append(langs, lang)
			}
		}
		sort.Strings(langs)

		if len(langs) == 0 {
			fmt.Fprintf(&b, "\n- **%s** (id: %s)", ex.Name, ex.ID)
			continue
		}
		pairs := make([]string, 0, len(langs))
		for _, lang := range langs {
			pairs = append(pairs, lang+": "+ex.Translations[lang])
		}
		fmt.Fprintf(&b, "\n- **%s** (id: %s) [%s]", ex.Name, ex.ID, strings.Join(pairs, ", "))
	}
	return b.String()
}

func renderPrograms(programs []models.Program) string {
	if len(programs) == 0 {
		return "No programs found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d programs:\n", len(programs))
	for _, p := range programs {
		desc := ""
		if p.Description != "" {
			desc = " — " + p.Description
		}
		fmt.Fprintf(&b, "\n- **%s** (id: %s, source: %s, %d workouts)%s", p.Name, p.ID, p.Source, len(p.WorkoutsOrder), desc)
	}
	return b.String()
}

func renderProgramDetail(p *models.Program) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Description)
	}

	if len(p.Workouts) == 0 {
		b.WriteString("\nNo workouts found in this program.")
		return b.String()
	}

	for _, w := range p.Workouts {
		week := ""
		if w.Week > 0 {
			week = fmt.Sprintf(" (Week %d)", w.Week)
		}
		fmt.Fprintf(&b, "\n\n## %s%s", w.Name, week)

		for _, name := range programSetExerciseOrder(w.Sets) {
			fmt.Fprintf(&b, "\n  **%s**", name)
			// Warmups first, then working sets, each in wire order.
			for _, warmup := range []bool{true, false} {
				for _, s := range w.Sets {
					if programSetName(s) != name || s.IsWarmup != warmup {
						continue
					}
					prefix := ""
					if s.Weight != nil {
						prefix = num(*s.Weight) + "kg x "
					}
					if warmup {
						fmt.Fprintf(&b, "\n    - Warmup: %s%d reps", prefix, s.Reps)
					} else {
						fmt.Fprintf(&b, "\n    - %s%d reps", prefix, s.Reps)
					}
				}
			}
		}
	}
	return b.String()
}

// programSetName is the display name of a prescribed set, falling back to the
// raw exercise id when denormalization did not find a name.
func programSetName(s models.ProgramSet) string {
	if s.ExerciseName != "" {
		return s.ExerciseName
	}
	return s.ExerciseID
}

func programSetExerciseOrder(sets []models.ProgramSet) []string {
	seen := make(map[string]bool, len(sets))
	var order []string
	for _, s := range sets {
		name := programSetName(s)
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	return order
}
