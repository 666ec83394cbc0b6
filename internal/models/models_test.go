package models

import (
	"testing"
	"time"
)

func TestSetVolume(t *testing.T) {
	s := ExerciseSet{Reps: 5, WeightKg: 102.5}
	if got := s.Volume(); got != 512.5 {
		t.Errorf("Volume() = %v, want 512.5", got)
	}
}

// TestTotalVolumeExcludesWarmups verifies warmup sets contribute nothing to
// workout volume.
func TestTotalVolumeExcludesWarmups(t *testing.T) {
	w := Workout{Sets: []ExerciseSet{
		{Reps: 10, WeightKg: 60, IsWarmup: true},
		{Reps: 5, WeightKg: 100},
		{Reps: 5, WeightKg: 100},
	}}
	if got := w.TotalVolume(); got != 1000 {
		t.Errorf("TotalVolume() = %v, want 1000", got)
	}
	if got := len(w.WorkingSets()); got != 2 {
		t.Errorf("len(WorkingSets()) = %d, want 2", got)
	}
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	w := Workout{StartTime: start, EndTime: start.Add(73 * time.Minute)}
	if got := w.DurationMinutes(); got != 73 {
		t.Errorf("DurationMinutes() = %d, want 73", got)
	}

	// No end time logged
	w = Workout{StartTime: start}
	if got := w.DurationMinutes(); got != 0 {
		t.Errorf("DurationMinutes() without end = %d, want 0", got)
	}
}
