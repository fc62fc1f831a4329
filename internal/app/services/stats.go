package services

import (
	"math"

	"github.com/campusbeacon/api/internal/app/models/dto"
)

const (
	// warningBand is how far below the goal a percentage still counts as WARNING.
	warningBand = 10.0
	epsilon     = 1e-9
)

// ComputeStats derives the attendance figures for present marks out of
// total against a goal percentage in (0, 100].
//
// ClassesNeeded is the fewest consecutive presents that reach the goal, or
// -1 when the goal is 100% and a class was already missed. CanSkip is the
// most consecutive absences that keep the goal.
func ComputeStats(present, total int, goal float64) dto.AttendanceStats {
	stats := dto.AttendanceStats{
		Total:   total,
		Present: present,
		Absent:  total - present,
		Goal:    goal,
		Label:   dto.LabelSafe,
	}
	if total <= 0 {
		return stats
	}

	raw := float64(present) / float64(total) * 100
	stats.Percentage = math.Round(raw*100) / 100

	g := goal / 100
	p, t := float64(present), float64(total)

	if raw+epsilon >= goal {
		stats.CanSkip = int(math.Floor(p/g - t + epsilon))
		if stats.CanSkip < 0 {
			stats.CanSkip = 0
		}
	} else if g >= 1 {
		stats.ClassesNeeded = -1
	} else {
		stats.ClassesNeeded = int(math.Ceil((g*t-p)/(1-g) - epsilon))
		if stats.ClassesNeeded < 0 {
			stats.ClassesNeeded = 0
		}
	}

	switch {
	case raw+epsilon >= goal:
		stats.Label = dto.LabelSafe
	case raw+epsilon >= goal-warningBand:
		stats.Label = dto.LabelWarning
	default:
		stats.Label = dto.LabelCritical
	}
	return stats
}
