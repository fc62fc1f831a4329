package services

import (
	"testing"

	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/stretchr/testify/assert"
)

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name           string
		present, total int
		goal           float64
		wantPct        float64
		wantNeeded     int
		wantSkip       int
		wantLabel      dto.AttendanceStatusLabel
	}{
		{name: "no classes", present: 0, total: 0, goal: 75, wantLabel: dto.LabelSafe},
		{name: "exactly on goal", present: 3, total: 4, goal: 75, wantPct: 75, wantLabel: dto.LabelSafe},
		{name: "above goal can skip", present: 9, total: 10, goal: 75, wantPct: 90, wantSkip: 2, wantLabel: dto.LabelSafe},
		{name: "just below goal", present: 2, total: 3, goal: 75, wantPct: 66.67, wantNeeded: 1, wantLabel: dto.LabelWarning},
		{name: "far below goal", present: 1, total: 4, goal: 75, wantPct: 25, wantNeeded: 8, wantLabel: dto.LabelCritical},
		{name: "full goal unreachable", present: 9, total: 10, goal: 100, wantPct: 90, wantNeeded: -1, wantLabel: dto.LabelWarning},
		{name: "full goal met", present: 5, total: 5, goal: 100, wantPct: 100, wantLabel: dto.LabelSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.present, tt.total, tt.goal)
			assert.Equal(t, tt.total, got.Total)
			assert.Equal(t, tt.present, got.Present)
			assert.Equal(t, tt.total-tt.present, got.Absent)
			assert.InDelta(t, tt.wantPct, got.Percentage, 0.001)
			assert.Equal(t, tt.wantNeeded, got.ClassesNeeded)
			assert.Equal(t, tt.wantSkip, got.CanSkip)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}

func TestComputeStats_NeededReachesGoal(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for present := 0; present <= total; present++ {
			s := ComputeStats(present, total, 75)
			if s.ClassesNeeded > 0 {
				x := s.ClassesNeeded
				assert.GreaterOrEqual(t, float64(present+x)/float64(total+x), 0.75)
				assert.Less(t, float64(present+x-1)/float64(total+x-1), 0.75)
			}
			if s.CanSkip > 0 {
				y := s.CanSkip
				assert.GreaterOrEqual(t, float64(present)/float64(total+y), 0.75)
				assert.Less(t, float64(present)/float64(total+y+1), 0.75)
			}
		}
	}
}
