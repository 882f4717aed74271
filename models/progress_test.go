package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressFor(t *testing.T) {
	tests := []struct {
		status        Status
		currentStep   int
		completedUpTo int
	}{
		{StatusPending, 1, 1},
		{StatusRejected, 1, 1},
		{StatusCancelled, 1, 1},
		{StatusApproved, 2, 2},
		{StatusDesigning, 3, 3},
		{StatusFabricationWelding, 6, 6},
		{StatusQualityCheck, 10, 10},
		{StatusDispatch, 11, 11},
		{StatusCompleted, 11, 11},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			p := ProgressFor(tt.status)

			assert.Len(t, p.Steps, 11)
			assert.Equal(t, tt.currentStep, p.CurrentStep)
			for _, step := range p.Steps {
				assert.Equal(t, step.Step <= tt.completedUpTo, step.Completed, "step %d (%s)", step.Step, step.Name)
			}
		})
	}
}

func TestProgressStepNames(t *testing.T) {
	p := ProgressFor(StatusPending)
	assert.Equal(t, "Order Received", p.Steps[0].Name)
	assert.Equal(t, "Fabrication (Welding)", p.Steps[5].Name)
	assert.Equal(t, "Dispatch", p.Steps[10].Name)
}
