package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vee4group/order-tracker-api/errs"
)

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses {
		parsed, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStatus("shipped")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Contains(t, err.Error(), "shipped")
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Pending", StatusPending.Label())
	assert.Equal(t, "Laser Cutting", StatusLaserCutting.Label())
	assert.Equal(t, "Fabrication Welding", StatusFabricationWelding.Label())
	assert.Equal(t, "Quality Check", StatusQualityCheck.Label())
}

func TestStatusApprove(t *testing.T) {
	next, err := StatusPending.Approve()
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, next)

	for _, s := range AllStatuses {
		if s == StatusPending {
			continue
		}
		t.Run(string(s), func(t *testing.T) {
			_, err := s.Approve()
			var pe *errs.PreconditionError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, string(s), pe.Current)
			assert.Equal(t, string(StatusApproved), pe.Requested)
		})
	}
}

func TestStatusReject(t *testing.T) {
	next, err := StatusPending.Reject()
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, next)

	_, err = StatusApproved.Reject()
	assert.ErrorIs(t, err, errs.ErrPrecondition)
}

func TestStatusCancel(t *testing.T) {
	allowed := map[Status]bool{StatusPending: true, StatusApproved: true, StatusDesigning: true}

	for _, s := range AllStatuses {
		t.Run(string(s), func(t *testing.T) {
			next, err := s.Cancel()
			if allowed[s] {
				require.NoError(t, err)
				assert.Equal(t, StatusCancelled, next)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrPrecondition)
			assert.Contains(t, err.Error(), s.Label())
		})
	}
}

func TestStatusSetTo(t *testing.T) {
	// permissive: every known target is reachable from every source
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			next, err := from.SetTo(to)
			require.NoError(t, err)
			assert.Equal(t, to, next)
		}
	}

	_, err := StatusPending.SetTo("on_hold")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusDispatch.IsTerminal())
}
