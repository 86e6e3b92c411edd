package phase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-system/internal/domain"
)

func newTestOrder(hasDispatch bool) *domain.Order {
	return &domain.Order{
		ID:            1,
		Code:          "H-0001",
		Collection:    domain.CollectionCompany,
		ClientName:    "Hotel Atacama",
		Phone:         "9 1234 5678",
		HasDispatch:   hasDispatch,
		CurrentPhase:  domain.PhaseAnalysis,
		OverallStatus: domain.StatusPending,
		Phases:        make(map[domain.Phase]*domain.PhaseRecord),
		CreatedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func staffInput(minutes int) StartInput {
	return StartInput{StaffName: "Juan Pérez", StaffCode: "ENC-001", EstimatedMinutes: minutes}
}

// advance runs start+complete for one phase with a fixed duration.
func advance(t *testing.T, o *domain.Order, p domain.Phase, at time.Time, d time.Duration) *CompleteResult {
	t.Helper()
	in := staffInput(30)
	if p == domain.PhaseDispatch {
		in = StartInput{VehiclePlate: "ABCD12", EstimatedMinutes: 30}
	}
	_, err := StartPhase(o, p, in, at)
	require.NoError(t, err)
	res, err := CompletePhase(o, p, at.Add(d))
	require.NoError(t, err)
	return res
}

func TestStartPhaseHappyPath(t *testing.T) {
	o := newTestOrder(false)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	patch, err := StartPhase(o, domain.PhaseAnalysis, staffInput(45), now)
	require.NoError(t, err)
	require.NotNil(t, patch)

	rec := o.Record(domain.PhaseAnalysis)
	assert.Equal(t, domain.PhaseInProgress, rec.Status)
	assert.Equal(t, "Juan Pérez", rec.AssignedStaffName)
	assert.Equal(t, "ENC-001", rec.AssignedStaffCode)
	assert.Equal(t, 45, rec.EstimatedMinutes)
	require.NotNil(t, rec.StartedAt)
	assert.Equal(t, now, *rec.StartedAt)

	// starting analysis moves the order to in_progress
	assert.Equal(t, domain.StatusInProgress, o.OverallStatus)
	require.NotNil(t, patch.OverallStatus)
	assert.Equal(t, domain.StatusInProgress, *patch.OverallStatus)
	assert.Equal(t, domain.PhasePending, patch.ExpectStatus)
}

func TestStartPhaseRejectsWrongPhase(t *testing.T) {
	o := newTestOrder(false)
	now := time.Now().UTC()

	// current phase is analysis; any other phase must be rejected
	for _, p := range []domain.Phase{domain.PhaseWash, domain.PhaseIron, domain.PhaseBag} {
		_, err := StartPhase(o, p, staffInput(30), now)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, "phase %s", p)
	}
}

func TestStartPhaseValidation(t *testing.T) {
	now := time.Now().UTC()
	cases := []struct {
		name string
		in   StartInput
	}{
		{"lowercase name", StartInput{StaffName: "ana perez", StaffCode: "ENC-002", EstimatedMinutes: 30}},
		{"single word", StartInput{StaffName: "Juan", StaffCode: "ENC-002", EstimatedMinutes: 30}},
		{"missing code", StartInput{StaffName: "Juan Pérez", EstimatedMinutes: 30}},
		{"estimate too low", staffInput(4)},
		{"estimate too high", staffInput(181)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := newTestOrder(false)
			_, err := StartPhase(o, domain.PhaseAnalysis, tc.in, now)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, domain.PhasePending, o.Record(domain.PhaseAnalysis).Status)
		})
	}
}

func TestStartPhaseAcceptsAccentedNames(t *testing.T) {
	o := newTestOrder(false)
	_, err := StartPhase(o, domain.PhaseAnalysis,
		StartInput{StaffName: "Ana María González", StaffCode: "ENC-003", EstimatedMinutes: 30},
		time.Now().UTC())
	require.NoError(t, err)
}

func TestStartPhaseEstimateBounds(t *testing.T) {
	now := time.Now().UTC()
	for _, minutes := range []int{5, 180} {
		o := newTestOrder(false)
		_, err := StartPhase(o, domain.PhaseAnalysis, staffInput(minutes), now)
		assert.NoError(t, err, "estimate %d should be accepted", minutes)
	}
}

func TestStartDispatchRequiresPlate(t *testing.T) {
	o := newTestOrder(true)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	advance(t, o, domain.PhaseAnalysis, now, 10*time.Minute)
	advance(t, o, domain.PhaseWash, now.Add(time.Hour), 40*time.Minute)
	advance(t, o, domain.PhaseIron, now.Add(2*time.Hour), 20*time.Minute)
	advance(t, o, domain.PhaseBag, now.Add(3*time.Hour), 10*time.Minute)
	require.Equal(t, domain.PhaseDispatch, o.CurrentPhase)

	_, err := StartPhase(o, domain.PhaseDispatch,
		StartInput{VehiclePlate: "12ABCD", EstimatedMinutes: 30}, now.Add(4*time.Hour))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	// separators and lowercase are normalized away
	_, err = StartPhase(o, domain.PhaseDispatch,
		StartInput{VehiclePlate: "ab-cd 12", EstimatedMinutes: 30}, now.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "ABCD12", o.Record(domain.PhaseDispatch).VehiclePlate)
	assert.Empty(t, o.Record(domain.PhaseDispatch).AssignedStaffName)
}

func TestCompletePhaseActualMinutes(t *testing.T) {
	o := newTestOrder(false)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := StartPhase(o, domain.PhaseAnalysis, staffInput(30), start)
	require.NoError(t, err)

	// 125000ms rounds to 2 minutes
	res, err := CompletePhase(o, domain.PhaseAnalysis, start.Add(125*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2, o.Record(domain.PhaseAnalysis).ActualMinutes)
	assert.Equal(t, domain.PhaseWash, res.NextPhase)
	assert.False(t, res.Terminal)
	assert.Equal(t, domain.PhaseWash, o.CurrentPhase)
}

func TestCompletePhaseTwiceFails(t *testing.T) {
	o := newTestOrder(false)
	now := time.Now().UTC()
	_, err := StartPhase(o, domain.PhaseAnalysis, staffInput(30), now)
	require.NoError(t, err)
	_, err = CompletePhase(o, domain.PhaseAnalysis, now.Add(time.Minute))
	require.NoError(t, err)

	_, err = CompletePhase(o, domain.PhaseAnalysis, now.Add(2*time.Minute))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCompleteThenStartNextSucceeds(t *testing.T) {
	o := newTestOrder(false)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	res := advance(t, o, domain.PhaseAnalysis, now, 10*time.Minute)
	require.Equal(t, domain.PhaseWash, res.NextPhase)

	_, err := StartPhase(o, res.NextPhase, staffInput(60), now.Add(15*time.Minute))
	require.NoError(t, err)
}

func TestTerminalWithoutDispatch(t *testing.T) {
	o := newTestOrder(false)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	advance(t, o, domain.PhaseAnalysis, now, 10*time.Minute)
	advance(t, o, domain.PhaseWash, now.Add(time.Hour), 40*time.Minute)
	advance(t, o, domain.PhaseIron, now.Add(2*time.Hour), 20*time.Minute)
	res := advance(t, o, domain.PhaseBag, now.Add(3*time.Hour), 10*time.Minute)

	assert.True(t, res.Terminal)
	assert.Equal(t, domain.StatusReadyForPickup, o.OverallStatus)
	// no next phase: current phase stays at bag
	assert.Equal(t, domain.PhaseBag, o.CurrentPhase)
	require.NotNil(t, o.FinalizedAt)
}

func TestTerminalWithDispatch(t *testing.T) {
	o := newTestOrder(true)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	advance(t, o, domain.PhaseAnalysis, now, 10*time.Minute)
	advance(t, o, domain.PhaseWash, now.Add(time.Hour), 40*time.Minute)
	advance(t, o, domain.PhaseIron, now.Add(2*time.Hour), 20*time.Minute)
	res := advance(t, o, domain.PhaseBag, now.Add(3*time.Hour), 10*time.Minute)

	// bag completion marks ready for pickup AND advances to dispatch
	assert.False(t, res.Terminal)
	assert.Equal(t, domain.StatusReadyForPickup, o.OverallStatus)
	assert.Equal(t, domain.PhaseDispatch, o.CurrentPhase)
	assert.Nil(t, o.FinalizedAt)

	res = advance(t, o, domain.PhaseDispatch, now.Add(4*time.Hour), 30*time.Minute)
	assert.True(t, res.Terminal)
	assert.Equal(t, domain.StatusFinalized, o.OverallStatus)
	require.NotNil(t, o.FinalizedAt)
}

func TestRevertWash(t *testing.T) {
	o := newTestOrder(false)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	advance(t, o, domain.PhaseAnalysis, now, 10*time.Minute)
	_, err := StartPhase(o, domain.PhaseWash, staffInput(60), now.Add(20*time.Minute))
	require.NoError(t, err)

	patch, err := RevertPhase(o, domain.PhaseWash)
	require.NoError(t, err)
	require.NotNil(t, patch.CurrentPhase)

	assert.Equal(t, domain.PhaseAnalysis, o.CurrentPhase)
	rec := o.Record(domain.PhaseWash)
	assert.Equal(t, domain.PhasePending, rec.Status)
	assert.Empty(t, rec.AssignedStaffName)
	assert.Empty(t, rec.AssignedStaffCode)
	assert.Zero(t, rec.EstimatedMinutes)
	assert.Nil(t, rec.StartedAt)
	assert.Nil(t, rec.CompletedAt)

	// analysis itself stays completed; the read path shows it as such
	assert.Equal(t, domain.PhaseCompleted, DeriveState(domain.PhaseAnalysis, o))
}

func TestRevertAnalysisAlwaysFails(t *testing.T) {
	o := newTestOrder(false)
	_, err := RevertPhase(o, domain.PhaseAnalysis)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "no prior phase")
}

func TestDeriveStateAcrossSequence(t *testing.T) {
	o := newTestOrder(true)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	advance(t, o, domain.PhaseAnalysis, now, 10*time.Minute)
	_, err := StartPhase(o, domain.PhaseWash, staffInput(60), now.Add(20*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseCompleted, DeriveState(domain.PhaseAnalysis, o))
	assert.Equal(t, domain.PhaseInProgress, DeriveState(domain.PhaseWash, o))
	assert.Equal(t, domain.PhasePending, DeriveState(domain.PhaseIron, o))
	assert.Equal(t, domain.PhasePending, DeriveState(domain.PhaseBag, o))
	assert.Equal(t, domain.PhasePending, DeriveState(domain.PhaseDispatch, o))
}

func TestDeriveStateDefaultsMissingCurrentPhase(t *testing.T) {
	o := newTestOrder(false)
	o.CurrentPhase = ""
	// missing current phase reads as analysis with a pending record
	assert.Equal(t, domain.PhasePending, DeriveState(domain.PhaseAnalysis, o))
	assert.Equal(t, domain.PhasePending, DeriveState(domain.PhaseWash, o))
}

func TestDispatchNotInSequenceForPickupOrders(t *testing.T) {
	o := newTestOrder(false)
	assert.Equal(t, domain.PhasePending, DeriveState(domain.PhaseDispatch, o))

	_, err := RevertPhase(o, domain.PhaseDispatch)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestTimeline(t *testing.T) {
	o := newTestOrder(true)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	advance(t, o, domain.PhaseAnalysis, now, 10*time.Minute)

	tl := Timeline(o)
	require.Len(t, tl, 5)
	assert.Equal(t, "Análisis", tl[0].Label)
	assert.Equal(t, domain.PhaseCompleted, tl[0].State)
	assert.Equal(t, 10, tl[0].ActualMinutes)
	assert.Equal(t, domain.PhasePending, tl[1].State)
	assert.Equal(t, domain.PhaseDispatch, tl[4].Phase)
}
