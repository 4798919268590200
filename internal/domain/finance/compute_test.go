package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-manager/internal/domain/instructor"
	"academy-manager/internal/domain/participant"
	"academy-manager/internal/domain/training"
)

func paid(trainingID string, amounts ...float64) participant.Participant {
	a := participant.TrainingAssignment{TrainingID: trainingID, PaymentStatus: participant.PaymentPaid}
	for _, amt := range amounts {
		a.Payments = append(a.Payments, participant.PaymentRecord{Amount: amt})
	}
	return participant.Participant{Assignments: []participant.TrainingAssignment{a}}
}

func TestWaterfallEndToEnd(t *testing.T) {
	// training priced 4500 with two participants paying 3500 and 4500
	ps := []participant.Participant{
		paid("a", 3500),
		paid("a", 2000, 2500),
	}
	gross := CollectedGross("a", ps)
	require.InDelta(t, 8000, gross, 0.001)

	w := ComputeWaterfall(WaterfallInput{
		Gross:            gross,
		ApplyVAT:         true,
		ApplyWithholding: true,
		CommissionRate:   40,
	})
	assert.InDelta(t, 1600, w.VAT, 0.001)
	assert.InDelta(t, 1600, w.Withholding, 0.001)
	assert.InDelta(t, 4800, w.CommissionBase, 0.001)
	assert.InDelta(t, 1920, w.InstructorPayout, 0.001)
}

func TestWaterfallTogglesAreIdempotent(t *testing.T) {
	in := WaterfallInput{Gross: 8000, ApplyVAT: true, ApplyWithholding: true, CommissionRate: 40}
	before := ComputeWaterfall(in)

	in.ApplyVAT = false
	_ = ComputeWaterfall(in)
	in.ApplyVAT = true
	after := ComputeWaterfall(in)

	assert.Equal(t, before, after)
}

func TestWaterfallWithholdingOffRemainder(t *testing.T) {
	// withholding applies to gross minus VAT, so without VAT it hits full gross
	w := ComputeWaterfall(WaterfallInput{Gross: 1000, ApplyWithholding: true, CommissionRate: 50})
	assert.Zero(t, w.VAT)
	assert.InDelta(t, 250, w.Withholding, 0.001)
	assert.InDelta(t, 375, w.InstructorPayout, 0.001)
}

func TestWaterfallBaseNeverNegative(t *testing.T) {
	w := ComputeWaterfall(WaterfallInput{Gross: 100, ExtraExpenses: 5000, CommissionRate: 40})
	assert.Zero(t, w.CommissionBase)
	assert.Zero(t, w.InstructorPayout)
}

func TestWaterfallDefaultsCommissionRate(t *testing.T) {
	w := ComputeWaterfall(WaterfallInput{Gross: 1000})
	assert.InDelta(t, DefaultCommissionRate, w.CommissionRate, 0.001)
	assert.InDelta(t, 400, w.InstructorPayout, 0.001)
}

func TestRevenueShare(t *testing.T) {
	sh := RevenueShare(10000, 60)
	assert.InDelta(t, 6000, sh.House, 0.001)
	assert.InDelta(t, 4000, sh.Team, 0.001)

	sh = RevenueShare(10000, 70)
	assert.InDelta(t, 7000, sh.House, 0.001)
	assert.InDelta(t, 3000, sh.Team, 0.001)
}

func TestProjectedVsCollectedGrossStayDistinct(t *testing.T) {
	tr := training.Training{ID: "a", Price: 4500}
	ps := []participant.Participant{
		paid("a", 3500),
		paid("a", 4500),
	}

	assert.InDelta(t, 9000, ProjectedGross(tr, ps), 0.001)
	assert.InDelta(t, 8000, CollectedGross("a", ps), 0.001)
}

func TestCollectedTotalMatchesManualSummation(t *testing.T) {
	ps := []participant.Participant{
		paid("a", 100, 200),
		paid("b", 50),
		{}, // no assignments
	}

	var manual float64
	for _, p := range ps {
		for _, a := range p.Assignments {
			for _, pay := range a.Payments {
				manual += pay.Amount
			}
		}
	}
	assert.InDelta(t, manual, CollectedTotal(ps), 0.001)
	assert.InDelta(t, 350, CollectedTotal(ps), 0.001)
}

func TestInstructorForSkipsDanglingIDs(t *testing.T) {
	roster := []instructor.Instructor{
		{ID: "i2", Name: "Second"},
	}
	tr := training.Training{InstructorIDs: []string{"gone", "i2"}}

	ins, ok := InstructorFor(tr, roster)
	require.True(t, ok)
	assert.Equal(t, "Second", ins.Name)

	_, ok = InstructorFor(training.Training{InstructorIDs: []string{"gone"}}, roster)
	assert.False(t, ok)
}

func TestHeadcountCountsAssignmentsNotPayments(t *testing.T) {
	ps := []participant.Participant{
		paid("a", 100),
		{Assignments: []participant.TrainingAssignment{{TrainingID: "a"}}},
		{Assignments: []participant.TrainingAssignment{{TrainingID: "b"}}},
	}
	assert.Equal(t, 2, Headcount("a", ps))
}
