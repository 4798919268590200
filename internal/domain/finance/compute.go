package finance

import (
	"academy-manager/internal/domain/instructor"
	"academy-manager/internal/domain/participant"
	"academy-manager/internal/domain/training"
)

const (
	vatRate               = 0.20
	withholdingRate       = 0.25
	DefaultCommissionRate = 40
	DefaultShareRatio     = 60
)

// Everything in this file is a pure function over the domain model; the same
// inputs always produce the same figures.

// Headcount counts participants holding an assignment for the training.
func Headcount(trainingID string, ps []participant.Participant) int {
	n := 0
	for _, p := range ps {
		if _, ok := p.AssignmentFor(trainingID); ok {
			n++
		}
	}
	return n
}

// ProjectedGross is the dashboard approximation: headcount times list price.
func ProjectedGross(t training.Training, ps []participant.Participant) float64 {
	return float64(Headcount(t.ID, ps)) * t.Price
}

// CollectedGross sums the payments actually recorded against the training.
func CollectedGross(trainingID string, ps []participant.Participant) float64 {
	var sum float64
	for _, p := range ps {
		if a, ok := p.AssignmentFor(trainingID); ok {
			sum += a.CollectedAmount()
		}
	}
	return sum
}

// CollectedTotal sums every payment across the whole collection.
func CollectedTotal(ps []participant.Participant) float64 {
	var sum float64
	for _, p := range ps {
		for _, a := range p.Assignments {
			sum += a.CollectedAmount()
		}
	}
	return sum
}

// ComputeWaterfall runs the deduction chain: VAT off the gross, withholding
// off the remainder, manual expenses off that, and the instructor commission
// off the base. The base never goes negative.
func ComputeWaterfall(in WaterfallInput) Waterfall {
	w := Waterfall{Gross: in.Gross, ExtraExpenses: in.ExtraExpenses}

	if in.ApplyVAT {
		w.VAT = in.Gross * vatRate
	}
	if in.ApplyWithholding {
		w.Withholding = (in.Gross - w.VAT) * withholdingRate
	}

	base := in.Gross - w.VAT - w.Withholding - in.ExtraExpenses
	if base < 0 {
		base = 0
	}
	w.CommissionBase = base

	w.CommissionRate = in.CommissionRate
	if w.CommissionRate == 0 {
		w.CommissionRate = DefaultCommissionRate
	}
	w.InstructorPayout = base * w.CommissionRate / 100
	return w
}

// InstructorFor resolves the training's single payout instructor: the first
// id in its instructor list that exists in the roster. Co-instructors are not
// split; dangling ids are skipped.
func InstructorFor(t training.Training, roster []instructor.Instructor) (*instructor.Instructor, bool) {
	for _, id := range t.InstructorIDs {
		for i := range roster {
			if roster[i].ID == id {
				return &roster[i], true
			}
		}
	}
	return nil, false
}

// NetProfit is what remains for the company after taxes, the instructor
// payout and the company-side custom expenses. Instructor expenses are not
// deducted here; they only reduce the payout through the commission base.
func NetProfit(w Waterfall, customExpenses float64) float64 {
	return w.Gross - w.VAT - w.Withholding - w.InstructorPayout - customExpenses
}

// RevenueShare splits a profit figure into house and team shares. The two
// sides are computed independently; callers tolerate float residue.
func RevenueShare(profit, ratio float64) Share {
	if ratio == 0 {
		ratio = DefaultShareRatio
	}
	return Share{
		Profit: profit,
		Ratio:  ratio,
		House:  profit * ratio / 100,
		Team:   profit * (100 - ratio) / 100,
	}
}

// SumLines totals the manual expense lines.
func SumLines(lines []ExpenseLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Amount
	}
	return sum
}
