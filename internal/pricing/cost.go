package pricing

import (
	"gigboard/internal/models"
)

// The advertised total pay is derived from fixed calendar approximations:
// 1 day = 8 working hours, 1 week = 40 hours = 5 days, 1 month = 160 hours
// = 22 working days ≈ 4.33 weeks. The table is intentionally not transitive
// through hours (22 days is one month even though 22×8h ≠ 160h), so each
// unit pair gets its own factor instead of normalizing everything to hours.
// Changing any factor silently changes pay figures shown to job seekers.
const (
	hoursPerDay   = 8.0
	hoursPerWeek  = 40.0
	hoursPerMonth = 160.0
	daysPerWeek   = 5.0
	daysPerMonth  = 22.0
	weeksPerMonth = 4.33
)

// CostBreakdown is the derived compensation figure shown next to the form.
// It is recomputed on every cost-relevant field change and never persisted
// on its own.
type CostBreakdown struct {
	BaseAmount     float64
	TotalAmount    float64
	PerPeriodLabel string
	TotalPeriods   float64
}

// periods converts a duration expressed in durationUnit into the
// equivalent count of salary pay periods.
func periods(duration float64, du models.DurationUnit, su models.SalaryUnit) float64 {
	switch su {
	case models.SalaryHourly:
		switch du {
		case models.DurationHours:
			return duration
		case models.DurationDays:
			return duration * hoursPerDay
		case models.DurationWeeks:
			return duration * hoursPerWeek
		case models.DurationMonths:
			return duration * hoursPerMonth
		}
	case models.SalaryDaily:
		switch du {
		case models.DurationHours:
			return duration / hoursPerDay
		case models.DurationDays:
			return duration
		case models.DurationWeeks:
			return duration * daysPerWeek
		case models.DurationMonths:
			return duration * daysPerMonth
		}
	case models.SalaryWeekly:
		switch du {
		case models.DurationHours:
			return duration / hoursPerWeek
		case models.DurationDays:
			return duration / daysPerWeek
		case models.DurationWeeks:
			return duration
		case models.DurationMonths:
			return duration * weeksPerMonth
		}
	case models.SalaryMonthly:
		switch du {
		case models.DurationHours:
			return duration / hoursPerMonth
		case models.DurationDays:
			return duration / daysPerMonth
		case models.DurationWeeks:
			return duration / weeksPerMonth
		case models.DurationMonths:
			return duration
		}
	}
	return 0
}

// TotalCost converts an (amount, amount-unit, duration, duration-unit)
// tuple into the total compensation over the engagement. Unit pairs outside
// the table return 0; validated input never produces one.
func TotalCost(amount float64, su models.SalaryUnit, duration int, du models.DurationUnit) float64 {
	return amount * periods(float64(duration), du, su)
}

func perPeriodLabel(su models.SalaryUnit) string {
	switch su {
	case models.SalaryHourly:
		return "per hour"
	case models.SalaryDaily:
		return "per day"
	case models.SalaryWeekly:
		return "per week"
	case models.SalaryMonthly:
		return "per month"
	}
	return ""
}

// Breakdown computes the full derived figure for display.
func Breakdown(amount float64, su models.SalaryUnit, duration int, du models.DurationUnit) CostBreakdown {
	p := periods(float64(duration), du, su)
	return CostBreakdown{
		BaseAmount:     amount,
		TotalAmount:    amount * p,
		PerPeriodLabel: perPeriodLabel(su),
		TotalPeriods:   p,
	}
}
