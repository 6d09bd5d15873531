package analyze

import "github.com/devpulse/devpulse/pkg/model"

// DefaultLargeCommitLines is the default "L" ceiling used by LargeCommitCount
// when the caller has no configured override.
const DefaultLargeCommitLines = 500

// LargeCommitCount counts commits whose added+deleted exceeds ceiling. A
// ceiling of 0 falls back to DefaultLargeCommitLines.
func LargeCommitCount(commits []model.Commit, ceiling int) int {
	if ceiling == 0 {
		ceiling = DefaultLargeCommitLines
	}

	count := 0

	for _, c := range commits {
		if c.Lines() > ceiling {
			count++
		}
	}

	return count
}

// HealthScore runs the fixed deduction table over metrics (see
// LargeCommitCount for where the "L" per-commit size ceiling is applied),
// starting from 100 and clamping the result to [0, 100].
func HealthScore(metrics model.HealthMetrics) model.HealthScore {
	score := 100
	var deductions []model.Deduction

	apply := func(reason string, amount int) {
		score -= amount
		deductions = append(deductions, model.Deduction{Reason: reason, Amount: amount})
	}

	if metrics.LargeCommitCount > 0 {
		apply("large commits", metrics.LargeCommitCount*5)
	}

	switch {
	case metrics.ChurnRate > 30:
		apply("churn rate above 30%", 20)
	case metrics.ChurnRate > 10:
		apply("churn rate above 10%", 10)
	}

	switch {
	case metrics.ReworkRate > 30:
		apply("rework rate above 30%", 15)
	case metrics.ReworkRate > 15:
		apply("rework rate above 15%", 8)
	}

	if metrics.MessageQuality < 60 {
		apply("message quality below 60%", 10)
	}

	if abnormal := metrics.LateNightCount + metrics.WeekendCount; abnormal > 0 {
		apply("abnormal-time commits", capped(abnormal*2, 20))
	}

	if metrics.HighRiskFiles > 0 {
		apply("high-risk files", capped(metrics.HighRiskFiles*3, 15))
	}

	score = clamp(score, 0, 100)

	return model.HealthScore{
		Score:      score,
		Level:      model.SeverityFor(score),
		Deductions: deductions,
	}
}

func capped(amount, ceiling int) int {
	if amount > ceiling {
		return ceiling
	}

	return amount
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
