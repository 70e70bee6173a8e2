package decision

import (
	"math"

	"cashforecast/pkg/models"
)

// AnalyzeMultiMonth summarizes the forward projection window into
// aggregate statistics and a trend classification. Months without a cash
// flow figure are skipped; nil is returned when nothing remains.
func (p PolicyConfig) AnalyzeMultiMonth(months []models.MonthlyForecastFact) *models.MultiMonthAnalysis {
	var labels []string
	var values []float64
	for _, m := range months {
		if m.FreeCashFlow == nil {
			continue
		}
		labels = append(labels, m.MonthLabel())
		values = append(values, *m.FreeCashFlow)
	}
	if len(values) == 0 {
		return nil
	}

	out := &models.MultiMonthAnalysis{
		MonthsAnalyzed: len(values),
		AllPositive:    true,
		LowestMonth:    models.MonthExtreme{Month: labels[0], FCF: values[0]},
		HighestMonth:   models.MonthExtreme{Month: labels[0], FCF: values[0]},
	}
	for i, fcf := range values {
		out.TotalFCF += fcf
		if fcf > 0 {
			out.PositiveMonths++
		} else if fcf < 0 {
			out.NegativeMonths++
		}
		if fcf <= 0 {
			out.AllPositive = false
		}
		if fcf < out.LowestMonth.FCF {
			out.LowestMonth = models.MonthExtreme{Month: labels[i], FCF: fcf}
		}
		if fcf > out.HighestMonth.FCF {
			out.HighestMonth = models.MonthExtreme{Month: labels[i], FCF: fcf}
		}
	}
	out.AverageFCF = out.TotalFCF / float64(len(values))
	out.Trend = p.classifyTrend(values)
	return out
}

// classifyTrend compares first-half and second-half averages. Fewer than
// four months is not enough signal to call a direction.
func (p PolicyConfig) classifyTrend(values []float64) models.TrendDirection {
	if len(values) < 4 {
		return models.TrendStable
	}
	half := len(values) / 2
	var firstSum, secondSum float64
	for _, v := range values[:half] {
		firstSum += v
	}
	for _, v := range values[half:] {
		secondSum += v
	}
	firstAvg := firstSum / float64(half)
	secondAvg := secondSum / float64(len(values)-half)

	// Divide by the magnitude so the sign of the change survives a
	// negative baseline; an improving all-negative window must still
	// read as increasing.
	var changePct float64
	if firstAvg != 0 {
		changePct = (secondAvg - firstAvg) / math.Abs(firstAvg) * 100
	}
	switch {
	case changePct > p.TrendChangePct:
		return models.TrendIncreasing
	case changePct < -p.TrendChangePct:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}
