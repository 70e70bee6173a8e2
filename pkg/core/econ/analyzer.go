package econ

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/sirupsen/logrus"

	"cashforecast/pkg/models"
)

// Analyzer produces the economic context for one analysis run. Provider may
// be nil, in which case only the local seasonal model is applied.
type Analyzer struct {
	Provider Provider
	Timeout  time.Duration
}

// NewAnalyzer returns an Analyzer with a sane research timeout.
func NewAnalyzer(provider Provider) *Analyzer {
	return &Analyzer{Provider: provider, Timeout: 45 * time.Second}
}

const researchSystemPrompt = "You are a commercial real estate analyst specializing in student housing markets. Answer with strict JSON only."

// researchPayload is the JSON shape requested from the provider.
type researchPayload struct {
	EnrollmentTrend string `json:"enrollment_trend"`
	NewSupply       bool   `json:"new_supply"`
	Analysis        string `json:"analysis"`
}

// Analyze assembles the economic context for a property and month. The
// seasonal factor is always computed locally; provider-backed enrichment is
// best effort and any failure degrades to Available=false.
func (a *Analyzer) Analyze(ctx context.Context, property models.PropertyInfo, month time.Time) models.EconomicContext {
	ectx := models.EconomicContext{
		Seasonal:        SeasonalFactorFor(month),
		EnrollmentTrend: EnrollmentStableDefault,
	}

	if a == nil || a.Provider == nil {
		return ectx
	}

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	raw, err := a.Provider.GenerateResponse(ctx, a.buildPrompt(property, month), researchSystemPrompt, nil)
	if err != nil {
		logrus.WithError(err).Warn("economic research unavailable, continuing on financial facts alone")
		return ectx
	}

	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		logrus.WithError(err).Warn("economic research response unparseable")
		return ectx
	}
	var payload researchPayload
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		logrus.WithError(err).Warn("economic research response did not match expected shape")
		return ectx
	}

	ectx.Available = true
	ectx.EnrollmentTrend = normalizeTrend(payload.EnrollmentTrend)
	ectx.NewSupply = payload.NewSupply
	ectx.FullAnalysis = payload.Analysis
	return ectx
}

// EnrollmentStableDefault is what the decision branches assume when no
// research is available.
const EnrollmentStableDefault = models.EnrollmentStable

func (a *Analyzer) buildPrompt(property models.PropertyInfo, month time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Research the student housing market for the property %q", property.Name)
	if property.University != "" {
		fmt.Fprintf(&sb, " serving %s", property.University)
	}
	if property.City != "" {
		fmt.Fprintf(&sb, " in %s", property.City)
		if property.State != "" {
			fmt.Fprintf(&sb, ", %s", property.State)
		}
	}
	fmt.Fprintf(&sb, " as of %s.\n\n", month.Format("January 2006"))
	sb.WriteString(`Respond with JSON: {"enrollment_trend": "growing"|"declining"|"stable", "new_supply": true|false, "analysis": "<3-5 sentence market summary>"}`)
	return sb.String()
}

func normalizeTrend(s string) models.EnrollmentTrend {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "growing":
		return models.EnrollmentGrowing
	case "declining":
		return models.EnrollmentDeclining
	default:
		return models.EnrollmentStable
	}
}
