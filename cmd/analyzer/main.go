package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"

	"cashforecast/pkg/core/decision"
	"cashforecast/pkg/core/econ"
	"cashforecast/pkg/core/numfmt"
	"cashforecast/pkg/core/pipeline"
	"cashforecast/pkg/models"
)

func loadPolicy(path string) (decision.PolicyConfig, error) {
	policy := decision.DefaultPolicy()
	if path == "" {
		return policy, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return policy, fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("parse policy file: %w", err)
	}
	return policy, nil
}

func buildAnalyzer(providerName string) *econ.Analyzer {
	switch providerName {
	case "gemini":
		return econ.NewAnalyzer(&econ.GeminiProvider{})
	case "openai":
		return econ.NewAnalyzer(&econ.OpenAIProvider{})
	case "none", "":
		return nil
	default:
		log.Fatalf("unknown provider %q (want gemini, openai, or none)", providerName)
		return nil
	}
}

func main() {
	forecastPath := flag.String("forecast", "", "path to the cash forecast workbook (.xlsx)")
	forecastSheet := flag.String("sheet", "", "sheet name within the workbook (default: first sheet)")
	incomePath := flag.String("income", "", "path to the income statement PDF")
	balancePath := flag.String("balance", "", "path to the balance sheet PDF")
	propertyName := flag.String("property", "", "property name")
	university := flag.String("university", "", "affiliated institution")
	city := flag.String("city", "", "property city")
	state := flag.String("state", "", "property state")
	policyPath := flag.String("policy", "", "path to a YAML policy override file")
	providerName := flag.String("provider", "none", "economic research provider: gemini, openai, or none")
	asJSON := flag.Bool("json", false, "print the full recommendation as JSON")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *forecastPath == "" || *incomePath == "" || *balancePath == "" || *propertyName == "" {
		flag.Usage()
		log.Fatal("Error: -forecast, -income, -balance, and -property are required.")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}
	logrus.SetLevel(logrus.InfoLevel)
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	policy, err := loadPolicy(*policyPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	p := pipeline.New(policy, buildAnalyzer(*providerName))
	rec, err := p.Run(context.Background(), pipeline.RunRequest{
		ForecastPath:        *forecastPath,
		ForecastSheet:       *forecastSheet,
		IncomeStatementPath: *incomePath,
		BalanceSheetPath:    *balancePath,
		Property: models.PropertyInfo{
			Name:       *propertyName,
			University: *university,
			City:       *city,
			State:      *state,
		},
	})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if *asJSON {
		out, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		fmt.Println(string(out))
		return
	}
	printRecommendation(rec)
}

func printRecommendation(rec *models.Recommendation) {
	fmt.Printf("\n=== Capital Allocation Recommendation: %s ===\n", rec.PropertyName)
	fmt.Printf("Analysis month: %s | Projected month: %s | Run: %s\n\n", rec.AnalysisMonth, rec.ProjectedMonth, rec.RunID)

	fmt.Printf("Decision: %s", rec.Decision)
	if rec.Amount != nil {
		fmt.Printf(" $%s", numfmt.Format(*rec.Amount))
	}
	fmt.Printf(" (confidence: %s)\n\n", rec.Confidence)

	fmt.Println("Executive Summary:")
	for _, b := range rec.ExecutiveSummary {
		fmt.Printf("  - %s\n", b)
	}

	sections := []struct {
		title string
		body  string
	}{
		{"Cash Forecast", rec.DetailedRationale.CashForecastAnalysis},
		{"Income Statement", rec.DetailedRationale.IncomeStatementAnalysis},
		{"Balance Sheet", rec.DetailedRationale.BalanceSheetAnalysis},
		{"Economic Context", rec.DetailedRationale.EconomicContext},
		{"Risk Assessment", rec.DetailedRationale.RiskAssessment},
		{"Decision Rationale", rec.DetailedRationale.DecisionRationale},
	}
	for _, s := range sections {
		if s.body == "" {
			continue
		}
		fmt.Printf("\n--- %s ---\n%s\n", s.title, s.body)
	}
}
