// Package roi classifies scored records and aggregates their business value.
package roi

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/merhi-odg/roi-monitor/internal/models"
	"github.com/merhi-odg/roi-monitor/internal/params"
	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits actual ROI is rounded to.
const Places = 2

// Classify returns the outcome class of a record from its ground truth
// label and predicted label. Equality is checked first; unequal labels are
// ordered, so for 0/1 encodings label < score is a false positive.
func Classify(label, score, positiveClassLabel any) (models.OutcomeClass, error) {
	if models.Equal(label, score) {
		if models.Equal(label, positiveClassLabel) {
			return models.ClassTruePositive, nil
		}
		return models.ClassTrueNegative, nil
	}

	c, err := models.Compare(label, score)
	if err != nil {
		return "", err
	}
	if c < 0 {
		return models.ClassFalsePositive, nil
	}
	return models.ClassFalseNegative, nil
}

// ComputeMetrics classifies every record and returns the actual ROI report:
// the sum of amount * cost multiplier over all records, rounded half away
// from zero to two decimal places. An empty batch yields zero. Any bad
// record aborts the computation with a *DataError. A class missing from the
// cost multipliers fails the computation only when a record falls into it;
// a batch that never hits that class is scored normally.
func ComputeMetrics(records []models.Record, cfg *params.Configuration) (*models.MetricsReport, error) {
	b, err := Summarize(records, cfg)
	if err != nil {
		return nil, err
	}
	return NewReport(b, cfg), nil
}

// NewReport builds the metrics report for a completed aggregation.
func NewReport(b *Breakdown, cfg *params.Configuration) *models.MetricsReport {
	return models.NewActualROIReport(b.ActualROI, cfg.AmountField(), cfg.CostMultipliers())
}

// ClassStats aggregates the records of one outcome class.
type ClassStats struct {
	Class        models.OutcomeClass
	Count        int
	Amount       decimal.Decimal
	Multiplier   decimal.Decimal
	Configured   bool
	Contribution decimal.Decimal
}

// Breakdown is the per-class view of one aggregation.
type Breakdown struct {
	Records   int
	Classes   []ClassStats
	Total     decimal.Decimal
	ActualROI float64
}

// Stats returns the entry for class.
func (b *Breakdown) Stats(class models.OutcomeClass) ClassStats {
	for _, cs := range b.Classes {
		if cs.Class == class {
			return cs
		}
	}
	return ClassStats{Class: class}
}

// Summarize performs the aggregation behind ComputeMetrics and keeps the
// per-class counts and contributions.
func Summarize(records []models.Record, cfg *params.Configuration) (*Breakdown, error) {
	stats := make(map[models.OutcomeClass]*ClassStats, len(models.OutcomeClasses))
	for _, class := range models.OutcomeClasses {
		m, ok := cfg.CostMultiplier(class)
		stats[class] = &ClassStats{Class: class, Multiplier: m, Configured: ok}
	}

	total := decimal.Zero
	for i, rec := range records {
		class, amount, err := evaluate(i, rec, cfg)
		if err != nil {
			return nil, err
		}
		m, ok := cfg.CostMultiplier(class)
		if !ok {
			return nil, &DataError{Index: i, Err: fmt.Errorf("%w %s", ErrUnknownClass, class)}
		}

		value := amount.Mul(m)
		total = total.Add(value)

		cs := stats[class]
		cs.Count++
		cs.Amount = cs.Amount.Add(amount)
		cs.Contribution = cs.Contribution.Add(value)
	}

	b := &Breakdown{
		Records:   len(records),
		Total:     total,
		ActualROI: total.Round(Places).InexactFloat64(),
	}
	for _, class := range models.OutcomeClasses {
		b.Classes = append(b.Classes, *stats[class])
	}

	slog.Debug("Computed actual ROI",
		"records", b.Records,
		"actual_roi", b.ActualROI,
		"tp", stats[models.ClassTruePositive].Count,
		"tn", stats[models.ClassTrueNegative].Count,
		"fp", stats[models.ClassFalsePositive].Count,
		"fn", stats[models.ClassFalseNegative].Count)

	return b, nil
}

func evaluate(index int, rec models.Record, cfg *params.Configuration) (models.OutcomeClass, decimal.Decimal, error) {
	label, err := column(index, rec, cfg.LabelField())
	if err != nil {
		return "", decimal.Zero, err
	}
	score, err := column(index, rec, cfg.ScoreField())
	if err != nil {
		return "", decimal.Zero, err
	}
	rawAmount, err := column(index, rec, cfg.AmountField())
	if err != nil {
		return "", decimal.Zero, err
	}

	amount, err := models.ToDecimal(rawAmount)
	if err != nil {
		return "", decimal.Zero, &DataError{Index: index, Field: cfg.AmountField(), Err: fmt.Errorf("%w: %v", ErrInvalidAmount, err)}
	}

	class, err := Classify(label, score, cfg.PositiveClassLabel())
	if err != nil {
		return "", decimal.Zero, &DataError{Index: index, Field: cfg.LabelField(), Err: err}
	}
	return class, amount, nil
}

func column(index int, rec models.Record, name string) (any, error) {
	v, ok := rec[name]
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		ok = false
	}
	if !ok || v == nil {
		return nil, &DataError{Index: index, Field: name, Err: ErrMissingColumn}
	}
	return v, nil
}
