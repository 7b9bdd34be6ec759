// Package params loads the model parameters that drive the ROI computation.
// A Configuration is built once per process and is read-only afterwards.
package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/merhi-odg/roi-monitor/internal/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the parameters file the model host provides.
const DefaultFileName = "modelop_parameters.json"

// Dotted paths of the parameters this package reads.
const (
	ROISection              = "monitoring.business_value.ROI"
	PositiveClassLabelField = "monitoring.performance.positive_class_label"
)

// Configuration holds the resolved ROI parameters.
type Configuration struct {
	amountField        string
	scoreField         string
	labelField         string
	costMultipliers    map[models.OutcomeClass]decimal.Decimal
	positiveClassLabel any
}

// AmountField is the column holding the per-record monetary amount.
func (c *Configuration) AmountField() string { return c.amountField }

// ScoreField is the column holding the model's predicted label.
func (c *Configuration) ScoreField() string { return c.scoreField }

// LabelField is the column holding the ground truth label.
func (c *Configuration) LabelField() string { return c.labelField }

// PositiveClassLabel is the label value denoting the positive class.
func (c *Configuration) PositiveClassLabel() any { return c.positiveClassLabel }

// CostMultiplier returns the multiplier for class, and false when the
// parameters do not define one.
func (c *Configuration) CostMultiplier(class models.OutcomeClass) (decimal.Decimal, bool) {
	m, ok := c.costMultipliers[class]
	return m, ok
}

// CostMultipliers returns a copy of the configured multipliers.
func (c *Configuration) CostMultipliers() map[models.OutcomeClass]float64 {
	out := make(map[models.OutcomeClass]float64, len(c.costMultipliers))
	for class, m := range c.costMultipliers {
		out[class] = m.InexactFloat64()
	}
	return out
}

type roiParameters struct {
	AmountField     string         `mapstructure:"amount_field"`
	ScoreField      string         `mapstructure:"score_field"`
	LabelField      string         `mapstructure:"label_field"`
	CostMultipliers map[string]any `mapstructure:"cost_multipliers"`
}

// Initialize extracts and validates the ROI parameters from a decoded
// parameters document. Every lookup is checked; failures are returned as
// *ConfigurationError naming the offending field.
func Initialize(parameters map[string]any) (*Configuration, error) {
	roiSection, err := lookupSection(parameters, strings.Split(ROISection, "."))
	if err != nil {
		return nil, err
	}

	for _, key := range []string{"amount_field", "score_field", "label_field", "cost_multipliers"} {
		if v, ok := roiSection[key]; !ok || v == nil {
			return nil, missing(ROISection + "." + key)
		}
	}
	for _, key := range []string{"amount_field", "score_field", "label_field"} {
		name, ok := roiSection[key].(string)
		if !ok {
			return nil, invalid(ROISection+"."+key, "must be a string column name, got %T", roiSection[key])
		}
		if strings.TrimSpace(name) == "" {
			return nil, invalid(ROISection+"."+key, "must be a non-empty column name")
		}
	}

	var raw roiParameters
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: &raw,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(roiSection); err != nil {
		return nil, &ConfigurationError{Field: ROISection, Err: fmt.Errorf("%w: %v", ErrInvalidField, err)}
	}

	multipliers, err := parseCostMultipliers(raw.CostMultipliers)
	if err != nil {
		return nil, err
	}

	slog.Info("ROI parameters",
		"amount_field", raw.AmountField,
		"score_field", raw.ScoreField,
		"label_field", raw.LabelField,
		"cost_multipliers", raw.CostMultipliers)

	performance, err := lookupSection(parameters, []string{"monitoring", "performance"})
	if err != nil {
		return nil, &ConfigurationError{Field: PositiveClassLabelField, Err: ErrPositiveClassRequired}
	}
	positive, ok := performance["positive_class_label"]
	if !ok || positive == nil {
		return nil, &ConfigurationError{Field: PositiveClassLabelField, Err: ErrPositiveClassRequired}
	}
	slog.Info("Label of positive class", "positive_class_label", positive)

	for _, class := range models.OutcomeClasses {
		if _, ok := multipliers[class]; !ok {
			slog.Warn("No cost multiplier for outcome class; records in this class will fail aggregation",
				"class", class)
		}
	}

	return &Configuration{
		amountField:        raw.AmountField,
		scoreField:         raw.ScoreField,
		labelField:         raw.LabelField,
		costMultipliers:    multipliers,
		positiveClassLabel: positive,
	}, nil
}

// LoadFile reads a JSON or YAML parameters document and initializes a
// Configuration from it.
func LoadFile(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameters file: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	slog.Debug("Loaded parameters file", "path", path)
	return Initialize(doc)
}

// Parse decodes a JSON or YAML parameters document. JSON is decoded with
// encoding/json so numbers stay exact and a repeated key keeps its last
// value; anything else is read as YAML.
func Parse(data []byte) (map[string]any, error) {
	if doc, ok := parseJSON(data); ok {
		return doc, nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("%w: empty parameters document", ErrMissingField)}
	}
	return doc, nil
}

func parseJSON(data []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil || doc == nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	return doc, true
}

func parseCostMultipliers(raw map[string]any) (map[models.OutcomeClass]decimal.Decimal, error) {
	field := ROISection + ".cost_multipliers"
	if len(raw) == 0 {
		return nil, invalid(field, "at least one outcome class must be defined")
	}

	out := make(map[models.OutcomeClass]decimal.Decimal, len(raw))
	for key, v := range raw {
		class, ok := models.ParseOutcomeClass(key)
		if !ok {
			return nil, invalid(field+"."+key, "unknown outcome class (want one of TP, TN, FP, FN)")
		}
		if _, dup := out[class]; dup {
			return nil, invalid(field+"."+key, "outcome class %s defined more than once", class)
		}
		m, err := models.ToDecimal(v)
		if err != nil {
			return nil, invalid(field+"."+key, "%v", err)
		}
		out[class] = m
	}
	return out, nil
}

// lookupSection walks nested mappings and returns the mapping at path.
func lookupSection(root map[string]any, path []string) (map[string]any, error) {
	current := root
	for i, key := range path {
		v, ok := current[key]
		if !ok || v == nil {
			return nil, missing(strings.Join(path[:i+1], "."))
		}
		next, ok := asMap(v)
		if !ok {
			return nil, invalid(strings.Join(path[:i+1], "."), "expected a mapping, got %T", v)
		}
		current = next
	}
	return current, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v2 := range m {
			out[fmt.Sprint(k)] = v2
		}
		return out, true
	default:
		return nil, false
	}
}
