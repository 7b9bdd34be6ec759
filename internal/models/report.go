package models

// Static identity of the business value test result.
const (
	ActualROITestName     = "Actual ROI"
	ActualROITestCategory = "business_value"
	ActualROITestType     = "actual_roi"
	ActualROITestID       = "business_value_actual_roi"
)

// Record is one row of a production batch keyed by column name. Values are
// whatever the loader produced: strings for CSV, json.Number/string/bool for
// JSON, native Go values when built in code.
type Record map[string]any

// MetricsReport is the result of one ROI aggregation over a batch.
type MetricsReport struct {
	ActualROI     float64      `json:"actual_roi"`
	AmountField   string       `json:"amount_field"`
	BusinessValue []TestResult `json:"business_value"`
}

// TestResult is one entry of the business_value array.
type TestResult struct {
	TestName     string    `json:"test_name"`
	TestCategory string    `json:"test_category"`
	TestType     string    `json:"test_type"`
	TestID       string    `json:"test_id"`
	Values       ROIValues `json:"values"`
}

// ROIValues repeats the inputs and output of the computation for audit.
type ROIValues struct {
	ActualROI       float64                  `json:"actual_roi"`
	AmountField     string                   `json:"amount_field"`
	CostMultipliers map[OutcomeClass]float64 `json:"cost_multipliers"`
}

// NewActualROIReport bundles an actual ROI value into a MetricsReport.
func NewActualROIReport(actualROI float64, amountField string, costMultipliers map[OutcomeClass]float64) *MetricsReport {
	return &MetricsReport{
		ActualROI:   actualROI,
		AmountField: amountField,
		BusinessValue: []TestResult{
			{
				TestName:     ActualROITestName,
				TestCategory: ActualROITestCategory,
				TestType:     ActualROITestType,
				TestID:       ActualROITestID,
				Values: ROIValues{
					ActualROI:       actualROI,
					AmountField:     amountField,
					CostMultipliers: costMultipliers,
				},
			},
		},
	}
}
