package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/merhi-odg/roi-monitor/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one scored batch.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one business value test result.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitFailure represents a test assertion failure.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts batch results to JUnit XML, one suite per batch.
// A test case fails when its actual ROI is negative.
func ConvertToJUnit(results []*BatchResult) *JUnitTestSuites {
	out := &JUnitTestSuites{}

	for _, res := range results {
		suite := convertBatch(res)
		out.Tests += suite.Tests
		out.Failures += suite.Failures
		out.Time += suite.Time
		out.TestSuites = append(out.TestSuites, suite)
	}

	return out
}

func convertBatch(res *BatchResult) JUnitTestSuite {
	durationSec := float64(res.DurationMs) / 1000.0
	r := res.Report

	suite := JUnitTestSuite{
		Name:      res.Name,
		Time:      durationSec,
		Timestamp: res.Timestamp.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "amount_field", Value: r.AmountField},
			{Name: "actual_roi", Value: fmt.Sprintf("%.2f", r.ActualROI)},
		},
	}
	if res.Breakdown != nil {
		suite.Properties = append(suite.Properties, JUnitProperty{Name: "records", Value: fmt.Sprintf("%d", res.Breakdown.Records)})
	}

	for _, tr := range r.BusinessValue {
		tc := JUnitTestCase{
			Name:      tr.TestName,
			Classname: tr.TestCategory + "." + tr.TestType,
			Time:      durationSec,
		}
		if tr.Values.ActualROI < 0 {
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%s: actual_roi=%.2f", tr.TestName, tr.Values.ActualROI),
				Type:    "NegativeROI",
				Body:    formatMultipliers(tr.Values.CostMultipliers),
			}
			suite.Failures++
		}
		suite.Tests++
		suite.TestCases = append(suite.TestCases, tc)
	}

	return suite
}

func formatMultipliers(multipliers map[models.OutcomeClass]float64) string {
	if len(multipliers) == 0 {
		return ""
	}

	// Sort for deterministic output
	classes := make([]string, 0, len(multipliers))
	for class := range multipliers {
		classes = append(classes, string(class))
	}
	sort.Strings(classes)

	var b strings.Builder
	b.WriteString("cost multipliers:\n")
	for _, class := range classes {
		b.WriteString(fmt.Sprintf("  %s = %g\n", class, multipliers[models.OutcomeClass(class)]))
	}
	return b.String()
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(results []*BatchResult, path string) error {
	suites := ConvertToJUnit(results)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}
