package models

import "strings"

// OutcomeClass is the confusion-matrix cell a scored record falls into.
type OutcomeClass string

const (
	ClassTruePositive  OutcomeClass = "TP"
	ClassTrueNegative  OutcomeClass = "TN"
	ClassFalsePositive OutcomeClass = "FP"
	ClassFalseNegative OutcomeClass = "FN"
)

// OutcomeClasses lists every class in report order.
var OutcomeClasses = []OutcomeClass{
	ClassTruePositive,
	ClassTrueNegative,
	ClassFalsePositive,
	ClassFalseNegative,
}

// ParseOutcomeClass maps a cost multiplier key onto an OutcomeClass.
// Matching is case-insensitive.
func ParseOutcomeClass(s string) (OutcomeClass, bool) {
	c := OutcomeClass(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case ClassTruePositive, ClassTrueNegative, ClassFalsePositive, ClassFalseNegative:
		return c, true
	}
	return "", false
}

// Description returns the long name of the class.
func (c OutcomeClass) Description() string {
	switch c {
	case ClassTruePositive:
		return "true positive"
	case ClassTrueNegative:
		return "true negative"
	case ClassFalsePositive:
		return "false positive"
	case ClassFalseNegative:
		return "false negative"
	default:
		return "unknown"
	}
}
