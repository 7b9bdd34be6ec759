package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // All batches scored
	ExitLoss    = 1 // At least one batch has a negative actual ROI (--fail-on-loss)
	ExitError   = 2 // Configuration or data error
)

// LossError indicates that every batch was scored, but at least one
// produced a negative actual ROI.
type LossError struct {
	Message string
}

func (e *LossError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var lossErr *LossError
		if errors.As(err, &lossErr) {
			os.Exit(ExitLoss)
		}

		// All other errors are configuration/data errors
		os.Exit(ExitError)
	}
}
