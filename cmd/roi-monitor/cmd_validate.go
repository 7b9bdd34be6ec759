package main

import (
	"fmt"

	"github.com/merhi-odg/roi-monitor/internal/params"
	"github.com/merhi-odg/roi-monitor/internal/validation"
	"github.com/spf13/cobra"
)

var validateParamsPath string

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a model parameters file",
		Long: `Validate a model parameters file against the parameters schema and
resolve the ROI configuration from it, reporting every problem found.`,
		Args: cobra.NoArgs,
		RunE: validateCommandE,
	}

	cmd.Flags().StringVarP(&validateParamsPath, "params", "p", params.DefaultFileName, "Model parameters file (JSON or YAML)")

	return cmd
}

func validateCommandE(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	violations, err := validation.ValidateParamsFile(validateParamsPath)
	if err != nil {
		return err
	}

	if len(violations) > 0 {
		fmt.Fprintf(out, "✗ %s has %d schema violation(s):\n", validateParamsPath, len(violations)) //nolint:errcheck
		for _, v := range violations {
			fmt.Fprintf(out, "  - %s\n", v) //nolint:errcheck
		}
		return &params.ConfigurationError{Err: fmt.Errorf("%s does not match the parameters schema", validateParamsPath)}
	}

	cfg, err := params.LoadFile(validateParamsPath)
	if err != nil {
		fmt.Fprintf(out, "✗ %s\n", err) //nolint:errcheck
		return err
	}

	fmt.Fprintf(out, "✓ %s is valid\n", validateParamsPath)
	fmt.Fprintf(out, "  amount_field: %s, score_field: %s, label_field: %s\n", cfg.AmountField(), cfg.ScoreField(), cfg.LabelField())
	fmt.Fprintf(out, "  positive_class_label: %v\n", cfg.PositiveClassLabel())
	return nil
}
