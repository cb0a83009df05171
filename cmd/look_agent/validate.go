package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a style plan file without assembling it",
	RunE:  runValidate,
}

var validatePlanPath string

func init() {
	validateCmd.Flags().StringVarP(&validatePlanPath, "plan", "p", "", "Path to the style plan JSON file (required)")
	_ = validateCmd.MarkFlagRequired("plan")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	plan, err := loadPlan(validatePlanPath)
	if err != nil {
		return err
	}
	if err := plan.Validate(); err != nil {
		return err
	}

	fmt.Printf("Plan %s is valid: %d required slots, budget %.2f %s\n",
		plan.LookID, len(plan.RequiredSlots), plan.BudgetTotal, plan.Currency)
	return nil
}
