package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/hastd/internal/api"
	"github.com/jackzampolin/hastd/internal/pipeline"
)

var planSchema string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the field tasks and execution order for a schema",
	Long: `Decompose a schema into field tasks and print them with the order
and dependency levels they would run in. No LLM is called.

Examples:
  hastd plan --schema invoice
  hastd plan --schema ./schemas/report.yaml -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, _, err := loadConfig()
		if err != nil {
			return err
		}
		root, err := loadSchema(h, planSchema)
		if err != nil {
			return err
		}
		plan, err := pipeline.NewPlan(root)
		if err != nil {
			return err
		}
		return api.Output(plan)
	},
}

func init() {
	planCmd.Flags().StringVar(&planSchema, "schema", "", "Schema file or name in the schema library (required)")
	_ = planCmd.MarkFlagRequired("schema")

	rootCmd.AddCommand(planCmd)
}
