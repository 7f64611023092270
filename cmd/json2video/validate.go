package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/json2video/internal/logger"
	"github.com/ivlev/json2video/internal/schema"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a request document (JSON or YAML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := schema.ReadRequest(args[0])
			if err != nil {
				return fmt.Errorf("read request: %w", err)
			}
			opts, err := a.options()
			if err != nil {
				return err
			}

			out := a.orchestrator().Validate(doc, opts)
			logger.FromContext(cmd.Context()).Info(out.Summary(), "file", args[0])
			if err := a.printJSON(outcomeReport(out)); err != nil {
				return err
			}
			if !out.CanProceed {
				return errCannotProceed
			}
			return nil
		},
	}
}
