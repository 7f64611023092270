package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/json2video/internal/batch"
	"github.com/ivlev/json2video/internal/logger"
	"github.com/ivlev/json2video/internal/params"
	"github.com/ivlev/json2video/internal/schema"
	"github.com/ivlev/json2video/internal/system"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		paramsPath string
		item       int
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build and validate requests from a parameter file",
		Long: "Build one request per parameter item and validate it.\n" +
			"Without --params the newest parameter file in the configured params directory is used.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if paramsPath == "" {
				latest, err := system.FindLatestFile(a.cfg.ParamsDir, system.ParamsExtensions...)
				if err != nil {
					return fmt.Errorf("%w. Put a parameter file in %s", err, a.cfg.ParamsDir)
				}
				paramsPath = latest
				logger.FromContext(cmd.Context()).Info("parameter file selected", "path", paramsPath)
			}

			store, err := params.Load(paramsPath)
			if err != nil {
				return fmt.Errorf("load parameters: %w", err)
			}
			opts, err := a.options()
			if err != nil {
				return err
			}

			runner := batch.NewRunner(a.builder(), a.orchestrator(),
				batch.WithWorkers(a.cfg.Workers),
				batch.WithOptions(opts),
			)

			var items []batch.Item
			if item > 0 {
				if item > store.Len() {
					return fmt.Errorf("item %d out of range: %s has %d items", item, paramsPath, store.Len())
				}
				items = []batch.Item{runner.RunItem(cmd.Context(), store, item-1)}
			} else {
				items, err = runner.Run(cmd.Context(), store)
				if err != nil {
					return err
				}
			}

			if outDir != "" {
				if err := writeRequests(outDir, items); err != nil {
					return err
				}
			}

			reports := make([]report, len(items))
			for i, it := range items {
				reports[i] = itemReport(it)
			}
			if err := a.printJSON(reports); err != nil {
				return err
			}
			if !batch.AllProceed(items) {
				return errCannotProceed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&paramsPath, "params", "", "Parameter file (YAML or JSON)")
	cmd.Flags().IntVar(&item, "item", 0, "Process only this item (1-based); 0 processes all")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to write built requests to")
	return cmd
}

func writeRequests(dir string, items []batch.Item) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, it := range items {
		if it.Build.Request == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("request_%03d.json", it.Index+1))
		if err := schema.WriteRequest(it.Build.Request, path); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
