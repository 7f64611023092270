package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/json2video/internal/logger"
	"github.com/ivlev/json2video/internal/probe"
	"github.com/ivlev/json2video/internal/system"
)

func newProbeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe SRC...",
		Short: "Print image dimensions of local files or URLs",
		Long: "Print image dimensions of local files or URLs.\n" +
			"A directory stands for the newest image inside it.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := probe.New(
				probe.WithTimeout(a.cfg.Probe.Timeout),
				probe.WithMaxBytes(a.cfg.Probe.MaxBytes),
			)

			failed := 0
			sources := resolveSources(cmd, args)
			for _, res := range p.All(cmd.Context(), sources, a.cfg.Probe.Workers) {
				if res.Err != nil {
					failed++
					fmt.Fprintf(a.out, "%s\terror: %v\n", res.Source, res.Err)
					continue
				}
				fmt.Fprintf(a.out, "%s\t%dx%d\t%s\n", res.Source, res.Width, res.Height, res.Format)
			}
			if failed > 0 {
				return errCannotProceed
			}
			return nil
		},
	}
}

// resolveSources replaces directory arguments with their newest image.
func resolveSources(cmd *cobra.Command, args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		fi, err := os.Stat(arg)
		if err != nil || !fi.IsDir() {
			continue
		}
		latest, err := system.FindLatestFile(arg, system.ImageExtensions...)
		if err != nil {
			logger.FromContext(cmd.Context()).Warn("no image found", "dir", arg, "error", err)
			continue
		}
		out[i] = latest
	}
	return out
}
