package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tidwall/pretty"

	"github.com/ivlev/json2video/internal/builder"
	"github.com/ivlev/json2video/internal/config"
	"github.com/ivlev/json2video/internal/logger"
	"github.com/ivlev/json2video/internal/orchestrator"
	"github.com/ivlev/json2video/internal/validator"
)

// errCannotProceed marks runs whose output must not be submitted. The
// report has already been printed, so main only sets the exit code.
var errCannotProceed = errors.New("request cannot proceed")

type app struct {
	cfg        *config.Config
	log        logger.Logger
	out        io.Writer
	configPath string
}

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"log-level": "log.level",
	"log-json":  "log.json",
	"workers":   "workers",
	"pretty":    "pretty",
	"level":     "validation.level",
	"strict":    "validation.strict",
	"warnings":  "validation.include_warnings",
	"elements":  "validation.validate_elements",
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	d := config.Default()

	cmd := &cobra.Command{
		Use:           "json2video",
		Short:         "Build and validate JSON2Video render requests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	flags.String("log-level", d.Log.Level, "Log level: debug, info, warn, error, disabled")
	flags.Bool("log-json", d.Log.JSON, "Write logs as JSON")
	flags.Int("workers", d.Workers, "Items processed in parallel")
	flags.Bool("pretty", d.Pretty, "Indent JSON output")
	flags.String("level", d.Validation.Level, "Validation depth: structural, semantic, complete")
	flags.Bool("strict", d.Validation.Strict, "Refuse to proceed when validation fails")
	flags.Bool("warnings", d.Validation.IncludeWarnings, "Include warnings in reports")
	flags.Bool("elements", d.Validation.ValidateElements, "Validate element rules (off means structural only)")

	cmd.AddCommand(newBuildCmd(a), newValidateCmd(a), newProbeCmd(a))
	return cmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, func(v *viper.Viper) error {
		for name, key := range flagKeys {
			if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = cfg.Log.Logger()
	cmd.SetContext(logger.ContextWithLogger(cmd.Context(), a.log))
	return nil
}

func (a *app) options() (orchestrator.Options, error) {
	return a.cfg.Validation.Options()
}

func (a *app) builder() *builder.Builder {
	return builder.New(builder.WithLogger(a.log))
}

func (a *app) orchestrator() *orchestrator.Orchestrator {
	v := validator.New(validator.WithLogger(a.log))
	return orchestrator.New(v, orchestrator.WithLogger(a.log))
}

func (a *app) printJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if a.cfg.Pretty {
		data = pretty.Pretty(data)
	} else {
		data = append(pretty.Ugly(data), '\n')
	}
	_, err = a.out.Write(data)
	return err
}
