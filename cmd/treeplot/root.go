package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/logicalschema/data608-treehealth-dash/internal/adapter/mapbox"
	"github.com/logicalschema/data608-treehealth-dash/internal/adapter/treecsv"
	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
	"github.com/logicalschema/data608-treehealth-dash/internal/observability"
	"github.com/logicalschema/data608-treehealth-dash/internal/pipeline"
)

// app carries the persistent flags shared by every subcommand.
type app struct {
	datasetPath string
	tokenFile   string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "treeplot",
		Short:        "Render street tree health views without the web server",
		SilenceUsage:  true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				slog.Warn("failed to read .env", "error", err)
			}
		},
	}

	root.PersistentFlags().StringVar(&a.datasetPath, "dataset",
		sharedcfg.EnvOrDefault("DATASET_PATH", "assets/2015_Street_Tree_Census_-_Tree_Data.csv.gz"),
		"gzip-compressed census CSV")
	root.PersistentFlags().StringVar(&a.tokenFile, "token-file",
		sharedcfg.EnvOrDefault("MAPBOX_TOKEN_FILE", "assets/api.key"),
		"file holding the Mapbox access token (only read by map --static)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log load statistics to stderr")

	root.AddCommand(
		newSummaryCmd(a),
		newBarCmd(a),
		newMapCmd(a),
		newExportCmd(a),
		newProfileCmd(a),
		newValidateCmd(a),
	)
	return root
}

func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func (a *app) loadTable(cmd *cobra.Command) (*domain.Table, error) {
	table, err := treecsv.Load(a.datasetPath, a.logger(cmd))
	if err != nil {
		return nil, err
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("dataset %s has no usable rows", a.datasetPath)
	}
	return table, nil
}

// pipeline loads the table and builds a pipeline around it. The metrics go
// to a private registry since a one-shot command has no scrape endpoint.
func (a *app) pipeline(cmd *cobra.Command, token string, basemap pipeline.Basemap) (*pipeline.Pipeline, error) {
	table, err := a.loadTable(cmd)
	if err != nil {
		return nil, err
	}
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())
	return pipeline.New(table, token, pipeline.DefaultSettings(), basemap, a.logger(cmd), metrics), nil
}

func (a *app) readToken() (string, error) {
	return mapbox.ReadToken(a.tokenFile)
}

// selectionFlags binds the three dashboard controls to a command.
type selectionFlags struct {
	species  []string
	boroughs []string
	steward  int
}

func (f *selectionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.species, "species", nil, "species common name (repeatable, default: dashboard defaults)")
	cmd.Flags().StringArrayVar(&f.boroughs, "borough", nil, "borough name (repeatable, default: all boroughs)")
	cmd.Flags().IntVar(&f.steward, "steward", domain.MaxSteward, "steward ceiling 0-3")
}

// selection resolves the flags against the pipeline defaults: an omitted
// list flag keeps the default list.
func (f *selectionFlags) selection(cmd *cobra.Command, p *pipeline.Pipeline) (domain.Selection, error) {
	sel := p.DefaultSelection()
	if cmd.Flags().Changed("species") {
		sel.Species = nonEmpty(f.species)
	}
	if cmd.Flags().Changed("borough") {
		sel.Boroughs = nonEmpty(f.boroughs)
	}
	sel.MaxSteward = f.steward
	return sel, p.Validate(sel)
}

func nonEmpty(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// writeOutput runs write against path, or against stdout for "-".
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) (err error) {
	if path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return write(f)
}
