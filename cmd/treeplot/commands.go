package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/logicalschema/data608-treehealth-dash/internal/adapter/mapbox"
	"github.com/logicalschema/data608-treehealth-dash/internal/adapter/xlsx"
	"github.com/logicalschema/data608-treehealth-dash/internal/domain"
	"github.com/logicalschema/data608-treehealth-dash/internal/observability"
	"github.com/logicalschema/data608-treehealth-dash/internal/pipeline"
)

const basemapTimeout = 10 * time.Second

func newSummaryCmd(a *app) *cobra.Command {
	var (
		sf     selectionFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the health proportion summary for a selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.pipeline(cmd, "", nil)
			if err != nil {
				return err
			}
			sel, err := sf.selection(cmd, p)
			if err != nil {
				return err
			}
			view, err := p.Summary(cmd.Context(), sel)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			for _, line := range view.Lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	sf.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary view as JSON")
	return cmd
}

func newBarCmd(a *app) *cobra.Command {
	var (
		sf     selectionFlags
		out    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "bar",
		Short: "Render the grouped bar chart of health by steward tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.pipeline(cmd, "", nil)
			if err != nil {
				return err
			}
			sel, err := sf.selection(cmd, p)
			if err != nil {
				return err
			}
			if asJSON {
				view, err := p.Bar(cmd.Context(), sel)
				if err != nil {
					return err
				}
				return writeOutput(cmd, out, func(w io.Writer) error {
					return json.NewEncoder(w).Encode(view.Figure)
				})
			}
			return writeOutput(cmd, out, func(w io.Writer) error {
				return p.BarPNG(cmd.Context(), sel, w)
			})
		},
	}
	sf.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "bar.png", `output file, "-" for stdout`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the Plotly figure JSON instead of a PNG")
	return cmd
}

func newMapCmd(a *app) *cobra.Command {
	var (
		sf     selectionFlags
		out    string
		static bool
	)
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Render the density raster, optionally over a Mapbox basemap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				token   string
				basemap pipeline.Basemap
			)
			if static {
				var err error
				if token, err = a.readToken(); err != nil {
					return err
				}
				metrics := observability.NewMetricsWith(prometheus.NewRegistry())
				style := sharedcfg.EnvOrDefault("MAPBOX_STATIC_STYLE", "mapbox/light-v11")
				basemap = mapbox.NewStaticClient(token, style, basemapTimeout, metrics, a.logger(cmd))
			}

			p, err := a.pipeline(cmd, token, basemap)
			if err != nil {
				return err
			}
			sel, err := sf.selection(cmd, p)
			if err != nil {
				return err
			}

			render := p.MapImage
			if static {
				render = p.StaticMap
			}
			img, err := render(cmd.Context(), sel)
			if err != nil {
				return err
			}

			return writeOutput(cmd, out, func(w io.Writer) error {
				return png.Encode(w, img)
			})
		},
	}
	sf.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "map.png", `output file, "-" for stdout`)
	cmd.Flags().BoolVar(&static, "static", false, "composite over the Mapbox static basemap (needs --token-file)")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		sf  selectionFlags
		out string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered rows and their summary to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.pipeline(cmd, "", nil)
			if err != nil {
				return err
			}
			sel, err := sf.selection(cmd, p)
			if err != nil {
				return err
			}
			rows, err := p.Filter(sel)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, func(w io.Writer) error {
				return xlsx.Export(w, sel, rows)
			})
		},
	}
	sf.bind(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "trees.xlsx", `output file, "-" for stdout`)
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Print dataset statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := a.loadTable(cmd)
			if err != nil {
				return err
			}
			prof, err := domain.ProfileTable(table)
			if err != nil {
				return err
			}
			printProfile(cmd, prof, domain.HealthProportions(table.Rows()))
			return nil
		},
	}
}

func printProfile(cmd *cobra.Command, prof domain.Profile, health []domain.Proportion) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rows: %d\n", prof.Rows)
	fmt.Fprintf(out, "Species: %d (trees per species: mean=%.1f, median=%.1f, max=%.0f)\n",
		prof.Species, prof.SpeciesMeanTrees, prof.SpeciesMedianTrees, prof.SpeciesMaxTrees)
	fmt.Fprintf(out, "Boroughs (%d):\n", len(prof.Boroughs))
	for _, b := range prof.Boroughs {
		fmt.Fprintf(out, "  %-15s %d\n", b.Borough, b.Trees)
	}
	fmt.Fprintf(out, "Extent: lon [%.5f, %.5f] lat [%.5f, %.5f]\n",
		prof.Extent.MinLon, prof.Extent.MaxLon, prof.Extent.MinLat, prof.Extent.MaxLat)
	fmt.Fprintln(out, "Health:")
	for _, pr := range health {
		fmt.Fprintf(out, "  %s\n", pr)
	}
}
