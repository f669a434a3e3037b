package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bro-exchange/bro-exchange/internal/telemetry"
	"github.com/bro-exchange/bro-exchange/pkg/gldexport"
)

var gldCmd = &cobra.Command{
	Use:   "gld",
	Short: "Groundwater level dossier commands",
}

var gldExportCmd = &cobra.Command{
	Use:   "export <broId>",
	Short: "Print the measurements of a groundwater level dossier",
	Long: `Print the measurements of a groundwater level dossier from the public BRO service.
Dates are YYYY-MM-DD and interpreted in Europe/Amsterdam. The service returns every
observation overlapping the period; --exact keeps only points within begin <= t < end.`,
	Args: cobra.ExactArgs(1),
	RunE: runGLDExport,
}

func init() {
	gldExportCmd.Flags().String("begin", "", "Observation period begin date (YYYY-MM-DD, required)")
	gldExportCmd.Flags().String("end", "", "Observation period end date (YYYY-MM-DD, required)")
	gldExportCmd.Flags().Bool("exact", false, "Only keep points within the period")
	gldExportCmd.Flags().String("export-url", gldexport.DefaultBaseURL, "Public GLD objects endpoint")

	for _, name := range []string{"begin", "end"} {
		if err := gldExportCmd.MarkFlagRequired(name); err != nil {
			slog.Error("Error marking flag required", "flag", name, "error", err)
		}
	}
	gldCmd.AddCommand(gldExportCmd)
}

// measurementLister returns the measurements of a dossier
type measurementLister interface {
	Measurements(ctx context.Context, q gldexport.Query) ([]gldexport.Measurement, error)
}

func exportQuery(broID, begin, end string, exact bool) (gldexport.Query, error) {
	q := gldexport.Query{BroID: broID, Exact: exact}
	var err error
	if q.Begin, err = gldexport.ParseDate(begin); err != nil {
		return q, fmt.Errorf("invalid --begin: %w", err)
	}
	if q.End, err = gldexport.ParseDate(end); err != nil {
		return q, fmt.Errorf("invalid --end: %w", err)
	}
	if !q.End.After(q.Begin) {
		return q, fmt.Errorf("--end %s must be after --begin %s", end, begin)
	}
	return q, nil
}

func exportMeasurements(ctx context.Context, w io.Writer, lister measurementLister, q gldexport.Query) error {
	measurements, err := lister.Measurements(ctx, q)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(measurements))
	for _, m := range measurements {
		value := "-"
		if m.Value != nil {
			value = strconv.FormatFloat(*m.Value, 'f', -1, 64)
		}
		rows = append(rows, []string{
			m.Time.Format(time.RFC3339),
			value,
			valueOr(m.Status, "-"),
			m.ObservationID,
		})
	}
	return renderTable(w, []string{"TIME", "VALUE", "STATUS", "OBSERVATION"}, rows)
}

func runGLDExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	begin, _ := cmd.Flags().GetString("begin")
	end, _ := cmd.Flags().GetString("end")
	exact, _ := cmd.Flags().GetBool("exact")
	q, err := exportQuery(args[0], begin, end, exact)
	if err != nil {
		return err
	}

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	metrics, err := telemetry.NewExportMetrics(env.telemetry.MeterProvider())
	if err != nil {
		return fmt.Errorf("failed to create export metrics: %w", err)
	}
	exportURL, _ := cmd.Flags().GetString("export-url")
	client := gldexport.New(
		gldexport.WithBaseURL(exportURL),
		gldexport.WithTracer(env.telemetry.Tracer()),
		gldexport.WithMetrics(metrics),
	)

	return exportMeasurements(ctx, cmd.OutOrStdout(), client, q)
}
