package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/bro-exchange/bro-exchange/internal/status"
	"github.com/bro-exchange/bro-exchange/pkg/connector"
)

var statusCmd = &cobra.Command{
	Use:   "status [delivery-id]",
	Short: "Look up deliveries and update the records of their requests",
	Long: `Look up a delivery and update the records of its requests. Without an id every
delivery referenced by a record in the state directory is refreshed.`,
	Args: cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

var statusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the delivery records in the state directory",
	Args:  cobra.NoArgs,
	RunE:  runStatusList,
}

func init() {
	statusCmd.AddCommand(statusListCmd)
}

// refreshStatus looks up delivery id and updates every record that belongs to it
func refreshStatus(
	ctx context.Context, portal connector.Client, records status.RecordPersistence, id string, now func() time.Time,
) (*connector.Delivery, error) {
	delivery, err := portal.DeliveryStatus(ctx, id)
	if err != nil {
		return nil, err
	}

	all, err := records.LoadAllRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	for reference, record := range all {
		if record.DeliveryID != delivery.Identifier {
			continue
		}
		record.RecordDelivery(delivery, now())
		if err := records.SaveRecord(ctx, reference, record); err != nil {
			return nil, fmt.Errorf("failed to save record %s: %w", reference, err)
		}
		slog.Debug("Record updated", "reference", reference, "status", delivery.Status)
	}
	return delivery, nil
}

// refreshAll refreshes every delivery a record refers to. Failed lookups are
// logged and stored on the records; the first error is returned.
func refreshAll(
	ctx context.Context, portal connector.Client, records status.RecordPersistence, now func() time.Time,
) error {
	all, err := records.LoadAllRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	ids := make(map[string][]string)
	for reference, record := range all {
		if record.DeliveryID != "" {
			ids[record.DeliveryID] = append(ids[record.DeliveryID], reference)
		}
	}

	var firstErr error
	for id, references := range ids {
		if _, err := refreshStatus(ctx, portal, records, id, now); err != nil {
			slog.Warn("Failed to refresh delivery", "delivery_id", id, "error", err)
			for _, reference := range references {
				all[reference].RecordFailure(err, now())
				if err := records.SaveRecord(ctx, reference, all[reference]); err != nil {
					slog.Warn("Failed to save record", "reference", reference, "error", err)
				}
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func printRecords(w io.Writer, records map[string]*status.DeliveryRecord) error {
	references := make([]string, 0, len(records))
	for reference := range records {
		references = append(references, reference)
	}
	sort.Strings(references)

	rows := make([][]string, 0, len(records))
	for _, reference := range references {
		r := records[reference]
		last := "-"
		if r.LastAttempt != nil {
			last = r.LastAttempt.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			reference,
			string(r.Phase),
			valueOr(r.DeliveryID, "-"),
			valueOr(r.DeliveryStatus, "-"),
			valueOr(r.BroID, "-"),
			last,
			r.Message,
		})
	}
	return renderTable(w, []string{"REFERENCE", "PHASE", "DELIVERY", "STATUS", "BRO ID", "LAST ATTEMPT", "MESSAGE"}, rows)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	portal, err := env.portal()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		delivery, err := refreshStatus(ctx, portal, env.records, args[0], time.Now)
		if err != nil {
			return err
		}
		return printDelivery(cmd.OutOrStdout(), delivery)
	}

	refreshErr := refreshAll(ctx, portal, env.records, time.Now)
	records, err := env.records.LoadAllRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	if err := printRecords(cmd.OutOrStdout(), records); err != nil {
		return err
	}
	return refreshErr
}

func runStatusList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	records, err := env.records.LoadAllRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	return printRecords(cmd.OutOrStdout(), records)
}
