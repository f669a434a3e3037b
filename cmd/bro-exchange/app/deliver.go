package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/bro-exchange/bro-exchange/internal/status"
	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

var deliverCmd = &cobra.Command{
	Use:   "deliver <files...>",
	Short: "Validate and deliver request documents",
	Long: `Validate and deliver request documents. Every file is validated first and
only delivered when the portal reports it valid. Each file becomes its own delivery.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDeliver,
}

// deliverFiles validates and delivers the files one by one
func deliverFiles(
	ctx context.Context, portal broxml.Portal, records status.RecordPersistence, files []string, now func() time.Time,
) []outcome {
	outcomes := make([]outcome, 0, len(files))
	for _, file := range files {
		o := validateFile(ctx, portal, records, file, now)
		if o.err == nil && o.request.Validation().Valid() {
			o.err = deliverRequest(ctx, portal, records, o.request, now)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}

func deliverRequest(
	ctx context.Context, portal broxml.Portal, records status.RecordPersistence, req *broxml.Request, now func() time.Time,
) error {
	record, err := records.LoadRecord(ctx, req.Reference())
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}

	delivery, deliverErr := req.Deliver(ctx, portal)
	if deliverErr != nil {
		record.RecordFailure(deliverErr, now())
	} else {
		record.RecordDelivery(delivery, now())
	}

	if err := records.SaveRecord(ctx, req.Reference(), record); err != nil {
		return errors.Join(deliverErr, fmt.Errorf("failed to save record: %w", err))
	}
	return deliverErr
}

func printDeliveries(w io.Writer, outcomes []outcome) error {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		state, delivery, broID := "-", "-", "-"
		if o.request != nil {
			state = valueOr(o.request.ValidationStatus(), state)
			if d := o.request.Delivery(); d != nil {
				delivery = d.Identifier
				state = valueOr(d.Status, state)
				for _, doc := range d.Documents {
					broID = valueOr(doc.BroID, broID)
				}
			}
		}
		if o.err != nil {
			state = o.err.Error()
		}
		rows = append(rows, []string{o.file, valueOr(o.reference, "-"), delivery, state, broID})
	}
	return renderTable(w, []string{"FILE", "REFERENCE", "DELIVERY", "STATUS", "BRO ID"}, rows)
}

func runDeliver(cmd *cobra.Command, args []string) error {
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

	outcomes := deliverFiles(ctx, portal, env.records, args, time.Now)
	if err := printDeliveries(cmd.OutOrStdout(), outcomes); err != nil {
		return err
	}
	return outcomeError(outcomes)
}
