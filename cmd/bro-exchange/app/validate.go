package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bro-exchange/bro-exchange/internal/status"
	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

const defaultConcurrency = 4

var validateCmd = &cobra.Command{
	Use:   "validate <files...>",
	Short: "Validate request documents against the bronhouderportaal",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().Int("concurrency", defaultConcurrency, "Number of files validated at the same time")
}

// outcome is the result of validating or delivering one file
type outcome struct {
	file      string
	reference string
	request   *broxml.Request
	err       error
}

// openRequest reads and parses one request file
func openRequest(file string) (*broxml.Request, error) {
	data, err := os.ReadFile(filepath.Clean(file))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	req, err := broxml.ParseRequest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return req, nil
}

// validateFiles validates every file, at most limit at a time. A failing file
// does not stop the others; its error is kept in the outcome.
func validateFiles(
	ctx context.Context, portal broxml.Portal, records status.RecordPersistence,
	files []string, limit int, now func() time.Time,
) []outcome {
	outcomes := make([]outcome, len(files))

	var g errgroup.Group
	g.SetLimit(max(limit, 1))
	for i, file := range files {
		g.Go(func() error {
			outcomes[i] = validateFile(ctx, portal, records, file, now)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func validateFile(
	ctx context.Context, portal broxml.Portal, records status.RecordPersistence, file string, now func() time.Time,
) outcome {
	o := outcome{file: file}
	req, err := openRequest(file)
	if err != nil {
		o.err = err
		return o
	}
	o.request = req
	o.reference = req.Reference()

	record, err := records.LoadRecord(ctx, o.reference)
	if err != nil {
		o.err = fmt.Errorf("failed to load record: %w", err)
		return o
	}
	record.File = file

	res, err := req.Validate(ctx, portal)
	if err != nil {
		record.RecordFailure(err, now())
		o.err = err
	} else {
		record.RecordValidation(res, now())
	}

	if err := records.SaveRecord(ctx, o.reference, record); err != nil {
		o.err = errors.Join(o.err, fmt.Errorf("failed to save record: %w", err))
	}
	return o
}

func printValidation(w io.Writer, outcomes []outcome) error {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		state, messages := "-", ""
		if o.request != nil && o.request.Validation() != nil {
			state = o.request.ValidationStatus()
			messages = strings.Join(o.request.Validation().Errors, "; ")
		}
		if o.err != nil {
			messages = o.err.Error()
		}
		rows = append(rows, []string{o.file, valueOr(o.reference, "-"), state, messages})
	}
	return renderTable(w, []string{"FILE", "REFERENCE", "STATUS", "ERRORS"}, rows)
}

// outcomeError joins the errors of all outcomes; invalid requests count as errors too
func outcomeError(outcomes []outcome) error {
	var errs []error
	for _, o := range outcomes {
		switch {
		case o.err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", o.file, o.err))
		case o.request != nil && o.request.Validation() != nil && !o.request.Validation().Valid():
			errs = append(errs, fmt.Errorf("%s: %w", o.file, broxml.ErrNotValid))
		}
	}
	return errors.Join(errs...)
}

func runValidate(cmd *cobra.Command, args []string) error {
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
	limit, _ := cmd.Flags().GetInt("concurrency")

	outcomes := validateFiles(ctx, portal, env.records, args, limit, time.Now)
	if err := printValidation(cmd.OutOrStdout(), outcomes); err != nil {
		return err
	}
	return outcomeError(outcomes)
}
