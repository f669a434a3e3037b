package app

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bro-exchange/bro-exchange/pkg/gldexport"
)

type fakeLister struct {
	query        gldexport.Query
	measurements []gldexport.Measurement
	err          error
}

func (f *fakeLister) Measurements(_ context.Context, q gldexport.Query) ([]gldexport.Measurement, error) {
	f.query = q
	return f.measurements, f.err
}

func TestExportQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		begin, end string
		errMsg     string
	}{
		{name: "valid", begin: "2023-01-01", end: "2023-07-01"},
		{name: "bad_begin", begin: "01-01-2023", end: "2023-07-01", errMsg: "invalid --begin"},
		{name: "bad_end", begin: "2023-01-01", end: "tomorrow", errMsg: "invalid --end"},
		{name: "end_before_begin", begin: "2023-07-01", end: "2023-01-01", errMsg: "must be after --begin"},
		{name: "empty_period", begin: "2023-07-01", end: "2023-07-01", errMsg: "must be after --begin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q, err := exportQuery("GLD000000012345", tt.begin, tt.end, true)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "GLD000000012345", q.BroID)
			assert.True(t, q.Exact)
			assert.Equal(t, time.Date(2022, 12, 31, 23, 0, 0, 0, time.UTC), q.Begin.UTC())
		})
	}
}

func TestExportMeasurements(t *testing.T) {
	t.Parallel()

	value := 1.25
	lister := &fakeLister{measurements: []gldexport.Measurement{
		{
			Point:         gldexport.Point{Time: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Value: &value, Status: "goedgekeurd"},
			ObservationID: "_obs1",
		},
		{
			Point:         gldexport.Point{Time: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)},
			ObservationID: "_obs1",
		},
	}}
	q := gldexport.Query{BroID: "GLD000000012345"}

	var buf bytes.Buffer
	require.NoError(t, exportMeasurements(context.Background(), &buf, lister, q))
	assert.Equal(t, q, lister.query)

	out := buf.String()
	assert.Contains(t, out, "2023-01-01T00:00:00Z")
	assert.Contains(t, out, "1.25")
	assert.Contains(t, out, "goedgekeurd")
	assert.Contains(t, out, "_obs1")

	lister.err = errors.New("HTTP 404")
	require.Error(t, exportMeasurements(context.Background(), &buf, lister, q))
}
