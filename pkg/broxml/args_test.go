package broxml_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/bro-exchange/bro-exchange/pkg/broxml"
)

func TestCheckMissingArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        []broxml.Arg
		wantMissing []string
	}{
		{
			name: "all present",
			args: []broxml.Arg{broxml.Need("a", true), broxml.Maybe("b", false)},
		},
		{
			name:        "optional and fixed are ignored",
			args:        []broxml.Arg{broxml.Need("a", false), broxml.Maybe("b", false), {Name: "c", Constraint: broxml.Fixed}},
			wantMissing: []string{"a"},
		},
		{
			name:        "keeps order",
			args:        []broxml.Arg{broxml.Need("wellCode", false), broxml.Need("owner", true), broxml.Need("wellHeadProtector", false)},
			wantMissing: []string{"wellCode", "wellHeadProtector"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := broxml.CheckMissingArgs("gen_test", tt.args...)
			if tt.wantMissing == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, broxml.ErrMissingArgs)
			var missingErr *broxml.MissingArgsError
			require.ErrorAs(t, err, &missingErr)
			assert.Equal(t, "gen_test", missingErr.Method)
			assert.Equal(t, tt.wantMissing, missingErr.Missing)
		})
	}
}

func TestMissingArgsError_Message(t *testing.T) {
	t.Parallel()

	err := broxml.CheckMissingArgs("gmw_construction", broxml.Need("wellCode", false), broxml.Need("owner", false))
	assert.EqualError(t, err, "obligated input arguments missing for 'gmw_construction': wellCode owner")
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", err), broxml.ErrMissingArgs))
}

func TestCheckMissingArgs_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "n")
		args := make([]broxml.Arg, n)
		var want []string
		for i := range args {
			name := fmt.Sprintf("arg%d", i)
			constraint := broxml.Constraint(rapid.IntRange(0, 2).Draw(rt, "constraint"))
			present := rapid.Bool().Draw(rt, "present")
			args[i] = broxml.Arg{Name: name, Constraint: constraint, Present: present}
			if constraint == broxml.Obligated && !present {
				want = append(want, name)
			}
		}

		err := broxml.CheckMissingArgs("prop", args...)
		if len(want) == 0 {
			if err != nil {
				rt.Fatalf("unexpected error: %v", err)
			}
			return
		}

		var missingErr *broxml.MissingArgsError
		if !errors.As(err, &missingErr) {
			rt.Fatalf("expected MissingArgsError, got %v", err)
		}
		if fmt.Sprint(missingErr.Missing) != fmt.Sprint(want) {
			rt.Fatalf("missing %v, want %v", missingErr.Missing, want)
		}
	})
}

func TestConstraint_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "obligated", broxml.Obligated.String())
	assert.Equal(t, "optional", broxml.Optional.String())
	assert.Equal(t, "fixed", broxml.Fixed.String())
	assert.Equal(t, "Constraint(7)", broxml.Constraint(7).String())
}
