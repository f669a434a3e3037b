package broxml

import (
	"errors"
	"fmt"
	"strings"
)

// Constraint tells CheckMissingArgs how to treat an input argument
type Constraint int

const (
	// Obligated arguments must be present
	Obligated Constraint = iota
	// Optional arguments may be left out
	Optional
	// Fixed arguments carry a value dictated by the schema and are never checked
	Fixed
)

// String returns the constraint name
func (c Constraint) String() string {
	switch c {
	case Obligated:
		return "obligated"
	case Optional:
		return "optional"
	case Fixed:
		return "fixed"
	default:
		return fmt.Sprintf("Constraint(%d)", int(c))
	}
}

// Arg describes one input argument of a builder
type Arg struct {
	Name       string
	Constraint Constraint
	Present    bool
}

// Need is an obligated argument
func Need(name string, present bool) Arg {
	return Arg{Name: name, Constraint: Obligated, Present: present}
}

// Maybe is an optional argument
func Maybe(name string, present bool) Arg {
	return Arg{Name: name, Constraint: Optional, Present: present}
}

// ErrMissingArgs is matched by every *MissingArgsError
var ErrMissingArgs = errors.New("obligated input arguments missing")

// MissingArgsError lists the obligated arguments a builder did not receive
type MissingArgsError struct {
	Method  string
	Missing []string
}

func (e *MissingArgsError) Error() string {
	return fmt.Sprintf("obligated input arguments missing for '%s': %s", e.Method, strings.Join(e.Missing, " "))
}

// Is reports whether target is ErrMissingArgs
func (*MissingArgsError) Is(target error) bool {
	return target == ErrMissingArgs
}

// CheckMissingArgs returns a *MissingArgsError naming every obligated
// argument that is not present, in the order given.
func CheckMissingArgs(method string, args ...Arg) error {
	var missing []string
	for _, a := range args {
		if a.Constraint == Obligated && !a.Present {
			missing = append(missing, a.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingArgsError{Method: method, Missing: missing}
}
