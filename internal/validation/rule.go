package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// ErrorKind classifies a validation failure. The set is closed; every rule
// constructor below tags its failures with exactly one kind.
type ErrorKind string

const (
	KindRequired        ErrorKind = "REQUIRED"
	KindTooShort        ErrorKind = "TOO_SHORT"
	KindTooLong         ErrorKind = "TOO_LONG"
	KindPatternMismatch ErrorKind = "PATTERN_MISMATCH"
	KindInvalidValue    ErrorKind = "INVALID_VALUE"
	KindOutOfRange      ErrorKind = "OUT_OF_RANGE"
)

// Error is a single field-scoped validation failure.
type Error struct {
	Field   string
	Message string
	Kind    ErrorKind
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Outcome is the tagged result of a validation: either valid, or invalid
// with an ordered list of errors.
type Outcome struct {
	errs []Error
}

func Valid() Outcome {
	return Outcome{}
}

func Invalid(errs ...Error) Outcome {
	return Outcome{errs: errs}
}

func (o Outcome) IsValid() bool {
	return len(o.errs) == 0
}

func (o Outcome) Errors() []Error {
	return o.errs
}

// First returns the first error, the most specific problem the value has.
func (o Outcome) First() (Error, bool) {
	if len(o.errs) == 0 {
		return Error{}, false
	}
	return o.errs[0], true
}

// Rule is a single kind-tagged predicate over a value. Rules are pure:
// validating the same value twice yields the same outcome.
type Rule[T any] struct {
	Kind    ErrorKind
	Message string
	check   func(T) bool
}

func (r Rule[T]) Validate(field string, value T) Outcome {
	if r.check(value) {
		return Valid()
	}
	return Invalid(Error{Field: field, Message: r.Message, Kind: r.Kind})
}

// Validator evaluates its rules in order and short-circuits on the first
// failure, so a field reports its most specific problem ("required" before
// "too short") rather than every violation at once.
type Validator[T any] struct {
	Field string
	Rules []Rule[T]
}

func (v Validator[T]) Validate(value T) Outcome {
	for _, r := range v.Rules {
		if out := r.Validate(v.Field, value); !out.IsValid() {
			return out
		}
	}
	return Valid()
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func NotEmpty() Rule[string] {
	return Rule[string]{
		Kind:    KindRequired,
		Message: "is required",
		check:   func(s string) bool { return strings.TrimSpace(s) != "" },
	}
}

func MinLength(n int) Rule[string] {
	return Rule[string]{
		Kind:    KindTooShort,
		Message: fmt.Sprintf("must be at least %d characters", n),
		check:   func(s string) bool { return len(strings.TrimSpace(s)) >= n },
	}
}

func MaxLength(n int) Rule[string] {
	return Rule[string]{
		Kind:    KindTooLong,
		Message: fmt.Sprintf("must be at most %d characters", n),
		check:   func(s string) bool { return len(strings.TrimSpace(s)) <= n },
	}
}

func Pattern(re *regexp.Regexp, message string) Rule[string] {
	return Rule[string]{
		Kind:    KindPatternMismatch,
		Message: message,
		check:   re.MatchString,
	}
}

func Email() Rule[string] {
	return Pattern(emailPattern, "must be a valid email address")
}

func Minimum(lo float64) Rule[float64] {
	return Rule[float64]{
		Kind:    KindOutOfRange,
		Message: fmt.Sprintf("must be at least %v", lo),
		check:   func(v float64) bool { return v >= lo },
	}
}

func Maximum(hi float64) Rule[float64] {
	return Rule[float64]{
		Kind:    KindOutOfRange,
		Message: fmt.Sprintf("must be at most %v", hi),
		check:   func(v float64) bool { return v <= hi },
	}
}

func Range(lo, hi float64) Rule[float64] {
	return Rule[float64]{
		Kind:    KindOutOfRange,
		Message: fmt.Sprintf("must be between %v and %v", lo, hi),
		check:   func(v float64) bool { return v >= lo && v <= hi },
	}
}

// Custom wraps a domain-specific predicate into a rule.
func Custom[T any](kind ErrorKind, message string, pred func(T) bool) Rule[T] {
	return Rule[T]{Kind: kind, Message: message, check: pred}
}
