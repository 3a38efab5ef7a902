package validation

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	nonstd "github.com/go-playground/validator/v10/non-standard/validators"

	appErrors "github.com/schoolmgmt/core-api/pkg/errors"
)

// phonePattern matches an optional leading + followed by 10 to 15 digits.
var phonePattern = regexp.MustCompile(`^[+]?[0-9]{10,15}$`)

// Rule binds one field constraint to its declared message. Either Tag (a
// validator/v10 tag expression evaluated against Value) or Check (an
// arbitrary predicate) decides the outcome.
type Rule struct {
	Field   string
	Value   interface{}
	Tag     string
	Check   func() bool
	Message string
}

// Validator walks per-entity rule tables and accumulates every violation.
// Rules never short-circuit: callers get the complete set of failures for a
// record in one pass.
type Validator struct {
	v *validator.Validate
}

// New constructs a Validator with the domain tag set registered.
func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("notblank", nonstd.NotBlank)
	_ = v.RegisterValidation("phone", phone)
	_ = v.RegisterValidation("pastdate", pastDate)
	return &Validator{v: v}
}

// Apply evaluates every rule and returns all violations in table order.
func (va *Validator) Apply(rules []Rule) []appErrors.FieldViolation {
	var out []appErrors.FieldViolation
	for _, r := range rules {
		failed := false
		switch {
		case r.Check != nil:
			failed = !r.Check()
		case r.Tag != "":
			failed = va.v.Var(r.Value, r.Tag) != nil
		}
		if failed {
			out = append(out, appErrors.FieldViolation{Field: r.Field, Message: r.Message})
		}
	}
	return out
}

func phone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// pastDate accepts dates strictly before today. Dates are compared by
// calendar day in UTC, so a birth date equal to today is rejected.
func pastDate(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return DateOf(t).Before(Today())
}

// Today returns the current calendar date at midnight UTC.
func Today() time.Time {
	return DateOf(time.Now().UTC())
}

// DateOf truncates a timestamp to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
