package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// Check is one validator tag plus the message shown when it fails.
type Check struct {
	Tag     string
	Message string
}

// FieldRule binds a field id to its value and ordered checks.
type FieldRule struct {
	Field  string
	Value  interface{}
	Checks []Check
}

// Rules evaluates field rules with go-playground/validator. The first
// failing check of a field produces that field's message.
type Rules struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewRules(now func() time.Time) *Rules {
	if now == nil {
		now = time.Now
	}
	r := &Rules{validate: validator.New(), now: now}

	_ = r.validate.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = r.validate.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = r.validate.RegisterValidation("pan", func(fl validator.FieldLevel) bool {
		return IsPAN(fl.Field().String())
	})
	_ = r.validate.RegisterValidation("min_age", func(fl validator.FieldLevel) bool {
		dob, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		min, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return AgeOn(dob, r.now()) >= min
	})

	return r
}

// Evaluate runs every rule and returns field -> message for failures.
func (r *Rules) Evaluate(rules []FieldRule) map[string]string {
	errs := map[string]string{}
	for _, rule := range rules {
		for _, check := range rule.Checks {
			if err := r.validate.Var(rule.Value, check.Tag); err != nil {
				errs[rule.Field] = check.Message
				break
			}
		}
	}
	return errs
}

// AgeOn returns whole years between dob and now. The year count drops by
// one when the birthday has not occurred yet in now's year.
func AgeOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// NormalizePAN upper-cases and trims a PAN-style identifier.
func NormalizePAN(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func IsPAN(s string) bool {
	return panPattern.MatchString(NormalizePAN(s))
}

func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}
