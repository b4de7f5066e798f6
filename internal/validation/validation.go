// Package validation checks request payloads before they reach the services.
// Failures are reported as a list of field-level messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"medtracker/internal/model"
)

// FieldError is a single failed constraint on a JSON property.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

// Errors collects every failed constraint of one payload.
type Errors []FieldError

func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages renders each failure as "<field> <message>".
func (e Errors) Messages() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.String())
	}
	return out
}

// Validator runs struct-tag validation with the custom date rules.
type Validator struct {
	v   *validator.Validate
	loc *time.Location
	now func() time.Time
}

// New creates a Validator. "notfuture" compares against today in loc.
func New(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.UTC
	}
	val := &Validator{
		v:   validator.New(validator.WithRequiredStructEnabled()),
		loc: loc,
		now: time.Now,
	}
	val.v.RegisterTagNameFunc(jsonName)
	_ = val.v.RegisterValidation("isodate", isoDate)
	_ = val.v.RegisterValidation("notfuture", val.notFuture)
	return val
}

// Struct validates s and returns Errors when any constraint fails.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := model.ParseDate(fl.Field().String())
	return err == nil
}

func (val *Validator) notFuture(fl validator.FieldLevel) bool {
	d, err := model.ParseDate(fl.Field().String())
	if err != nil {
		// isodate reports the format problem.
		return true
	}
	today := model.DateOf(val.now().In(val.loc))
	return !d.After(today.Time)
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "should not be empty"
	case "min":
		if isString && fe.Param() == "1" {
			return "should not be empty"
		}
		return fmt.Sprintf("must be longer than or equal to %s characters", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("must be shorter than or equal to %s characters", fe.Param())
		}
		return fmt.Sprintf("must not be greater than %s", fe.Param())
	case "gt":
		if fe.Param() == "0" {
			return "must be a positive number"
		}
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must not be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must not be greater than %s", fe.Param())
	case "isodate":
		return "must be a valid ISO 8601 date string"
	case "notfuture":
		return "must not be in the future"
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}
