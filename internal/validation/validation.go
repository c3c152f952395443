// Package validation checks console form submissions before they reach the
// remote API.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Enum is implemented by value types with a closed set of allowed values.
// Fields of such types are checked with the "known" rule.
type Enum interface {
	Valid() bool
}

// Messages maps "field" or "field.rule" to the text shown for a violation.
// The more specific "field.rule" entry wins.
type Messages map[string]string

// FieldErrors maps a JSON field name to the first violation found on it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

func validate() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
		v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			return s == "" || emailPattern.MatchString(s)
		})
		v.RegisterValidation("known", func(fl validator.FieldLevel) bool {
			e, ok := fl.Field().Interface().(Enum)
			return ok && e.Valid()
		})
		engine = v
	})
	return engine
}

// Check validates v against its struct tags and returns nil or FieldErrors
// holding one message per offending field.
func Check(v interface{}, messages Messages) error {
	err := validate().Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validation: %w", err)
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = messageFor(messages, field, fe.Tag())
	}
	return out
}

func messageFor(messages Messages, field, tag string) string {
	if m, ok := messages[field+"."+tag]; ok {
		return m
	}
	if m, ok := messages[field]; ok {
		return m
	}
	return fmt.Sprintf("%s is invalid", field)
}
