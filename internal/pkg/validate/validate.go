package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. Field names in messages are the
// json names so they match what the caller sent.
var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return val
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var missing, invalid []string
		for _, fe := range ve {
			if fe.Tag() == "required" {
				missing = append(missing, fe.Field())
				continue
			}
			invalid = append(invalid, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		var msgs []string
		if len(missing) > 0 {
			msgs = append(msgs, "missing required fields: "+strings.Join(missing, ", "))
		}
		if len(invalid) > 0 {
			msgs = append(msgs, "invalid fields: "+strings.Join(invalid, ", "))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}
