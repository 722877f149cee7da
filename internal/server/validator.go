package server

import (
    "errors"
    "fmt"
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"
)

// Validator is a wrapper around the actual validator that reports fields by
// their json names.
type Validator struct {
    validator *validator.Validate
}

func NewValidator() *Validator {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
        if name == "-" {
            return ""
        }
        return name
    })
    return &Validator{validator: v}
}

func (v *Validator) Struct(s any) error {
    return v.validator.Struct(s)
}

// ValidationMessage renders the first failed rule, e.g. "weight_kg must be gte 0".
func ValidationMessage(err error) string {
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) || len(verrs) == 0 {
        return err.Error()
    }
    fe := verrs[0]
    field := fe.Namespace()
    // drop the root struct name
    if _, rest, ok := strings.Cut(field, "."); ok {
        field = rest
    }
    if fe.Param() != "" {
        return fmt.Sprintf("%s must be %s %s", field, fe.Tag(), fe.Param())
    }
    return fmt.Sprintf("%s must be %s", field, fe.Tag())
}
