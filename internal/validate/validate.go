// Package validate holds the shared struct validator for decoded API payloads.
package validate

import (
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
    val := validator.New(validator.WithRequiredStructEnabled())
    // report json names so errors line up with the wire format
    val.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" {
            return ""
        }
        return name
    })
    _ = val.RegisterValidation("scalar", isScalar)
    return val
}

// isScalar accepts the primitive JSON kinds a parameter default may carry.
// json.Number is a string kind.
func isScalar(fl validator.FieldLevel) bool {
    switch fl.Field().Kind() {
    case reflect.String, reflect.Bool, reflect.Float32, reflect.Float64,
        reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
        return true
    }
    return false
}

// Struct validates s against its `validate` tags.
func Struct(s any) error { return v.Struct(s) }
