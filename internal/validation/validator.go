// Package validation decodes JSON request bodies strictly and checks them
// against declarative struct schemas.  Violations are reported as a list of
// {property, message} pairs and rendered as a 400 response.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// FieldError is one schema violation.
type FieldError struct {
	Property string `json:"property"`
	Message  string `json:"message"`
}

// Error carries every violation found in a request body.
type Error struct {
	Errors []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Property+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator implements echo.Validator on top of go-playground/validator.
// Property names are reported using the json tag of each field.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that names fields after their json tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate runs the struct's validate tags.  It returns *Error on violations.
func (v *Validator) Validate(i interface{}) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{Property: property(fe.Namespace()), Message: message(fe)})
	}
	return out
}

// property drops the root struct name from a validator namespace.
func property(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return fmt.Sprintf("failed the %q rule", fe.Tag())
}

// BindStrict decodes the JSON body into dst, rejecting unknown fields and
// mistyped values, then validates dst with the Echo instance's validator.
// An empty body decodes as an empty object.
func BindStrict(c echo.Context, dst interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return decodeError(err)
	}
	if c.Echo().Validator == nil {
		return New().Validate(dst)
	}
	return c.Validate(dst)
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		prop := typeErr.Field
		if prop == "" {
			prop = "body"
		}
		return &Error{Errors: []FieldError{{Property: prop, Message: "must be of type " + jsonKind(typeErr.Type)}}}
	}
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, "json: unknown field "); ok {
		name, uerr := strconv.Unquote(rest)
		if uerr != nil {
			name = rest
		}
		return &Error{Errors: []FieldError{{Property: name, Message: "is not allowed"}}}
	}
	return &Error{Errors: []FieldError{{Property: "body", Message: "must be a valid JSON object"}}}
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	return "object"
}

// Respond writes the 400 envelope for a validation failure.  Errors that are
// not validation errors are returned unchanged for the caller to handle.
func Respond(c echo.Context, err error) error {
	var verr *Error
	if !errors.As(err, &verr) {
		return err
	}
	return c.JSON(http.StatusBadRequest, echo.Map{
		"message": "Validation failed",
		"errors":  verr.Errors,
	})
}
