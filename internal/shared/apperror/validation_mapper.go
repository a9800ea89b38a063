package apperror

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var fieldCaser = cases.Title(language.English)

// formatFieldName turns a json name such as "tax_rate" into "Tax Rate".
func formatFieldName(s string) string {
	return fieldCaser.String(strings.ReplaceAll(s, "_", " "))
}

// MapValidationError reports the first failed binding rule as INVALID_INPUT
// with a message naming the field.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	}

	e := errs[0]
	field := formatFieldName(e.Field())

	switch e.Tag() {
	case "required":
		return RequiredField(field)
	case "oneof":
		return New(CodeInvalidInput, field+" must be one of: "+strings.Join(strings.Fields(e.Param()), ", "), http.StatusBadRequest)
	case "gt", "gte", "lt", "lte", "min", "max":
		if e.Kind() == reflect.String {
			return New(CodeInvalidInput, field+" has an invalid length", http.StatusBadRequest)
		}
		return New(CodeInvalidInput, field+" is out of range", http.StatusBadRequest)
	default:
		return InvalidField(field)
	}
}
