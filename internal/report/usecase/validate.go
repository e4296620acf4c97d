package usecase

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	validator "gopkg.in/go-playground/validator.v9"

	"github.com/blankon/irgsh-report/internal/report/entity"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateReport checks the user supplied fields of a report request.
// Lengths are counted in runes.
func ValidateReport(req entity.ReportRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}

	fieldErr := fieldErrors[0]
	limit, _ := strconv.Atoi(fieldErr.Param())
	return &ValidationError{
		Field:  fieldErr.Field(),
		Rule:   fieldErr.Tag(),
		Length: fieldLength(req, fieldErr.StructField()),
		Limit:  limit,
	}
}

func fieldLength(req entity.ReportRequest, structField string) int {
	switch structField {
	case "Title":
		return utf8.RuneCountInString(req.Title)
	case "Description":
		return utf8.RuneCountInString(req.Description)
	case "Logs":
		if req.Logs != nil {
			return utf8.RuneCountInString(*req.Logs)
		}
	}
	return 0
}
