package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	// В сообщениях используем имена полей из JSON
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

func validateStruct(v *validator.Validate, item interface{}) error {
	if err := v.Struct(item); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			msg := fieldError.Field() + " is " + fieldError.Tag()
			if fieldError.Param() != "" {
				msg += "=" + fieldError.Param()
			}
			messages = append(messages, msg)
		}
		return strings.Join(messages, "; ")
	}
	return "Validation failed"
}
