// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"ourshop/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct checks the validate tags of a request struct and
// returns the first failure as a field error.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return apperr.Validation("Invalid request body")
	}
	return fieldError(fields[0])
}

func fieldError(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperr.InvalidField(field, field+" is required")
	case "email":
		return apperr.InvalidField(field, "Invalid email format")
	case "max":
		return apperr.InvalidField(field, field+" must be at most "+fe.Param()+" characters")
	case "min":
		return apperr.InvalidField(field, field+" must be at least "+fe.Param()+" characters")
	case "len":
		return apperr.InvalidField(field, field+" must be "+fe.Param()+" characters")
	case "oneof":
		return apperr.InvalidField(field, field+" must be one of: "+fe.Param())
	case "uuid":
		return apperr.InvalidField(field, "Invalid "+field)
	case "numeric":
		return apperr.InvalidField(field, field+" must contain digits only")
	}
	return apperr.InvalidField(field, "Invalid "+field)
}
