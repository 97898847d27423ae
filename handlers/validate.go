// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/palette/aggregate"
)

var requestValidator = aggregate.NewValidator()

// validateRequest checks a decoded request body and returns a client-facing
// message for the first violation
func validateRequest(req any) (string, bool) {
	err := requestValidator.Struct(req)
	if err == nil {
		return "", true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request", false
	}
	return fieldMessage(verrs[0]), false
}

func fieldMessage(fe validator.FieldError) string {
	// Namespace keeps the index for slice elements, e.g. photoIds[2]
	field := fe.Field()
	if ns := fe.Namespace(); strings.Contains(ns, ".") {
		_, field, _ = strings.Cut(ns, ".")
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("%s must have at most %s entries", field, fe.Param())
		case reflect.String:
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	}
	return field + " is invalid"
}

// recordMessage turns an engine validation error into a client-facing message
func recordMessage(err error) string {
	var re *aggregate.RecordError
	if errors.As(err, &re) && re.Field != "" {
		if errors.Is(err, aggregate.ErrInvalidWinner) {
			return re.Field + " must be A or B"
		}
		return re.Field + " is invalid"
	}
	return "Invalid record"
}
