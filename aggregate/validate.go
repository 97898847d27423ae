// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/danielhkuo/palette/models"
)

var validate = NewValidator()

// NewValidator returns the validator used for records and request bodies.
// Fields are reported by their JSON names, and the notblank tag rejects
// whitespace-only strings.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ValidatePhoto checks a photo's required fields and author enumeration.
func ValidatePhoto(p models.Photo) error {
	return checkPhoto(0, p)
}

// ValidateVote checks a vote. An out-of-range winner yields ErrInvalidWinner,
// any other violation ErrInvalidInput.
func ValidateVote(v models.Vote) error {
	return checkVote(0, v)
}

// ValidateRating checks a rating's photo reference and score range.
func ValidateRating(r models.Rating) error {
	return checkRating(0, r)
}

func checkPhoto(i int, p models.Photo) error {
	if err := validate.Struct(p); err != nil {
		return newRecordError(models.KindPhoto, i, err, ErrInvalidInput)
	}
	return nil
}

func checkVote(i int, v models.Vote) error {
	if !v.Winner.Valid() {
		return &RecordError{Kind: models.KindVote, Index: i, Field: "winner", Err: ErrInvalidWinner}
	}
	if err := validate.Struct(v); err != nil {
		return newRecordError(models.KindVote, i, err, ErrInvalidInput)
	}
	return nil
}

func checkRating(i int, r models.Rating) error {
	if err := validate.Struct(r); err != nil {
		return newRecordError(models.KindRating, i, err, ErrInvalidInput)
	}
	return nil
}

func checkPhotos(photos []models.Photo) error {
	for i, p := range photos {
		if err := checkPhoto(i, p); err != nil {
			return err
		}
	}
	return nil
}

func checkVotes(votes []models.Vote) error {
	for i, v := range votes {
		if err := checkVote(i, v); err != nil {
			return err
		}
	}
	return nil
}

func checkRatings(ratings []models.Rating) error {
	for i, r := range ratings {
		if err := checkRating(i, r); err != nil {
			return err
		}
	}
	return nil
}

func newRecordError(kind string, i int, err, sentinel error) *RecordError {
	re := &RecordError{Kind: kind, Index: i, Err: sentinel}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		re.Field = verrs[0].Field()
	}
	return re
}
