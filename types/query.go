package types

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

type ProcessVideoParams struct {
	VideoURL string `json:"video_url" validate:"required"`
}

type ChatParams struct {
	VideoID string `json:"video_id" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type TranscriptParams struct {
	VideoID string `json:"video_id" validate:"required"`
}

type SearchParams struct {
	VideoID string `json:"video_id" validate:"required"`
	Query   string `json:"query" validate:"required"`
	TopK    int    `json:"top_k"`
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *ProcessVideoParams) Validate() map[string]string { return validateStruct(params) }
func (params *ChatParams) Validate() map[string]string         { return validateStruct(params) }
func (params *TranscriptParams) Validate() map[string]string   { return validateStruct(params) }
func (params *SearchParams) Validate() map[string]string       { return validateStruct(params) }

func validateStruct(params any) map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: http.StatusUnprocessableEntity,
		Errors: errors,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}
