package api

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/dhruv-gautam16/youtube-twin/types"
)

// ErrorHandler maps the service's error values to HTTP responses. Anything
// unrecognized is an internal failure: the detail is logged but the client
// only sees a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiError Error
	if errors.As(err, &apiError) {
		return c.Status(apiError.Code).JSON(apiError)
	}

	var valError types.ValidationError
	if errors.As(err, &valError) {
		return c.Status(valError.Status).JSON(valError)
	}

	var fiberError *fiber.Error
	if errors.As(err, &fiberError) {
		return c.Status(fiberError.Code).JSON(NewError(fiberError.Code, fiberError.Message))
	}

	log.Printf("request failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(NewError(fiber.StatusInternalServerError, "internal server error"))
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
	VideoID string `json:"video_id,omitempty"`
}

// Error implements the error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid JSON request",
	}
}

func ErrInvalidVideoURL() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "Invalid YouTube URL",
	}
}

func ErrVideoNotFound(videoID string) Error {
	return Error{
		Code:    fiber.StatusNotFound,
		Message: fmt.Sprintf("Video %s not found. Please process the video first.", videoID),
	}
}

func ErrTranscriptUnavailable(videoID string) Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "Transcript not available for this video",
		Details: "This video may not have captions enabled, may be private/restricted, or may have transcript access disabled by the creator.",
		VideoID: videoID,
	}
}
