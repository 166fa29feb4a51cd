package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Sentinel errors for API failures. Use errors.Is() to check.
var (
	ErrUnauthorized       = errors.New("coldreach: unauthorized")
	ErrBadRequest         = errors.New("coldreach: bad request")
	ErrExtraction         = errors.New("coldreach: extraction failed")
	ErrCatalogUnavailable = errors.New("coldreach: portfolio catalog unavailable")
	ErrProvider           = errors.New("coldreach: upstream provider error")
)

// APIError carries the server's error code and message. It wraps the
// matching sentinel, so errors.Is still works.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	sentinel   error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coldreach: %s (status %d): %s", e.Code, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.sentinel }

func errorFromResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		var payload struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Message
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		apiErr.sentinel = ErrUnauthorized
	case http.StatusBadRequest:
		apiErr.sentinel = ErrBadRequest
	case http.StatusUnprocessableEntity:
		apiErr.sentinel = ErrExtraction
	case http.StatusServiceUnavailable:
		apiErr.sentinel = ErrCatalogUnavailable
	case http.StatusBadGateway:
		apiErr.sentinel = ErrProvider
	}

	return apiErr
}
