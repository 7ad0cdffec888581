// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-sync-store/models"
)

// mapHTTPError converts a non-2xx response into one of the package sentinel
// errors. The server message is kept in the error text.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := responseMessage(resp.Body())

	switch resp.StatusCode() {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %s", ErrValidation, body)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, body)
	case http.StatusRequestedRangeNotSatisfiable:
		return fmt.Errorf("%w: %s", ErrBadRange, body)
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrTimeout, body)
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", ErrNetworkUnreachable, body)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrInternalServerError, body)
	default:
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode(), body)
	}
}

// mapTransportError classifies an error returned by resty before any
// response was received.
func mapTransportError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s: %w", ErrTimeout, op, err)
	}

	return fmt.Errorf("%w: %s: %w", ErrNetworkUnreachable, op, err)
}

// responseMessage prefers the message of a JSON [models.ErrorResponse] body
// and falls back to the raw text.
func responseMessage(body []byte) string {
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return strings.TrimSpace(string(body))
}

// ErrorCode maps an adapter error to the engine error taxonomy.
func ErrorCode(err error) models.ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return models.CodeTimeout
	case errors.Is(err, ErrNetworkUnreachable):
		return models.CodeNetworkUnreachable
	case errors.Is(err, ErrValidation), errors.Is(err, ErrBadRange):
		return models.CodeValidation
	case errors.Is(err, ErrConflict):
		return models.CodeConflict
	case errors.Is(err, ErrNotFound):
		return models.CodeNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return models.CodeUnauthorized
	default:
		return models.CodeInternal
	}
}

// IsOffline reports whether err means the remote service could not be
// reached. Validation and other server answers are never offline.
func IsOffline(err error) bool {
	return errors.Is(err, ErrNetworkUnreachable) || errors.Is(err, ErrTimeout)
}
