package action

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/input-output-hk/catalyst-forge-deploy/errors"
)

// Response is the HTTP-shaped result of an invocation. Body is base64 encoded JSON.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

type successBody struct {
	Status       any    `json:"status"`
	ActivationID string `json:"activationId"`
}

type failureBody struct {
	Error        string `json:"error,omitempty"`
	ActivationID string `json:"activationId"`
	Message      string `json:"message,omitempty"`
}

// Success builds a 200 response carrying the deploy result.
func Success(result any, activationID string) Response {
	data, err := json.Marshal(successBody{Status: result, ActivationID: activationID})
	if err != nil {
		return Failure(http.StatusInternalServerError,
			errors.Wrap(err, errors.CodeInternal, "The deploy result could not be encoded"), activationID, "")
	}
	return envelope(http.StatusOK, data)
}

// Failure builds a response for err. The body's error field is the
// caller-facing message of err; message is included only when non-empty.
func Failure(statusCode int, err error, activationID, message string) Response {
	// A body of plain strings always marshals.
	data, _ := json.Marshal(failureBody{
		Error:        errors.MessageOf(err),
		ActivationID: activationID,
		Message:      message,
	})
	return envelope(statusCode, data)
}

func envelope(statusCode int, data []byte) Response {
	return Response{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       base64.StdEncoding.EncodeToString(data),
	}
}

// DecodeBody decodes a response body back into a JSON object.
func DecodeBody(r Response) (map[string]any, error) {
	raw, err := base64.StdEncoding.DecodeString(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal body: %w", err)
	}
	return out, nil
}
