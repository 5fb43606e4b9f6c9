package action

import (
	"encoding/base64"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-deploy/errors"
)

func TestSuccess(t *testing.T) {
	resp := Success(map[string]any{"deployed": true}, "act-1")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	raw, err := base64.StdEncoding.DecodeString(resp.Body)
	require.NoError(t, err, "body must be base64")
	assert.JSONEq(t, `{"status":{"deployed":true},"activationId":"act-1"}`, string(raw))
}

func TestSuccess_UnencodableResult(t *testing.T) {
	resp := Success(make(chan int), "act-1")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, err := DecodeBody(resp)
	require.NoError(t, err)
	assert.Equal(t, "The deploy result could not be encoded", body["error"])
	assert.Equal(t, "act-1", body["activationId"])
}

func TestFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		want    map[string]any
	}{
		{
			name: "coded error uses its message only",
			err:  errors.Wrap(stderrors.New("dial tcp 10.0.0.1:443: refused"), errors.CodeFetchFailed, MsgCloneFailed),
			want: map[string]any{"error": MsgCloneFailed, "activationId": "act-1"},
		},
		{
			name: "plain error uses its text",
			err:  stderrors.New("manifest not found"),
			want: map[string]any{"error": "manifest not found", "activationId": "act-1"},
		},
		{
			name:    "extra message",
			err:     errors.New(errors.CodeMethodNotAllowed, `unsupported method "get"`),
			message: MsgPostOnly,
			want: map[string]any{
				"error":        `unsupported method "get"`,
				"activationId": "act-1",
				"message":      MsgPostOnly,
			},
		},
		{
			name: "error without message",
			err:  nil,
			want: map[string]any{"activationId": "act-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Failure(http.StatusBadRequest, tt.err, "act-1", tt.message)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Headers["Content-Type"])

			body, err := DecodeBody(resp)
			require.NoError(t, err)
			assert.Equal(t, tt.want, body)
		})
	}
}

func TestDecodeBody_Invalid(t *testing.T) {
	_, err := DecodeBody(Response{Body: "not base64!"})
	assert.Error(t, err)

	_, err = DecodeBody(Response{Body: base64.StdEncoding.EncodeToString([]byte("not json"))})
	assert.Error(t, err)
}
