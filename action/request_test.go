package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-deploy/errors"
)

func TestDecodeParams(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     Request
		wantCode errors.ErrorCode
	}{
		{
			name:  "empty input",
			input: "  ",
			want:  Request{},
		},
		{
			name:  "empty object",
			input: "{}",
			want:  Request{},
		},
		{
			name: "all fields",
			input: `{
				"gitUrl": "https://github.com/org1/repo1",
				"manifestPath": "src",
				"envData": {"STAGE": "dev", "REPLICAS": 2},
				"wskApiHost": "https://openwhisk.example.com",
				"wskAuth": "user:pass",
				"__ow_method": "post"
			}`,
			want: Request{
				GitURL:       "https://github.com/org1/repo1",
				ManifestPath: "src",
				EnvData:      map[string]any{"STAGE": "dev", "REPLICAS": float64(2)},
				WskAPIHost:   "https://openwhisk.example.com",
				WskAuth:      "user:pass",
				Method:       "post",
			},
		},
		{
			name:     "not an object",
			input:    `["gitUrl"]`,
			wantCode: errors.CodeInvalidInput,
		},
		{
			name:     "malformed json",
			input:    `{"gitUrl":`,
			wantCode: errors.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeParams([]byte(tt.input))
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequest_Defaults(t *testing.T) {
	assert.Equal(t, ".", Request{}.manifestPath())
	assert.Equal(t, "src", Request{ManifestPath: "src"}.manifestPath())

	for _, m := range []string{"", "post", "POST", "Post"} {
		assert.True(t, Request{Method: m}.isPost(), "method %q", m)
	}
	for _, m := range []string{"get", "PUT", "delete"} {
		assert.False(t, Request{Method: m}.isPost(), "method %q", m)
	}
}
