package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCredentials(t *testing.T) {
	env := Environment{ActivationID: "act-1", APIHost: "env-host", APIKey: "env-key"}

	tests := []struct {
		name string
		req  Request
		env  Environment
		want Credentials
	}{
		{
			name: "environment fallback",
			req:  Request{},
			env:  env,
			want: Credentials{APIHost: "env-host", Auth: "env-key"},
		},
		{
			name: "explicit values win",
			req:  Request{WskAPIHost: "req-host", WskAuth: "req-key"},
			env:  env,
			want: Credentials{APIHost: "req-host", Auth: "req-key"},
		},
		{
			name: "mixed",
			req:  Request{WskAuth: "req-key"},
			env:  env,
			want: Credentials{APIHost: "env-host", Auth: "req-key"},
		},
		{
			name: "nothing anywhere",
			req:  Request{},
			env:  Environment{},
			want: Credentials{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveCredentials(tt.req, tt.env))
		})
	}
}
