package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-deploy/errors"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    RepoLocation
		wantErr bool
	}{
		{
			name: "https",
			raw:  "https://github.com/org1/repo1",
			want: RepoLocation{Host: "github.com", Org: "org1", Name: "repo1"},
		},
		{
			name: "http with .git suffix",
			raw:  "http://github.com/org1/repo1.git",
			want: RepoLocation{Host: "github.com", Org: "org1", Name: "repo1"},
		},
		{
			name: "trailing path and slashes",
			raw:  "https://github.com//org1/repo1/tree/main/",
			want: RepoLocation{Host: "github.com", Org: "org1", Name: "repo1"},
		},
		{
			name: "host with port",
			raw:  "https://git.example.com:8443/team/service",
			want: RepoLocation{Host: "git.example.com:8443", Org: "team", Name: "service"},
		},
		{name: "no scheme", raw: "github.com/org1/repo1", wantErr: true},
		{name: "ssh scheme", raw: "ssh://git@github.com/org1/repo1", wantErr: true},
		{name: "file scheme", raw: "file:///srv/org1/repo1", wantErr: true},
		{name: "missing name", raw: "https://github.com/org1", wantErr: true},
		{name: "missing host", raw: "https:///org1/repo1", wantErr: true},
		{name: "dot dot org", raw: "https://github.com/../repo1", wantErr: true},
		{name: "dot name", raw: "https://github.com/org1/.", wantErr: true},
		{name: "only .git", raw: "https://github.com/org1/.git", wantErr: true},
		{name: "backslash", raw: `https://github.com/org1/re\po`, wantErr: true},
		{name: "unparseable", raw: "https://github.com/%zz/repo1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepoURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidInput, errors.CodeOf(err))
				assert.NotEmpty(t, errors.MessageOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Org+"/"+tt.want.Name, got.String())
		})
	}
}

func TestLayout_Paths(t *testing.T) {
	layout := Layout{PreinstalledRoot: "/srv/preInstalled", ScratchRoot: "/tmp/deployweb"}

	a, err := ParseRepoURL("https://github.com/org1/repo1")
	require.NoError(t, err)
	b, err := ParseRepoURL("https://github.com/org1/repo1.git")
	require.NoError(t, err)

	assert.Equal(t, "/srv/preInstalled/org1/repo1", layout.CachePath(a))
	assert.Equal(t, "/tmp/deployweb/org1/repo1", layout.TempPath(a))

	assert.Equal(t, layout.CachePath(a), layout.CachePath(b), "equivalent URLs share a cache path")
	assert.Equal(t, layout.TempPath(a), layout.TempPath(b), "equivalent URLs share a scratch path")
}
