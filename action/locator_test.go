package action

import (
	"context"
	stderrors "errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-deploy/errors"
	"github.com/input-output-hk/catalyst-forge-deploy/fs"
	billyfs "github.com/input-output-hk/catalyst-forge-deploy/fs/billy"
)

var testLayout = Layout{PreinstalledRoot: "/preInstalled", ScratchRoot: "/tmp"}

// brokenStatFS fails every existence check.
type brokenStatFS struct {
	fs.Filesystem
}

func (brokenStatFS) Exists(string) (bool, error) {
	return false, &os.PathError{Op: "stat", Path: "/preInstalled", Err: os.ErrPermission}
}

func TestFSLocator_Locate(t *testing.T) {
	loc := RepoLocation{Host: "github.com", Org: "org1", Name: "repo1"}

	t.Run("cache hit", func(t *testing.T) {
		memFS := billyfs.NewInMemoryFS()
		require.NoError(t, memFS.MkdirAll("/preInstalled/org1/repo1", 0o755))

		dir, hit, err := NewLocator(memFS, testLayout).Locate(context.Background(), loc)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, "/preInstalled/org1/repo1", dir)
	})

	t.Run("cache miss", func(t *testing.T) {
		memFS := billyfs.NewInMemoryFS()
		require.NoError(t, memFS.MkdirAll("/preInstalled/org1/other", 0o755))

		dir, hit, err := NewLocator(memFS, testLayout).Locate(context.Background(), loc)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Equal(t, "/tmp/org1/repo1", dir)
	})

	t.Run("scratch copy does not count as a hit", func(t *testing.T) {
		memFS := billyfs.NewInMemoryFS()
		require.NoError(t, memFS.MkdirAll("/tmp/org1/repo1", 0o755))

		dir, hit, err := NewLocator(memFS, testLayout).Locate(context.Background(), loc)
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Equal(t, "/tmp/org1/repo1", dir)
	})

	t.Run("stat failure", func(t *testing.T) {
		locator := NewLocator(brokenStatFS{billyfs.NewInMemoryFS()}, testLayout)

		_, _, err := locator.Locate(context.Background(), loc)
		require.Error(t, err)
		assert.Equal(t, errors.CodeInternal, errors.CodeOf(err))
		assert.True(t, stderrors.Is(err, os.ErrPermission))
		assert.NotContains(t, errors.MessageOf(err), "/preInstalled")
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := NewLocator(billyfs.NewInMemoryFS(), testLayout).Locate(ctx, loc)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("layout accessor", func(t *testing.T) {
		assert.Equal(t, testLayout, NewLocator(billyfs.NewInMemoryFS(), testLayout).Layout())
	})
}
