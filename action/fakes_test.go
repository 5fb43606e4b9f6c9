package action

import (
	"context"
	"sync"

	"github.com/input-output-hk/catalyst-forge-deploy/fs"
)

type fetchCall struct {
	URL  string
	Dest string
}

// fakeFetcher records calls and creates the destination on success.
type fakeFetcher struct {
	fs  fs.Filesystem
	err error

	mu       sync.Mutex
	calls    []fetchCall
	released int
}

func (f *fakeFetcher) Fetch(_ context.Context, url, dest string) (Release, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{URL: url, Dest: dest})
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if f.fs != nil {
		if err := f.fs.MkdirAll(dest, 0o755); err != nil {
			return nil, err
		}
	}
	return func() {
		f.mu.Lock()
		f.released++
		f.mu.Unlock()
	}, nil
}

type fakeDeployer struct {
	result any
	err    error

	calls []Descriptor
}

func (d *fakeDeployer) Deploy(_ context.Context, desc Descriptor) (any, error) {
	d.calls = append(d.calls, desc)
	return d.result, d.err
}

// countingLocator wraps a Locator and counts calls.
type countingLocator struct {
	Locator
	calls int
}

func (c *countingLocator) Locate(ctx context.Context, loc RepoLocation) (string, bool, error) {
	c.calls++
	return c.Locator.Locate(ctx, loc)
}
