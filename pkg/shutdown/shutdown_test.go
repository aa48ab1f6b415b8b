package shutdown

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbortWithDiagnostics(t *testing.T) {
	root := t.TempDir()
	dump, req, err := AbortWithDiagnostics(root, "feed load failed", errors.New("boom"))
	require.NoError(t, err)

	b, err := os.ReadFile(dump)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "reason: feed load failed")
	assert.Contains(t, out, "error: boom")
	assert.Contains(t, out, "goroutine stacks")

	rb, err := os.ReadFile(req)
	require.NoError(t, err)
	assert.Contains(t, string(rb), `"cmd": "crash"`)
	assert.Contains(t, string(rb), dump)

	assert.Equal(t, filepath.Join(root, "state", "crash"), filepath.Dir(dump))
	assert.Equal(t, filepath.Join(root, "state", "abort"), filepath.Dir(req))
}

func TestRequestExitFile(t *testing.T) {
	root := t.TempDir()
	req, err := RequestExitFile(root, "operator requested")
	require.NoError(t, err)

	b, err := os.ReadFile(req)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"cmd": "abort"`)
	assert.Contains(t, string(b), "operator requested")
}

func TestSetupSignalHandlerParentCancel(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())
	ctx, cancel := SetupSignalHandler(parent)
	defer cancel()

	parentCancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled when parent cancelled")
	}
}
