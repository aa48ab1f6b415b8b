package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureStateDirsLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "viewer")
	require.NoError(t, EnsureStateDirs(root))

	for _, p := range []string{
		filepath.Join(root, "snapshot"),
		filepath.Join(root, "state", "logs"),
		filepath.Join(root, "state", "report"),
		filepath.Join(root, "state", "tmp"),
	} {
		fi, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.True(t, fi.IsDir(), p)
		assert.Equal(t, os.FileMode(0o700), fi.Mode().Perm(), p)
	}
}

func TestEnsureStateDirsIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "viewer")
	require.NoError(t, EnsureStateDirs(root))
	require.NoError(t, EnsureStateDirs(root))
}

func TestEnsureStateDirsRejectsFileCollision(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "snapshot"), []byte("x"), 0o600))
	err := EnsureStateDirs(root)
	require.Error(t, err)
}

func TestPathsFor(t *testing.T) {
	p := PathsFor("/data/viewer")
	assert.Equal(t, "/data/viewer", p.Root)
	assert.Equal(t, "/data/viewer/snapshot", p.Snapshot)
	assert.Equal(t, "/data/viewer/state/logs", p.Logs)
	assert.Equal(t, "/data/viewer/state/report", p.Report)
	assert.Equal(t, "/data/viewer/state/tmp", p.Tmp)
	assert.Equal(t, "/data/viewer/state/crash", p.Crash)
	assert.Equal(t, "/data/viewer/state/abort", p.Abort)
}

func TestInitPublishesPaths(t *testing.T) {
	root := filepath.Join(t.TempDir(), "viewer")
	require.NoError(t, Init(root))
	assert.Equal(t, filepath.Clean(root), PathsVar.Root)
	_, err := os.Stat(PathsVar.Report)
	require.NoError(t, err)

	// second Init keeps the first root
	require.NoError(t, Init(filepath.Join(t.TempDir(), "other")))
	assert.Equal(t, filepath.Clean(root), PathsVar.Root)
}

func TestArtifactPathUnset(t *testing.T) {
	// artifactOnce may already be resolved by another test; only check the
	// empty-root contract when nothing is configured.
	if ArtifactRoot() == "" {
		assert.Equal(t, "", ArtifactPath("logs"))
	}
}
