package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bravo68web/gitapi/internal/infrastructure/storage"
	"github.com/bravo68web/gitapi/internal/links"
	"github.com/bravo68web/gitapi/pkg/logger"
)

const testBaseURL = "https://git.example.com"

type recordedCall struct {
	dir  string
	args []string
}

// fakeRunner records every invocation and answers through handle
type fakeRunner struct {
	mu      sync.Mutex
	calls   []recordedCall
	version string
	handle  func(dir string, args []string) ([]byte, error)
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{dir: dir, args: append([]string(nil), args...)})
	f.mu.Unlock()

	if len(args) == 1 && args[0] == "--version" {
		version := f.version
		if version == "" {
			version = "2.39.2"
		}
		return []byte("git version " + version + "\n"), nil
	}
	if f.handle == nil {
		return nil, nil
	}
	return f.handle(dir, args)
}

// gitCalls returns the recorded invocations, excluding the version probe
func (f *fakeRunner) gitCalls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []recordedCall
	for _, c := range f.calls {
		if len(c.args) == 1 && c.args[0] == "--version" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (f *fakeRunner) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func failure(stderr string) error {
	return &CommandError{
		Args:     []string{"test"},
		ExitCode: 128,
		Stderr:   stderr,
		Err:      errors.New("exit status 128"),
	}
}

// makeBareLayout creates the HEAD, objects and refs markers of a bare repository
func makeBareLayout(t *testing.T, root, name string) string {
	t.Helper()

	dir := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "objects"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "refs", "heads"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "refs", "tags"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "HEAD"), []byte("ref: refs/heads/master\n"), 0o644))
	return dir
}

func writeRef(t *testing.T, repoPath, ref string) {
	t.Helper()

	path := filepath.Join(repoPath, filepath.FromSlash(ref))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("0123456789abcdef0123456789abcdef01234567\n"), 0o644))
}

type opsFixture struct {
	ops       *GitOperations
	runner    *fakeRunner
	root      string
	workspace *storage.ArchiveWorkspace
}

func newOpsFixture(t *testing.T, runner *fakeRunner) *opsFixture {
	t.Helper()

	root := t.TempDir()
	workspace, err := storage.NewArchiveWorkspace(t.TempDir())
	require.NoError(t, err)

	ops := NewGitOperations(runner, NewLocator(root), links.NewBuilder(testBaseURL), workspace, logger.NewNop())

	return &opsFixture{
		ops:       ops,
		runner:    runner,
		root:      NewLocator(root).Root(),
		workspace: workspace,
	}
}
