package gitinfo_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/gitinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitRepo(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lhdiff.yaml"), []byte("pairs: []\n"), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(".lhdiff.yaml")
	require.NoError(t, err)
	hash, err := wt.Commit("add plan", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, hash.String()
}

func TestRepo_IsGitRepo(t *testing.T) {
	dir, _ := commitRepo(t)
	assert.True(t, gitinfo.New().IsGitRepo(dir))
	assert.False(t, gitinfo.New().IsGitRepo(t.TempDir()))
}

func TestRepo_CommitHash(t *testing.T) {
	dir, want := commitRepo(t)

	hash, err := gitinfo.New().CommitHash(dir)
	require.NoError(t, err)
	assert.Equal(t, want, hash)
	assert.Len(t, hash, 40)
}

func TestRepo_CommitHash_FromSubdirectory(t *testing.T) {
	dir, want := commitRepo(t)
	sub := filepath.Join(dir, "reports", "before")
	require.NoError(t, os.MkdirAll(sub, 0755))

	hash, err := gitinfo.New().CommitHash(sub)
	require.NoError(t, err)
	assert.Equal(t, want, hash)
}

func TestRepo_CommitHash_NotGitRepo(t *testing.T) {
	_, err := gitinfo.New().CommitHash(t.TempDir())
	assert.Error(t, err)
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "0123456", gitinfo.ShortHash("0123456789abcdef"))
	assert.Equal(t, "abc", gitinfo.ShortHash("abc"))
}
