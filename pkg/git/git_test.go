package git

import (
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a repository with one commit on master and returns
// its path.
func initTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	path := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(path, []byte("test\n"), 0o600))

	worktree, err := repo.Worktree()
	require.NoError(t, err)
	_, err = worktree.Add("README.md")
	require.NoError(t, err)
	_, err = worktree.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com"},
	})
	require.NoError(t, err)

	return dir
}

func addOrigin(t *testing.T, dir, url string) {
	t.Helper()

	repo, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})
	require.NoError(t, err)
}

func TestOpenRepository(t *testing.T) {
	dir := initTestRepo(t)

	repo, err := OpenRepository(dir)
	require.NoError(t, err)
	assert.NotNil(t, repo)
}

func TestOpenRepositoryNotARepo(t *testing.T) {
	_, err := OpenRepository(t.TempDir())
	assert.Error(t, err)
}

func TestGetCurrentBranch(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := OpenRepository(dir)
	require.NoError(t, err)

	branch, err := repo.GetCurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestCreateBranchChecksOut(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := OpenRepository(dir)
	require.NoError(t, err)

	require.NoError(t, repo.CreateBranch("auto/bot-pr-4-0-1234", "master"))

	branch, err := repo.GetCurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "auto/bot-pr-4-0-1234", branch)
}

func TestCreateBranchUnknownBase(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := OpenRepository(dir)
	require.NoError(t, err)

	err = repo.CreateBranch("auto/bot-pr-4-0-1234", "does-not-exist")
	assert.Error(t, err)
}

func TestSwitchBranch(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := OpenRepository(dir)
	require.NoError(t, err)

	require.NoError(t, repo.CreateBranch("auto/user-pr-5-0-4321", "master"))
	require.NoError(t, repo.SwitchBranch("master"))

	branch, err := repo.GetCurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestDeleteLocalBranch(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := OpenRepository(dir)
	require.NoError(t, err)

	require.NoError(t, repo.CreateBranch("auto/bot-pr-4-0-1234", "master"))
	require.NoError(t, repo.SwitchBranch("master"))
	require.NoError(t, repo.DeleteLocalBranch("auto/bot-pr-4-0-1234"))

	// Switching to the deleted branch now fails.
	assert.Error(t, repo.SwitchBranch("auto/bot-pr-4-0-1234"))
}

func TestCommitEmpty(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := OpenRepository(dir)
	require.NoError(t, err)

	ident := Identity{Name: "auto-ops[bot]", Email: "bot@example.com"}
	require.NoError(t, repo.CommitEmpty("Empty commit for auto/bot-pr-4-0-1234", ident))

	raw, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	head, err := raw.Head()
	require.NoError(t, err)
	commit, err := raw.CommitObject(head.Hash())
	require.NoError(t, err)

	assert.Equal(t, "Empty commit for auto/bot-pr-4-0-1234", commit.Message)
	assert.Equal(t, "auto-ops[bot]", commit.Author.Name)
	assert.Equal(t, "bot@example.com", commit.Author.Email)
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    Platform
		wantErr bool
	}{
		{
			name: "github https",
			url:  "https://github.com/owner/repo.git",
			want: PlatformGitHub,
		},
		{
			name: "github ssh",
			url:  "git@github.com:owner/repo.git",
			want: PlatformGitHub,
		},
		{
			name: "gitlab https",
			url:  "https://gitlab.com/group/project.git",
			want: PlatformGitLab,
		},
		{
			name:    "unknown host",
			url:     "https://codeberg.org/owner/repo.git",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := initTestRepo(t)
			addOrigin(t, dir, tt.url)

			repo, err := OpenRepository(dir)
			require.NoError(t, err)

			platform, err := repo.DetectPlatform()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, platform)
		})
	}
}

func TestDetectPlatformNoOrigin(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := OpenRepository(dir)
	require.NoError(t, err)

	_, err = repo.DetectPlatform()
	assert.Error(t, err)
}

func TestGetRemoteURL(t *testing.T) {
	dir := initTestRepo(t)
	addOrigin(t, dir, "https://github.com/owner/repo.git")

	repo, err := OpenRepository(dir)
	require.NoError(t, err)

	url, err := repo.GetRemoteURL("origin")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/owner/repo.git", url)
}

func TestGetDefaultBranchFromRemoteHead(t *testing.T) {
	upstream := initTestRepo(t)
	dir := initTestRepo(t)
	addOrigin(t, dir, upstream)

	repo, err := OpenRepository(dir)
	require.NoError(t, err)

	branch, err := repo.GetDefaultBranch()
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestPushBranchToLocalRemote(t *testing.T) {
	upstream := t.TempDir()
	_, err := gogit.PlainInit(upstream, true)
	require.NoError(t, err)

	dir := initTestRepo(t)
	addOrigin(t, dir, upstream)

	repo, err := OpenRepository(dir)
	require.NoError(t, err)
	require.NoError(t, repo.CreateBranch("auto/bot-pr-4-0-1234", "master"))
	require.NoError(t, repo.PushBranch("auto/bot-pr-4-0-1234"))

	bare, err := gogit.PlainOpen(upstream)
	require.NoError(t, err)
	refs, err := bare.References()
	require.NoError(t, err)

	found := false
	require.NoError(t, refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().Short() == "auto/bot-pr-4-0-1234" {
			found = true
		}
		return nil
	}))
	assert.True(t, found)
}
