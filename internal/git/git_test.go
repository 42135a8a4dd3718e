package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/plugindocs/internal/config"
	ferrors "git.home.luguber.info/inful/plugindocs/internal/foundation/errors"
)

// origin is a bare repository acting as the remote, fed by pushes from a
// seed working copy.
type origin struct {
	t      *testing.T
	dir    string
	seed   string
	repo   *git.Repository
	branch string
}

func newOrigin(t *testing.T, branch string) *origin {
	t.Helper()
	root := t.TempDir()
	bare := filepath.Join(root, "remote.git")
	_, err := git.PlainInit(bare, true)
	require.NoError(t, err)

	seed := filepath.Join(root, "seed")
	repo, err := git.PlainInit(seed, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&ggitcfg.RemoteConfig{Name: "origin", URLs: []string{bare}})
	require.NoError(t, err)

	o := &origin{t: t, dir: bare, seed: seed, repo: repo, branch: branch}
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(seed, "README.md"), []byte("# plugins\n"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	hash, err := wt.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Hash:   hash,
		Create: true,
	}))
	o.push()
	return o
}

func (o *origin) push() {
	o.t.Helper()
	spec := ggitcfg.RefSpec("+refs/heads/" + o.branch + ":refs/heads/" + o.branch)
	err := o.repo.Push(&git.PushOptions{RemoteName: "origin", RefSpecs: []ggitcfg.RefSpec{spec}})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		require.NoError(o.t, err)
	}
}

// commit writes name in the seed, commits on the branch and pushes.
func (o *origin) commit(name, content string) plumbing.Hash {
	o.t.Helper()
	require.NoError(o.t, os.WriteFile(filepath.Join(o.seed, name), []byte(content), 0o644))
	wt, err := o.repo.Worktree()
	require.NoError(o.t, err)
	_, err = wt.Add(name)
	require.NoError(o.t, err)
	hash, err := wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(o.t, err)
	o.push()
	return hash
}

func sourceFor(o *origin, branch string) config.SourceConfig {
	return config.SourceConfig{URL: o.dir, Name: "plugins", Branch: branch}
}

func TestSyncBranch_ClonesThenUpdates(t *testing.T) {
	o := newOrigin(t, "v5")
	first := o.commit("index.ts", "export class A {}\n")
	checkout := filepath.Join(t.TempDir(), "ws", "plugins")
	client := NewClient(sourceFor(o, "v5"), nil)

	res, err := client.SyncBranch(context.Background(), checkout)
	require.NoError(t, err)
	assert.True(t, res.Cloned)
	assert.True(t, res.Changed)
	assert.Equal(t, first.String(), res.Commit)
	assert.FileExists(t, filepath.Join(checkout, "index.ts"))

	res, err = client.SyncBranch(context.Background(), checkout)
	require.NoError(t, err)
	assert.False(t, res.Cloned)
	assert.False(t, res.Changed)
	assert.Equal(t, first.String(), res.Commit)

	second := o.commit("index.ts", "export class B {}\n")
	res, err = client.SyncBranch(context.Background(), checkout)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, second.String(), res.Commit)
	data, err := os.ReadFile(filepath.Join(checkout, "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export class B {}\n", string(data))
}

func TestSyncBranch_DiscardsLocalChanges(t *testing.T) {
	o := newOrigin(t, "v5")
	o.commit("index.ts", "export class A {}\n")
	checkout := filepath.Join(t.TempDir(), "plugins")
	src := sourceFor(o, "v5")
	src.CleanUntracked = true
	client := NewClient(src, nil)

	_, err := client.SyncBranch(context.Background(), checkout)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(checkout, "index.ts"), []byte("local edit\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(checkout, "stray.txt"), []byte("x"), 0o644))

	_, err = client.SyncBranch(context.Background(), checkout)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(checkout, "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export class A {}\n", string(data))
	assert.NoFileExists(t, filepath.Join(checkout, "stray.txt"))
}

func TestSyncBranch_ReclonesForeignCheckout(t *testing.T) {
	o := newOrigin(t, "v5")
	other := newOrigin(t, "v5")
	checkout := filepath.Join(t.TempDir(), "plugins")

	_, err := NewClient(sourceFor(other, "v5"), nil).SyncBranch(context.Background(), checkout)
	require.NoError(t, err)

	res, err := NewClient(sourceFor(o, "v5"), nil).SyncBranch(context.Background(), checkout)
	require.NoError(t, err)
	assert.True(t, res.Cloned)
}

func TestSyncBranch_ReplacesNonRepositoryDirectory(t *testing.T) {
	o := newOrigin(t, "v5")
	checkout := filepath.Join(t.TempDir(), "plugins")
	require.NoError(t, os.MkdirAll(checkout, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(checkout, "junk"), []byte("x"), 0o644))

	res, err := NewClient(sourceFor(o, "v5"), nil).SyncBranch(context.Background(), checkout)
	require.NoError(t, err)
	assert.True(t, res.Cloned)
	assert.NoFileExists(t, filepath.Join(checkout, "junk"))
}

func TestSyncBranch_MissingBranch(t *testing.T) {
	o := newOrigin(t, "v5")
	_, err := NewClient(sourceFor(o, "v6"), nil).SyncBranch(context.Background(), filepath.Join(t.TempDir(), "plugins"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound), err.Error())
}

func TestSyncBranch_MissingRepository(t *testing.T) {
	src := config.SourceConfig{URL: filepath.Join(t.TempDir(), "nope"), Name: "plugins", Branch: "v5"}
	_, err := NewClient(src, nil).SyncBranch(context.Background(), filepath.Join(t.TempDir(), "plugins"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound), err.Error())
}

func TestAuthMethod(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.AuthConfig
		wantNil bool
		wantErr bool
	}{
		{name: "nil", cfg: nil, wantNil: true},
		{name: "none", cfg: &config.AuthConfig{Type: config.AuthTypeNone}, wantNil: true},
		{name: "token", cfg: &config.AuthConfig{Type: config.AuthTypeToken, Token: "t0k"}},
		{name: "token missing", cfg: &config.AuthConfig{Type: config.AuthTypeToken}, wantErr: true},
		{name: "basic", cfg: &config.AuthConfig{Type: config.AuthTypeBasic, Username: "u", Password: "p"}},
		{name: "basic missing password", cfg: &config.AuthConfig{Type: config.AuthTypeBasic, Username: "u"}, wantErr: true},
		{name: "ssh missing key", cfg: &config.AuthConfig{Type: config.AuthTypeSSH, KeyPath: "/nonexistent/id_rsa"}, wantErr: true},
		{name: "unknown", cfg: &config.AuthConfig{Type: "kerberos"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, err := authMethod(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, auth)
				return
			}
			basic, ok := auth.(*http.BasicAuth)
			require.True(t, ok)
			if tt.cfg.Type == config.AuthTypeToken {
				assert.Equal(t, "token", basic.Username)
				assert.Equal(t, "t0k", basic.Password)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		msg      string
		category ferrors.ErrorCategory
	}{
		{"authentication required", ferrors.CategoryAuth},
		{"repository not found", ferrors.CategoryNotFound},
		{"unsupported scheme \"gopher\"", ferrors.CategoryConfig},
		{"object corrupt", ferrors.CategoryGit},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := toClassified(classify("clone", "u", assert.AnError), "v5")
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryGit))

			err = toClassified(classify("clone", "u", errorString(tt.msg)), "v5")
			assert.True(t, ferrors.HasCategory(err, tt.category), err.Error())
		})
	}
}

type errorString string

func (e errorString) Error() string { return string(e) }
