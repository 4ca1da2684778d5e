package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulark/eulark-site/internal/testsupport/memory"
	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/utils"
)

type fakeSchema struct {
	calls   []string
	version uint
}

func newTestApp(store *memory.Store, schema *fakeSchema) Opener {
	return func(ctx context.Context, opts Options) (*App, error) {
		return &App{
			Admins:      store.Admins(),
			Permissions: store.Permissions(),
			Hasher:      utils.NewPasswordHasher(4),
			Migrate: func(direction string) error {
				schema.calls = append(schema.calls, direction)
				return nil
			},
			Version: func() (uint, bool, error) { return schema.version, false, nil },
		}, nil
	}
}

func run(t *testing.T, open Opener, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateCommands(t *testing.T) {
	schema := &fakeSchema{version: 1}
	open := newTestApp(memory.NewStore(), schema)

	out, err := run(t, open, "", "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations up: done")

	_, err = run(t, open, "", "migrate", "down")
	require.NoError(t, err)
	assert.Equal(t, []string{"up", "down"}, schema.calls)

	out, err = run(t, open, "", "migrate", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 1")
}

func TestCreateAdmin(t *testing.T) {
	store := memory.NewStore()
	open := newTestApp(store, &fakeSchema{})

	out, err := run(t, open, "correct-horse\n", "create-admin", "--username", "root", "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, `created admin "root"`)

	admin, err := store.Admins().GetByUsername(context.Background(), "root")
	require.NoError(t, err)
	ok, err := utils.NewPasswordHasher(4).Check(admin.PasswordHash, "correct-horse")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = run(t, open, "correct-horse\n", "create-admin", "--username", "root", "--password-stdin")
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, open, "short\n", "create-admin", "--username", "other", "--password-stdin")
	assert.ErrorContains(t, err, "8 to 72 bytes")

	_, err = run(t, open, "correct-horse\n", "create-admin", "--username", strings.Repeat("u", 65), "--password-stdin")
	assert.ErrorContains(t, err, "at most 64")

	_, err = run(t, open, "", "create-admin", "--username", "other")
	assert.ErrorContains(t, err, "--password-stdin")
}

func TestPermissionCommands(t *testing.T) {
	store := memory.NewStore()
	player := &models.Player{PlayerName: "alice", Email: "a@x.com", PasswordHash: "x"}
	require.NoError(t, store.Players().Create(context.Background(), nil, player))
	open := newTestApp(store, &fakeSchema{})

	_, err := run(t, open, "", "permission", "grant", "999")
	assert.ErrorContains(t, err, "does not exist")

	_, err = run(t, open, "", "permission", "grant", "abc")
	assert.ErrorContains(t, err, "invalid player id")

	_, err = run(t, open, "", "permission", "grant", "1")
	require.NoError(t, err)
	ok, err := store.Permissions().HasSpecialPermission(context.Background(), player.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = run(t, open, "", "permission", "revoke", "1")
	require.NoError(t, err)
	_, err = run(t, open, "", "permission", "revoke", "1")
	assert.ErrorContains(t, err, "no special permission")
}
