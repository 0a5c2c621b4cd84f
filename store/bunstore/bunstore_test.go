package bunstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/tasinahammed01/RoznaComarker-Client"
	"github.com/tasinahammed01/RoznaComarker-Client/store/bunstore"
)

func newTestStore(t *testing.T) *bunstore.Store {
	t.Helper()

	store, err := bunstore.New(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func studentIdentity() auth.Identity {
	return auth.Identity{
		UserID:      "user-1",
		Email:       "student@example.com",
		Role:        auth.RoleStudent,
		DisplayName: "Student One",
		PhotoURL:    "https://example.com/photo.png",
	}
}

func TestStore_EmptyLoad(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestStore_Roundtrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	identity := studentIdentity()
	require.NoError(t, store.Save(ctx, "token-1", identity))

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "token-1", rec.Token)
	assert.Equal(t, identity, rec.Identity)
}

func TestStore_SaveReplacesRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Save(ctx, "token-1", studentIdentity()))

	teacher := auth.Identity{
		UserID: "user-2",
		Email:  "teacher@example.com",
		Role:   auth.RoleTeacher,
	}
	require.NoError(t, store.Save(ctx, "token-2", teacher))

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "token-2", rec.Token)
	assert.Equal(t, auth.RoleTeacher, rec.Identity.Role)
	assert.Empty(t, rec.Identity.DisplayName)
}

func TestStore_RejectsPartialRecord(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	identity := studentIdentity()
	identity.Role = ""

	err := store.Save(ctx, "token-1", identity)
	require.Error(t, err)

	// nothing was written
	rec, loadErr := store.Load(ctx)
	require.NoError(t, loadErr)
	assert.Nil(t, rec)
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Save(ctx, "token-1", studentIdentity()))
	require.NoError(t, store.Clear(ctx))

	rec, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)

	// clearing again is a no-op
	require.NoError(t, store.Clear(ctx))
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := bunstore.New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "token-1", studentIdentity()))
	require.NoError(t, store.Close())

	reopened, err := bunstore.New(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	rec, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "token-1", rec.Token)
}
