package fernet_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tacksail/gatehouse/pkg/cryptox"
	"github.com/tacksail/gatehouse/pkg/fernet"
)

func indexesOf(keys []fernet.Key) []int {
	indexes := make([]int, len(keys))
	for i, k := range keys {
		indexes[i] = k.Index
	}
	return indexes
}

func TestInitializeBootstrapsOnce(t *testing.T) {
	ctx := context.Background()
	store := fernet.NewMemoryStore()

	require.NoError(t, fernet.Initialize(ctx, store))
	keys, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, 0, keys[0].Index)
	bootstrap := keys[0].Material

	// A second run must not replace the bootstrap key.
	require.NoError(t, fernet.Initialize(ctx, store))
	keys, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, bootstrap, keys[0].Material)
}

func TestLoadEmptyStore(t *testing.T) {
	_, err := fernet.Load(context.Background(), fernet.NewMemoryStore())
	require.ErrorIs(t, err, fernet.ErrRepositoryEmpty)
}

func TestPrimaryAndAllOrdering(t *testing.T) {
	ctx := context.Background()
	store := fernet.NewMemoryStore()
	for _, index := range []int{0, 2, 1} {
		require.NoError(t, store.Put(ctx, index, cryptox.MustGenerateKeyMaterial()))
	}

	repo, err := fernet.Load(ctx, store)
	require.NoError(t, err)

	require.Equal(t, 2, repo.Primary().Index)
	require.Equal(t, []int{2, 1, 0}, indexesOf(repo.All()))
}

func TestRotateAppendsAndPrunes(t *testing.T) {
	ctx := context.Background()
	store := fernet.NewMemoryStore()
	require.NoError(t, fernet.Initialize(ctx, store))

	repo, err := fernet.Load(ctx, store)
	require.NoError(t, err)

	// Unbounded rotation only appends.
	require.NoError(t, repo.Rotate(ctx, 0))
	require.NoError(t, repo.Rotate(ctx, 0))
	require.Equal(t, []int{2, 1, 0}, indexesOf(repo.All()))

	// A bound of two prunes the oldest keys, bootstrap included.
	require.NoError(t, repo.Rotate(ctx, 2))
	require.Equal(t, []int{3, 2}, indexesOf(repo.All()))
}

func TestRotateOnDrainedStore(t *testing.T) {
	ctx := context.Background()
	store := fernet.NewMemoryStore()
	require.NoError(t, fernet.Initialize(ctx, store))

	repo, err := fernet.Load(ctx, store)
	require.NoError(t, err)

	// Someone emptied the store behind our back.
	require.NoError(t, store.Delete(ctx, 0))
	require.ErrorIs(t, repo.Rotate(ctx, 0), fernet.ErrRepositoryEmpty)
}

func TestReloadKeepsSnapshotOnError(t *testing.T) {
	ctx := context.Background()
	store := fernet.NewMemoryStore()
	require.NoError(t, fernet.Initialize(ctx, store))

	repo, err := fernet.Load(ctx, store)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, 0))
	require.ErrorIs(t, repo.Reload(ctx), fernet.ErrRepositoryEmpty)

	// The previous snapshot still serves reads.
	require.Equal(t, 0, repo.Primary().Index)
	require.Len(t, repo.All(), 1)
}

func TestReloadSeesOutOfBandChanges(t *testing.T) {
	ctx := context.Background()
	store := fernet.NewMemoryStore()
	require.NoError(t, fernet.Initialize(ctx, store))

	repo, err := fernet.Load(ctx, store)
	require.NoError(t, err)
	require.Equal(t, 0, repo.Primary().Index)

	require.NoError(t, store.Put(ctx, 5, cryptox.MustGenerateKeyMaterial()))
	require.NoError(t, repo.Reload(ctx))
	require.Equal(t, 5, repo.Primary().Index)
}

func TestRotationKeepsOldTokensValid(t *testing.T) {
	ctx := context.Background()
	store := fernet.NewMemoryStore()
	require.NoError(t, fernet.Initialize(ctx, store))

	repo, err := fernet.Load(ctx, store)
	require.NoError(t, err)

	token, err := fernet.Seal([]byte("sealed before rotation"), repo.Primary(), time.Now())
	require.NoError(t, err)

	require.NoError(t, repo.Rotate(ctx, 0))
	require.Equal(t, 1, repo.Primary().Index)

	got, keyIndex, err := fernet.Open(token, repo.All())
	require.NoError(t, err)
	require.Equal(t, []byte("sealed before rotation"), got)
	require.Equal(t, 0, keyIndex)
}

func TestRotationInvalidatesPrunedKeyTokens(t *testing.T) {
	ctx := context.Background()
	store := fernet.NewMemoryStore()
	require.NoError(t, fernet.Initialize(ctx, store))

	repo, err := fernet.Load(ctx, store)
	require.NoError(t, err)

	token, err := fernet.Seal([]byte("sealed under key 0"), repo.Primary(), time.Now())
	require.NoError(t, err)

	// A bound of one replaces the whole key set.
	require.NoError(t, repo.Rotate(ctx, 1))
	require.Equal(t, []int{1}, indexesOf(repo.All()))

	_, _, err = fernet.Open(token, repo.All())
	require.ErrorIs(t, err, fernet.ErrInvalidToken)
}
