package settings

import (
	"testing"

	"github.com/stretchr/testify/require"

	"academy-manager/internal/localstore"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := localstore.Open(t.TempDir())
	require.NoError(t, err)
	return NewService(store)
}

func TestDefaultsLoaded(t *testing.T) {
	svc := newTestService(t)

	require.Len(t, svc.Checklist(), 4)

	opts, err := svc.Options(ListRegStatuses)
	require.NoError(t, err)
	keys := make([]string, 0, len(opts))
	for _, o := range opts {
		keys = append(keys, o.Key)
	}
	require.Contains(t, keys, RegStatusRegistered)
	require.Contains(t, keys, RegStatusOtherTraining)
}

func TestSetOptionsValidation(t *testing.T) {
	svc := newTestService(t)

	err := svc.SetOptions(ListActions, []Option{{Key: "", Label: "x"}})
	require.True(t, IsErrBadRequest(err))

	err = svc.SetOptions(ListActions, []Option{
		{Key: "a", Label: "A"},
		{Key: "a", Label: "Again"},
	})
	require.True(t, IsErrBadRequest(err))

	err = svc.SetOptions("no-such-list", []Option{{Key: "a", Label: "A"}})
	require.True(t, IsErrNotFound(err))
}

func TestOptionsPersistAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	store, err := localstore.Open(dir)
	require.NoError(t, err)

	svc := NewService(store)
	custom := []Option{{Key: "registered", Label: "Enrolled"}}
	require.NoError(t, svc.SetOptions(ListRegStatuses, custom))

	store2, err := localstore.Open(dir)
	require.NoError(t, err)
	svc2 := NewService(store2)

	opts, err := svc2.Options(ListRegStatuses)
	require.NoError(t, err)
	require.Equal(t, custom, opts)
	require.True(t, svc2.ValidRegStatus("registered"))
	require.False(t, svc2.ValidRegStatus("negative"))
}
