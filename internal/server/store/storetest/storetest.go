// Package storetest holds the behaviour every store.Store implementation
// must share. Backends call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fitdeck/fitdeck/internal/server/store"
)

// Run exercises s. The store must be empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	t.Run("PutGetList", func(t *testing.T) { testPutGetList(t, s) })
	t.Run("UsersAreIsolated", func(t *testing.T) { testIsolation(t, s) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, s) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, s) })
	t.Run("Photos", func(t *testing.T) { testPhotos(t, s) })
	t.Run("DeleteUser", func(t *testing.T) { testDeleteUser(t, s) })
}

func testPutGetList(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "list-user", store.Workouts, "w2", []byte(`{"id":"w2"}`)))
	require.NoError(t, s.Put(ctx, "list-user", store.Workouts, "w1", []byte(`{"id":"w1"}`)))
	// Replacing keeps the original position.
	require.NoError(t, s.Put(ctx, "list-user", store.Workouts, "w2", []byte(`{"id":"w2","name":"again"}`)))

	got, err := s.Get(ctx, "list-user", store.Workouts, "w2")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"w2","name":"again"}`, string(got))

	all, err := s.List(ctx, "list-user", store.Workouts)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.JSONEq(t, `{"id":"w2","name":"again"}`, string(all[0]))
	require.JSONEq(t, `{"id":"w1"}`, string(all[1]))

	empty, err := s.List(ctx, "list-user", store.Goals)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	_, err = s.Get(ctx, "list-user", store.Workouts, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testIsolation(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "alice", store.Meals, "m1", []byte(`{"id":"m1"}`)))

	_, err := s.Get(ctx, "bob", store.Meals, "m1")
	require.ErrorIs(t, err, store.ErrNotFound)

	bobs, err := s.List(ctx, "bob", store.Meals)
	require.NoError(t, err)
	require.Empty(t, bobs)
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "delete-user", store.Goals, "g1", []byte(`{"id":"g1"}`)))
	require.NoError(t, s.Delete(ctx, "delete-user", store.Goals, "g1"))
	require.ErrorIs(t, s.Delete(ctx, "delete-user", store.Goals, "g1"), store.ErrNotFound)
}

func testUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()
	created, err := s.Update(ctx, "update-user", store.Activities, "a1", func(current []byte) ([]byte, error) {
		require.Nil(t, current)
		return []byte(`{"id":"a1","isActive":true}`), nil
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"a1","isActive":true}`, string(created))

	_, err = s.Update(ctx, "update-user", store.Activities, "a1", func(current []byte) ([]byte, error) {
		require.JSONEq(t, `{"id":"a1","isActive":true}`, string(current))
		return []byte(`{"id":"a1","isActive":false}`), nil
	})
	require.NoError(t, err)

	abort := errors.New("abort")
	_, err = s.Update(ctx, "update-user", store.Activities, "a1", func([]byte) ([]byte, error) {
		return nil, abort
	})
	require.ErrorIs(t, err, abort)

	got, err := s.Get(ctx, "update-user", store.Activities, "a1")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"a1","isActive":false}`, string(got))
}

func testPhotos(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.PutPhoto(ctx, "photo-user", "m1", []byte{0xff, 0xd8, 0x01}))

	data, err := s.GetPhoto(ctx, "photo-user", "m1")
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0xd8, 0x01}, data)

	_, err = s.GetPhoto(ctx, "someone-else", "m1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeletePhoto(ctx, "photo-user", "m1"))
	require.NoError(t, s.DeletePhoto(ctx, "photo-user", "m1"))
	_, err = s.GetPhoto(ctx, "photo-user", "m1")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testDeleteUser(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "wipe-user", store.Profile, store.ProfileID, []byte(`{"displayName":"x"}`)))
	require.NoError(t, s.Put(ctx, "wipe-user", store.Workouts, "w1", []byte(`{"id":"w1"}`)))
	require.NoError(t, s.PutPhoto(ctx, "wipe-user", "m1", []byte("jpeg")))
	require.NoError(t, s.Put(ctx, "keep-user", store.Workouts, "w1", []byte(`{"id":"w1"}`)))

	require.NoError(t, s.DeleteUser(ctx, "wipe-user"))

	_, err := s.Get(ctx, "wipe-user", store.Profile, store.ProfileID)
	require.ErrorIs(t, err, store.ErrNotFound)
	workouts, err := s.List(ctx, "wipe-user", store.Workouts)
	require.NoError(t, err)
	require.Empty(t, workouts)
	_, err = s.GetPhoto(ctx, "wipe-user", "m1")
	require.ErrorIs(t, err, store.ErrNotFound)

	kept, err := s.List(ctx, "keep-user", store.Workouts)
	require.NoError(t, err)
	require.Len(t, kept, 1)
}
