package history

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder(t *testing.T) {
	ctx := context.Background()

	t.Run("empty path fails", func(t *testing.T) {
		_, err := NewSQLiteRecorder("")
		assert.Error(t, err)
	})

	t.Run("records round-trip", func(t *testing.T) {
		rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		defer rec.Close()

		added, err := rec.Add(ctx, "w1", "Widget", ActionCreate, snapshotDoc{ID: "w1", Name: "anvil"}, "tester")
		require.NoError(t, err)

		records, err := rec.GetAll(ctx, "w1")
		require.NoError(t, err)
		require.Len(t, records, 1)

		got := records[0]
		assert.Equal(t, added.ID, got.ID)
		assert.Equal(t, "w1", got.EntityID)
		assert.Equal(t, "Widget", got.EntityType)
		assert.Equal(t, ActionCreate, got.Action)
		assert.Equal(t, "tester", got.Actor)
		assert.Equal(t, added.Timestamp.UnixNano(), got.Timestamp.UnixNano())
		assert.JSONEq(t, string(added.Snapshot), string(got.Snapshot))
	})

	t.Run("GetAll returns newest first", func(t *testing.T) {
		rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		defer rec.Close()

		_, err = rec.Add(ctx, "w1", "Widget", ActionCreate, snapshotDoc{ID: "w1"}, "")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		_, err = rec.Add(ctx, "w1", "Widget", ActionUpdate, snapshotDoc{ID: "w1"}, "")
		require.NoError(t, err)

		records, err := rec.GetAll(ctx, "w1")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, ActionUpdate, records[0].Action)
		assert.Equal(t, ActionCreate, records[1].Action)
	})

	t.Run("point in time honors tombstones", func(t *testing.T) {
		rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		defer rec.Close()

		_, err = rec.Add(ctx, "w1", "Widget", ActionCreate, snapshotDoc{ID: "w1", Name: "anvil"}, "")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		beforeDelete := time.Now()
		time.Sleep(5 * time.Millisecond)
		_, err = rec.Add(ctx, "w1", "Widget", ActionDelete, snapshotDoc{ID: "w1", Name: "anvil"}, "")
		require.NoError(t, err)

		snapshot, err := rec.GetAtPointInTime(ctx, "w1", beforeDelete)
		require.NoError(t, err)
		var doc snapshotDoc
		require.NoError(t, json.Unmarshal(snapshot, &doc))
		assert.Equal(t, "anvil", doc.Name)

		_, err = rec.GetAtPointInTime(ctx, "w1", time.Now())
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = rec.GetAtPointInTime(ctx, "missing", time.Now())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("records survive reopening", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.db")

		rec, err := NewSQLiteRecorder(path)
		require.NoError(t, err)
		_, err = rec.Add(ctx, "w1", "Widget", ActionCreate, snapshotDoc{ID: "w1", Name: "anvil"}, "")
		require.NoError(t, err)
		require.NoError(t, rec.Close())

		reopened, err := NewSQLiteRecorder(path)
		require.NoError(t, err)
		defer reopened.Close()

		records, err := reopened.GetAll(ctx, "w1")
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}
