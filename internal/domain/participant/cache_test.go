package participant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(ps ...Participant) []Participant { return ps }

func TestCacheApplySnapshotReplacesWhenIdle(t *testing.T) {
	c := NewCache()
	c.ApplySnapshot(snap(Participant{ID: "a", Name: "Ada"}))

	c.ApplySnapshot(snap(Participant{ID: "a", Name: "Ada Updated"}, Participant{ID: "b", Name: "Bora"}))

	require.Equal(t, 2, c.Len())
	p, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Ada Updated", p.Name)
}

func TestCacheStaleSnapshotDoesNotClobberInflightWrite(t *testing.T) {
	c := NewCache()
	c.ApplySnapshot(snap(Participant{ID: "a", Name: "Ada"}))

	c.BeginWrite("a")
	c.SetLocal(Participant{ID: "a", Name: "Ada Edited"})

	// snapshot from before the write lands while it is still in flight
	c.ApplySnapshot(snap(Participant{ID: "a", Name: "Ada"}))

	p, _ := c.Get("a")
	assert.Equal(t, "Ada Edited", p.Name)
}

func TestCacheAckedWriteSurvivesExactlyOneSnapshot(t *testing.T) {
	c := NewCache()
	c.ApplySnapshot(snap(Participant{ID: "a", Name: "Ada"}))

	c.BeginWrite("a")
	c.SetLocal(Participant{ID: "a", Name: "Ada Edited"})
	c.EndWrite("a")

	// first snapshot after the ack may still predate the write
	c.ApplySnapshot(snap(Participant{ID: "a", Name: "Ada"}))
	p, _ := c.Get("a")
	assert.Equal(t, "Ada Edited", p.Name)

	// after that the server is authoritative again
	c.ApplySnapshot(snap(Participant{ID: "a", Name: "Ada Server"}))
	p, _ = c.Get("a")
	assert.Equal(t, "Ada Server", p.Name)
}

func TestCachePendingRecordMissingFromSnapshotIsKept(t *testing.T) {
	c := NewCache()
	c.BeginWrite("new")
	c.SetLocal(Participant{ID: "new", Name: "Just Created"})

	// snapshot that has not seen the new record yet
	c.ApplySnapshot(snap(Participant{ID: "other", Name: "Other"}))

	_, ok := c.Get("new")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCacheAbortWriteRestoresServerAuthority(t *testing.T) {
	c := NewCache()
	c.ApplySnapshot(snap(Participant{ID: "a", Name: "Ada"}))

	c.BeginWrite("a")
	c.AbortWrite("a")

	c.ApplySnapshot(snap(Participant{ID: "a", Name: "Ada Server"}))
	p, _ := c.Get("a")
	assert.Equal(t, "Ada Server", p.Name)
}

func TestCacheDeleteLocalShieldsStaleSnapshot(t *testing.T) {
	c := NewCache()
	c.ApplySnapshot(snap(Participant{ID: "a", Name: "Ada"}, Participant{ID: "b", Name: "Bora"}))

	c.DeleteLocal("a")
	_, ok := c.Get("a")
	require.False(t, ok)

	// stale snapshot still containing the deleted record
	c.ApplySnapshot(snap(Participant{ID: "a", Name: "Ada"}, Participant{ID: "b", Name: "Bora"}))
	_, ok = c.Get("a")
	assert.False(t, ok)

	// once the deletion propagated the record is simply gone
	c.ApplySnapshot(snap(Participant{ID: "b", Name: "Bora"}))
	assert.Equal(t, 1, c.Len())
}

func TestCacheAllPreservesSnapshotOrder(t *testing.T) {
	c := NewCache()
	c.ApplySnapshot(snap(
		Participant{ID: "c", Name: "Cem"},
		Participant{ID: "a", Name: "Ada"},
		Participant{ID: "b", Name: "Bora"},
	))

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].ID, all[1].ID, all[2].ID})
}
