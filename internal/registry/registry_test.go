package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinCreatesRoomAndCounts(t *testing.T) {
	reg := New(nil)

	require.False(t, reg.RoomExists("abc"))
	require.Equal(t, 0, reg.MemberCount("abc"))

	assert.Equal(t, 1, reg.Join("abc", "x"))
	assert.Equal(t, 2, reg.Join("abc", "y"))
	assert.True(t, reg.RoomExists("abc"))
	assert.Equal(t, 2, reg.MemberCount("abc"))
	assert.Equal(t, 1, reg.RoomCount())
}

func TestJoinSameMemberTwiceDoesNotGrow(t *testing.T) {
	reg := New(nil)

	assert.Equal(t, 1, reg.Join("abc", "x"))
	assert.Equal(t, 1, reg.Join("abc", "x"))
	assert.Equal(t, 1, reg.MemberCount("abc"))
}

func TestLeaveIsIdempotentAndDeletesEmptyRoom(t *testing.T) {
	reg := New(nil)

	reg.Join("abc", "x")
	reg.Join("abc", "y")

	reg.Leave("abc", "x")
	assert.True(t, reg.RoomExists("abc"))
	assert.Equal(t, 1, reg.MemberCount("abc"))

	// Removing an absent member or leaving an absent room is a no-op.
	reg.Leave("abc", "x")
	reg.Leave("nope", "x")
	assert.Equal(t, 1, reg.MemberCount("abc"))

	reg.Leave("abc", "y")
	assert.False(t, reg.RoomExists("abc"))
	assert.Equal(t, 0, reg.RoomCount())
}

func TestMembersOfExcludesSelf(t *testing.T) {
	reg := New(nil)

	reg.Join("abc", "x")
	reg.Join("abc", "y")
	reg.Join("abc", "z")

	members := reg.MembersOf("abc", "x")
	assert.ElementsMatch(t, []string{"y", "z"}, members)

	all := reg.MembersOf("abc", "")
	assert.ElementsMatch(t, []string{"x", "y", "z"}, all)

	assert.Nil(t, reg.MembersOf("nope", "x"))
}

func TestRoomsSnapshotIsSorted(t *testing.T) {
	reg := New(nil)

	reg.Join("zulu", "a")
	reg.Join("alpha", "b")
	reg.Join("alpha", "c")

	stats := reg.Rooms()
	require.Len(t, stats, 2)
	assert.Equal(t, "alpha", stats[0].RoomID)
	assert.Equal(t, 2, stats[0].UserCount)
	assert.Equal(t, "zulu", stats[1].RoomID)
	assert.Equal(t, 1, stats[1].UserCount)
}

func TestConcurrentJoinLeave(t *testing.T) {
	reg := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("conn-%d", i)
			reg.Join("abc", id)
			reg.Leave("abc", id)
		}(i)
	}
	wg.Wait()

	assert.False(t, reg.RoomExists("abc"))
	assert.Equal(t, 0, reg.RoomCount())
}
