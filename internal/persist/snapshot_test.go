package persist

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jules19/canadian-salad/internal/config"
	"github.com/jules19/canadian-salad/internal/game"
)

func testStore(keep int) (*Store, afero.Fs) {
	fs := afero.NewMemMapFs()
	cfg := config.SnapshotSettings{Dir: "game-states", Interval: time.Second, Keep: keep}
	return New(fs, cfg, zap.NewNop()), fs
}

func startedRoom(t *testing.T) *game.Room {
	t.Helper()
	room := game.NewRoom("ABCD", game.NewPlayer("conn-0", "Host"), zap.NewNop())
	for _, name := range []string{"Bob", "Carol", "Dave"} {
		require.NoError(t, room.AddPlayer(game.NewPlayer(name+"-conn", name)))
	}
	require.NoError(t, room.Start())
	return room
}

func TestSaveAndLoadLatest(t *testing.T) {
	store, _ := testStore(10)
	room := startedRoom(t)
	room.Players[0].Score = 55

	require.NoError(t, store.Save([]*game.Room{room}))

	rooms, err := store.LoadLatest()
	require.NoError(t, err)
	require.Len(t, rooms, 1)

	got := rooms[0]
	assert.Equal(t, "ABCD", got.Code)
	assert.Equal(t, game.StatusPlaying, got.Status)
	assert.Equal(t, room.HostID, got.HostID)
	assert.Equal(t, 1, got.Round.Number)
	require.Len(t, got.Players, 4)
	assert.Equal(t, 55, got.Players[0].Score)
	assert.Len(t, got.Players[0].Hand, 13)
	assert.Equal(t, room.Players[0].ID, got.Players[0].ID)
}

func TestRestoredRoomScores(t *testing.T) {
	store, _ := testStore(10)
	require.NoError(t, store.Save([]*game.Room{startedRoom(t)}))

	rooms, err := store.LoadLatest()
	require.NoError(t, err)
	require.Len(t, rooms, 1)

	// Round 1 penalizes 10 per card in a captured trick; its scoring
	// function must survive the round trip.
	trick := []game.Card{
		{Suit: game.Hearts, Rank: game.Two},
		{Suit: game.Hearts, Rank: game.Five},
		{Suit: game.Hearts, Rank: game.Nine},
		{Suit: game.Hearts, Rank: game.King},
	}
	assert.Equal(t, 40, rooms[0].Round.Score(trick, false))
}

func TestLoadLatestEmpty(t *testing.T) {
	store, _ := testStore(10)

	rooms, err := store.LoadLatest()
	require.NoError(t, err)
	assert.Nil(t, rooms)
}

func TestSaveSkipsEmptyRegistry(t *testing.T) {
	store, fs := testStore(10)

	require.NoError(t, store.Save(nil))

	exists, err := afero.DirExists(fs, "game-states")
	require.NoError(t, err)
	assert.False(t, exists, "empty save should not touch the filesystem")
}

func TestPruneKeepsNewest(t *testing.T) {
	store, fs := testStore(2)
	room := startedRoom(t)

	for i := 0; i < 4; i++ {
		room.Players[0].Score = i
		require.NoError(t, store.Save([]*game.Room{room}))
		time.Sleep(2 * time.Millisecond) // millisecond timestamps name the files
	}

	infos, err := afero.ReadDir(fs, "game-states")
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	rooms, err := store.LoadLatest()
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, 3, rooms[0].Players[0].Score, "latest snapshot should win")
}
