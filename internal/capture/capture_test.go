package capture

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/combatstats/internal/net/packet"
	"github.com/l1jgo/combatstats/internal/world"
)

func TestCaptureRoundTrip(t *testing.T) {
	records := []Record{
		LoginRecord(world.PlayerInfo{Slot: 1, AccountID: 100, Name: "ayla", Defense: 12}),
		NpcRecord(world.NpcSnapshot{Slot: 7, Target: 1, AIStyle: 3, Type: 21, Defense: 20, Life: 50, Active: true, Boss: true}),
		PacketRecord(packet.NpcStrike, 1, []byte{7, 0, 60, 0, 0}),
		NpcRecord(world.NpcSnapshot{Slot: 8, Target: -1, Friendly: true}),
		LogoutRecord(1),
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	for _, rec := range records {
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	defer r.Close()

	var got []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, rec)
	}
	assert.Equal(t, records, got)
}

func TestPacketBodyDoesNotAliasReadBuffer(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Write(PacketRecord(packet.PlayerDeath, 2, []byte{2, 0, 0, 0, 1})))
	require.NoError(t, w.Write(PacketRecord(packet.PlayerDeath, 3, []byte{3, 0, 0, 0, 0})))
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	defer r.Close()
	first, err := r.Next()
	require.NoError(t, err)
	_, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 0, 0, 1}, first.Body)
}

func TestWriteRejectsBadRecords(t *testing.T) {
	w, err := NewWriter(io.Discard)
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.Write(LoginRecord(world.PlayerInfo{Slot: world.MaxSlots})))
	assert.Error(t, w.Write(LogoutRecord(-1)))
	assert.Error(t, w.Write(PacketRecord(packet.NpcStrike, 300, []byte{1})))
	assert.Error(t, w.Write(Record{Kind: 99}))
}

func TestUnmarshalTruncated(t *testing.T) {
	_, err := unmarshal([]byte{byte(RecordNpc), 7, 1, 0})
	assert.ErrorIs(t, err, packet.ErrTruncated)

	_, err = unmarshal([]byte{byte(RecordLogin), 1, 100, 0, 0, 0, 0, 0, 0, 0, 'a'})
	assert.ErrorIs(t, err, packet.ErrTruncated)

	_, err = unmarshal([]byte{0})
	assert.ErrorContains(t, err, "unknown record kind")
}

func TestReaderReportsTruncatedStream(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	// A frame header claiming more payload than follows.
	_, err = w.enc.Write([]byte{10, 0, byte(RecordLogout)})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	defer r.Close()
	_, err = r.Next()
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}
