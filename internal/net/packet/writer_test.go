package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteC(0xfe)
	w.WriteH(-2)
	w.WriteD(-70000)
	w.WriteBool(true)
	w.WriteS("ayla")
	w.WriteS("")
	w.WriteBytes([]byte{9, 8})

	assert.Equal(t, []byte{0xfe, 0xfe, 0xff}, w.Bytes()[:3])

	r := NewReader(w.Bytes())
	assert.Equal(t, byte(0xfe), r.ReadC())
	assert.Equal(t, int16(-2), r.ReadH())
	assert.Equal(t, int32(-70000), r.ReadD())
	assert.True(t, r.ReadBool())
	assert.Equal(t, "ayla", r.ReadS())
	assert.Equal(t, "", r.ReadS())
	assert.Equal(t, 2, r.Remaining())
	r.Skip(2)
	require.NoError(t, r.Err())
}

func TestReadSWithoutTerminator(t *testing.T) {
	r := NewReader([]byte("abc"))
	assert.Equal(t, "", r.ReadS())
	assert.ErrorIs(t, r.Err(), ErrTruncated)
	assert.Equal(t, 0, r.Remaining())
}
