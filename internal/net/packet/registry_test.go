package packet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatchUnknownKind(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := NewRegistry(zap.New(core))
	called := false
	reg.Register(NpcStrike, func(int, *Reader) (bool, error) {
		called = true
		return true, nil
	})
	reg.Seal()

	assert.False(t, reg.Dispatch(Kind(99), 1, []byte{1, 2, 3}))
	assert.False(t, called)
	assert.Equal(t, 0, logs.Len())
}

func TestDispatchReturnsHandlerResult(t *testing.T) {
	reg := NewRegistry(nil)
	var gotSlot int
	reg.Register(NpcStrike, func(slot int, r *Reader) (bool, error) {
		gotSlot = slot
		_, err := DecodeNpcStrike(r)
		return true, err
	})
	reg.Seal()

	assert.True(t, reg.Dispatch(NpcStrike, 3, []byte{1, 0, 10, 0, 0}))
	assert.Equal(t, 3, gotSlot)
	assert.False(t, reg.Dispatch(NpcStrike, 3, []byte{1, 0}))
}

func TestDispatchRecoversPanic(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := NewRegistry(zap.New(core))
	calls := 0
	reg.Register(PlayerDeath, func(int, *Reader) (bool, error) {
		calls++
		if calls == 1 {
			panic("sink exploded")
		}
		return true, nil
	})
	reg.Seal()

	assert.False(t, reg.Dispatch(PlayerDeath, 0, nil))
	assert.True(t, reg.Dispatch(PlayerDeath, 0, nil))
	assert.Equal(t, 1, logs.FilterMessage("packet handler panic").Len())
}

func TestDispatchLogsErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := NewRegistry(zap.New(core))
	reg.Register(PlayerDamage, func(int, *Reader) (bool, error) {
		return true, errors.New("boom")
	})
	reg.Seal()

	assert.False(t, reg.Dispatch(PlayerDamage, 2, nil))
	entries := logs.FilterMessage("packet handler failed").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	}
}

func TestRegisterAfterSealPanics(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Seal()
	assert.Panics(t, func() {
		reg.Register(NpcStrike, func(int, *Reader) (bool, error) { return false, nil })
	})
}

func TestRegisterDuplicatePanics(t *testing.T) {
	reg := NewRegistry(nil)
	fn := func(int, *Reader) (bool, error) { return false, nil }
	reg.Register(NpcStrike, fn)
	assert.Panics(t, func() { reg.Register(NpcStrike, fn) })
}

func TestDispatchReaderStartsClean(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(NpcStrike, func(_ int, r *Reader) (bool, error) {
		_, err := DecodeNpcStrike(r)
		return true, err
	})
	reg.Seal()

	assert.False(t, reg.Dispatch(NpcStrike, 1, []byte{1}))
	assert.True(t, reg.Dispatch(NpcStrike, 1, []byte{1, 0, 10, 0, 0}))
	assert.True(t, reg.Dispatch(NpcStrike, 1, []byte{2, 0, 20, 0, 1}))
}

func TestDispatchDoesNotAllocate(t *testing.T) {
	if raceEnabled {
		t.Skip("sync.Pool drops items at random under the race detector")
	}
	reg := NewRegistry(nil)
	reg.Register(NpcStrike, func(_ int, r *Reader) (bool, error) {
		_, err := DecodeNpcStrike(r)
		return true, err
	})
	reg.Seal()
	body := []byte{1, 0, 10, 0, 0}

	allocs := testing.AllocsPerRun(100, func() {
		reg.Dispatch(NpcStrike, 1, body)
	})
	assert.Zero(t, allocs)
}
