package ynison

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFrames replays fragments; each fragment may exceed the read buffer.
type fakeFrames struct {
	frames [][]byte
	final  []bool
	binary bool
	err    error
}

func (f *fakeFrames) Binary() bool {
	return f.binary
}

func (f *fakeFrames) ReadFrame(buf []byte) (int, bool, error) {
	if len(f.frames) == 0 {
		if f.err != nil {
			return 0, false, f.err
		}

		return 0, false, errors.New("no more frames")
	}

	n := copy(buf, f.frames[0])
	f.frames[0] = f.frames[0][n:]

	if len(f.frames[0]) > 0 {
		return n, false, nil
	}

	final := f.final[0]
	f.frames, f.final = f.frames[1:], f.final[1:]

	return n, final, nil
}

func split(payload []byte, parts int) ([][]byte, []bool) {
	var (
		frames [][]byte
		final  []bool
		size   = (len(payload) + parts - 1) / parts
	)

	for i := range parts {
		start := min(i*size, len(payload))
		end := min(start+size, len(payload))
		frames = append(frames, payload[start:end])
		final = append(final, i == parts-1)
	}

	return frames, final
}

// TestReassembler_SplitMessage tests that fragments are joined into one message.
func TestReassembler_SplitMessage(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte(`{"playerState":{"status":{"paused":true}}}`), 300)

	for _, parts := range []int{1, 2, 3, 7, 64} {
		frames, final := split(payload, parts)
		assembler := newReassembler(&fakeFrames{frames: frames, final: final})

		message, err := assembler.next()
		require.NoError(t, err)
		assert.Equal(t, payload, message.Data, "%d frames", parts)
		assert.False(t, message.Binary)
		assert.Zero(t, assembler.buffer.Len())
	}
}

// TestReassembler_Sequence tests that consecutive messages don't leak into each other.
func TestReassembler_Sequence(t *testing.T) {
	t.Parallel()

	source := &fakeFrames{
		frames: [][]byte{[]byte(`{"a":`), []byte(`1}`), []byte(`{"b":2}`), []byte(``)},
		final:  []bool{false, true, true, true},
	}
	assembler := newReassembler(source)

	first, err := assembler.next()
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, first.Text())

	second, err := assembler.next()
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, second.Text())

	empty, err := assembler.next()
	require.NoError(t, err)
	assert.Empty(t, empty.Data)
}

// TestReassembler_FailureMidMessage tests that a broken message is dropped.
func TestReassembler_FailureMidMessage(t *testing.T) {
	t.Parallel()

	failure := errors.New("connection reset")
	assembler := newReassembler(&fakeFrames{
		frames: [][]byte{[]byte(`{"partial":`)},
		final:  []bool{false},
		err:    failure,
	})

	message, err := assembler.next()
	require.ErrorIs(t, err, failure)
	assert.Nil(t, message.Data)
	assert.Zero(t, assembler.buffer.Len())
}

// TestReassembler_Binary tests that the message type travels with the payload.
func TestReassembler_Binary(t *testing.T) {
	t.Parallel()

	assembler := newReassembler(&fakeFrames{
		frames: [][]byte{{0x01, 0x02}, {0x03}},
		final:  []bool{false, true},
		binary: true,
	})

	message, err := assembler.next()
	require.NoError(t, err)
	assert.True(t, message.Binary)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, message.Data)
}
