package history

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/markertrack/internal/engine/buffer"
	"github.com/dshills/markertrack/internal/engine/change"
	"github.com/dshills/markertrack/internal/engine/frozen"
)

func TestLogAppend(t *testing.T) {
	base := frozen.New("hello")
	log := NewLog(base)

	cur, err := log.Append(change.NewInsert(5, " world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", cur.Text())

	_, err = log.Append(change.NewDelete(0, 6))
	require.NoError(t, err)

	assert.Equal(t, 2, log.Len())
	assert.Same(t, base, log.Base())
	assert.Equal(t, "world", log.Current().Text())
	assert.Equal(t, 2, log.Current().Stamp())
}

func TestLogRejectsInvalidEvents(t *testing.T) {
	log := NewLog(frozen.New("abc"))

	_, err := log.Append(change.NewDelete(1, 9))
	assert.True(t, errors.Is(err, buffer.ErrOffsetOutOfRange), "got %v", err)
	assert.Equal(t, 0, log.Len(), "rejected event must not be logged")
	assert.Equal(t, "abc", log.Current().Text())
}

func TestLogEventsAreCapped(t *testing.T) {
	log := NewLog(frozen.NewLength(10))

	_, err := log.Append(change.NewLengthEdit(0, 0, 1))
	require.NoError(t, err)
	prefix := log.Events()
	require.Len(t, prefix, 1)
	assert.Equal(t, 1, cap(prefix))

	_, err = log.Append(change.NewLengthEdit(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, prefix, 1, "earlier views must not grow")
	assert.Len(t, log.Events(), 2)
}

func TestLogCommit(t *testing.T) {
	log := NewLog(frozen.New("abc"))
	_, err := log.Append(change.NewInsert(3, "def"))
	require.NoError(t, err)
	before := log.View()

	base := log.Commit()
	assert.Equal(t, "abcdef", base.Text())
	assert.Equal(t, 0, base.Stamp())
	assert.Equal(t, 0, log.Len())
	assert.Equal(t, uint64(1), log.Generation())

	// Views taken before the commit are unaffected.
	assert.Len(t, before.Events, 1)
	assert.Equal(t, "abc", before.Base.Text())
	assert.Equal(t, uint64(0), before.Generation)

	after, err := before.Base.ApplyAll(before.Events)
	require.NoError(t, err)
	assert.Equal(t, before.Current.Text(), after.Text())
}

func TestLogConcurrentReaders(t *testing.T) {
	log := NewLog(frozen.NewLength(0))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = log.Append(change.NewLengthEdit(0, 0, 1))
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				v := log.View()
				if v.Current.Len() != buffer.ByteOffset(len(v.Events)) {
					t.Errorf("inconsistent view: %d events, length %d", len(v.Events), v.Current.Len())
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, log.Len())
}
