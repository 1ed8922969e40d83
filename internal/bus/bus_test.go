package bus

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/spotui/internal/action"
)

func TestFIFO(t *testing.T) {
	b := New()
	require.NoError(t, b.Send(action.Tick()))
	require.NoError(t, b.Send(action.Downloading("one")))
	require.NoError(t, b.Send(action.DownloadFinished()))

	var got []action.Action
	for {
		a, ok := b.TryReceive()
		if !ok {
			break
		}
		got = append(got, a)
	}

	require.Len(t, got, 3)
	assert.True(t, got[0].Equal(action.Tick()))
	assert.True(t, got[1].Equal(action.Downloading("one")))
	assert.True(t, got[2].Equal(action.DownloadFinished()))
	assert.Equal(t, 0, b.Len())
}

func TestTryReceiveEmpty(t *testing.T) {
	b := New()
	_, ok := b.TryReceive()
	assert.False(t, ok)
}

func TestReadySignal(t *testing.T) {
	b := New()
	require.NoError(t, b.Send(action.Quit()))
	require.NoError(t, b.Send(action.Quit()))

	select {
	case <-b.Ready():
	default:
		t.Fatal("expected ready signal after send")
	}

	// Coalesced: a single pending signal covers both sends
	select {
	case <-b.Ready():
		t.Fatal("expected a single coalesced signal")
	default:
	}
	assert.Equal(t, 2, b.Len())
}

func TestSendAfterClose(t *testing.T) {
	b := New()
	require.NoError(t, b.Send(action.Tick()))
	b.Close()

	assert.ErrorIs(t, b.Send(action.Tick()), ErrClosed)
	assert.True(t, b.Closed())

	// Queued actions survive close
	_, ok := b.TryReceive()
	assert.True(t, ok)
}

func TestConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	b := New()
	const producers, perProducer = 8, 200

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = b.Send(action.SelectPlaylist(fmt.Sprint(p), i))
			}
		}(p)
	}
	wg.Wait()

	last := make(map[string]int)
	count := 0
	for {
		a, ok := b.TryReceive()
		if !ok {
			break
		}
		count++
		prev, seen := last[a.Path]
		if seen {
			assert.Greater(t, a.Index, prev, "producer %s out of order", a.Path)
		}
		last[a.Path] = a.Index
	}
	assert.Equal(t, producers*perProducer, count)
}

func TestSendDoesNotAliasNames(t *testing.T) {
	b := New()
	names := []string{"a"}
	a := action.Action{Kind: action.KindGetDirs, Names: names}
	require.NoError(t, b.Send(a))
	names[0] = "changed"

	got, ok := b.TryReceive()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, got.Names)
}
