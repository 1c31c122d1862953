package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/roomtag/pkg/core"
)

func TestSource_Forwards(t *testing.T) {
	in := make(chan core.Event, 2)
	src := NewSource(in)
	require.NoError(t, src.Start(context.Background()))

	in <- core.Event{Type: core.EventRecover, Container: "map", Key: "3,4", Anchors: 2}
	close(in)

	select {
	case e := <-src.Events():
		assert.Equal(t, "RECOVER map/3,4 (2 anchors)", e.String())
	case <-time.After(time.Second):
		t.Fatal("event not forwarded")
	}

	_, open := <-src.Events()
	assert.False(t, open, "output closes with the input")
}

func TestSource_FiltersTypes(t *testing.T) {
	in := make(chan core.Event, 3)
	src := NewSource(in, core.EventRecover)
	require.NoError(t, src.Start(context.Background()))

	in <- core.Event{Type: core.EventCreate, Key: "1"}
	in <- core.Event{Type: core.EventRecover, Key: "2"}
	close(in)

	var got []string
	for e := range src.Events() {
		got = append(got, e.(core.Event).Key)
	}
	assert.Equal(t, []string{"2"}, got)
}

func TestSource_StopsOnCancel(t *testing.T) {
	in := make(chan core.Event)
	ctx, cancel := context.WithCancel(context.Background())
	src := NewSource(in)
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, open := <-src.Events():
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("source did not stop")
	}
}
