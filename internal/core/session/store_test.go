package session

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCreateGetDelete(t *testing.T) {
	st := NewStore(&fakeExtractor{}, zerolog.Nop())

	sess := st.Create()
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, 1, st.Len())

	got, ok := st.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)

	st.Delete(sess.ID)
	_, ok = st.Get(sess.ID)
	assert.False(t, ok)
}

func TestStoreSweepEvictsIdleSessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore(&fakeExtractor{}, zerolog.Nop())
	st.now = func() time.Time { return now }

	stale := st.Create()
	now = now.Add(30 * time.Minute)
	fresh := st.Create()
	now = now.Add(40 * time.Minute)

	removed := st.Sweep(time.Hour)

	assert.Equal(t, 1, removed)
	_, ok := st.Get(stale.ID)
	assert.False(t, ok)
	_, ok = st.Get(fresh.ID)
	assert.True(t, ok)
}

func TestStoreSweepKeepsBusySessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ex := &fakeExtractor{text: "x", started: make(chan struct{}, 1), release: make(chan struct{})}
	st := NewStore(ex, zerolog.Nop())
	st.now = func() time.Time { return now }

	sess := st.Create()
	sess.SelectFile(pdfDoc("a.pdf"))
	done := make(chan error, 1)
	go func() { done <- sess.Convert(context.Background()) }()
	<-ex.started

	now = now.Add(2 * time.Hour)
	assert.Zero(t, st.Sweep(time.Hour))

	close(ex.release)
	require.NoError(t, <-done)
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	st := NewStore(&fakeExtractor{}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- st.RunJanitor(ctx, time.Millisecond, time.Hour) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
