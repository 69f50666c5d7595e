package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartStop(t *testing.T) {
	t.Parallel()

	app, err := NewCatalogApp(context.Background(),
		WithConfig(testConfig()),
		WithAddress("127.0.0.1:0"),
		WithListerFactory(newListerFactory(t, &fixedLister{})),
	)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	// Give the server a moment to start listening
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, app.Stop(5*time.Second))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	// Releasing twice is safe
	app.Close()
}
