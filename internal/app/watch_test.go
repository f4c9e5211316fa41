package app_test

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func eventStream(ch <-chan ports.WatchEvent) iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for e := range ch {
			if !yield(e) {
				return
			}
		}
	}
}

func TestApp_Run_Watch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ws := copyWorkspace(t)
		ta := newTestApp(t, ws)
		ta.allowLogs()

		events := make(chan ports.WatchEvent)
		w := mocks.NewMockWatcher(gomock.NewController(t))
		w.EXPECT().Start(gomock.Any(), ws.Root).Return(nil)
		w.EXPECT().Events().Return(eventStream(events))
		w.EXPECT().Stop().DoAndReturn(func() error {
			close(events)
			return nil
		})
		ta.app.WithWatcher(func() (ports.Watcher, error) { return w, nil })

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error)
		go func() {
			done <- ta.app.Run(ctx, []string{"copy"}, app.RunOptions{Jobs: 1, Watch: true})
		}()

		output := filepath.Join(ws.ExecRoot, "out", "copy.txt")
		synctest.Wait()
		got, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, "v1", string(got))

		input := filepath.Join(ws.Root, "in.txt")
		require.NoError(t, os.WriteFile(input, []byte("v2"), 0o600))
		events <- ports.WatchEvent{Path: input, Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		got, err = os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, "v2", string(got))

		// Changes to files no action reads do not trigger a rebuild.
		events <- ports.WatchEvent{Path: filepath.Join(ws.Root, "unrelated.txt"), Operation: ports.OpCreate}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		cancel()
		require.NoError(t, <-done)
	})
}
