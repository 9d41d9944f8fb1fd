package banker

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/allocsafe/banker/model"
	"github.com/allocsafe/banker/service/dao"
	"github.com/allocsafe/banker/service/decision"
	"github.com/allocsafe/banker/service/event"
)

const classicStateText = `# classic example
5 3
10 5 7
7 5 3
3 2 2
9 0 2
2 2 2
4 3 3
0 1 0
2 0 0
3 0 2
2 1 1
0 0 2
`

func uploadFixtures(t *testing.T, baseURL string) {
	t.Helper()
	ctx := context.Background()
	fs := afs.New()
	require.NoError(t, fs.Upload(ctx, baseURL+"/state.txt", file.DefaultFileOsMode,
		strings.NewReader(classicStateText)))
	scenario := `state: state.txt
requests:
  - process: 1
    amounts: [1, 0, 2]
  - process: 0
    amounts: [2, 3, 0]
`
	require.NoError(t, fs.Upload(ctx, baseURL+"/scenario.yaml", file.DefaultFileOsMode,
		strings.NewReader(scenario)))
}

func TestEngineEndToEnd(t *testing.T) {
	ctx := context.Background()
	baseURL := "mem://localhost/banker/e2e"
	uploadFixtures(t, baseURL)

	var notifications int64
	srv := New(
		WithLoaderBaseURL(baseURL),
		WithEventListener(func(e *event.Event[decision.Notification]) {
			atomic.AddInt64(&notifications, 1)
		}),
	)
	rt := srv.Runtime()

	state, err := rt.LoadState(ctx, "state.txt")
	require.NoError(t, err)
	assert.Equal(t, 5, state.Processes())

	result, err := rt.Evaluate()
	require.NoError(t, err)
	assert.True(t, result.Safe)
	assert.Equal(t, []int{1, 3, 0, 2, 4}, result.Order)

	granted, err := rt.Decide(ctx, &decision.Request{ID: "r1", Process: 1, Amounts: []int{1, 0, 2}})
	require.NoError(t, err)
	assert.True(t, granted.Granted)
	assert.Equal(t, model.Vector{2, 3, 0}, rt.State().AvailableVector())

	assert.Eventually(t, func() bool { return atomic.LoadInt64(&notifications) >= 1 },
		time.Second, 5*time.Millisecond)
	rt.Shutdown()
}

func TestEngineSnapshots(t *testing.T) {
	ctx := context.Background()
	baseURL := "mem://localhost/banker/snapshots"
	uploadFixtures(t, baseURL)

	srv := New(WithLoaderBaseURL(baseURL))
	rt := srv.Runtime()

	err := rt.Snapshot(ctx, "before")
	assert.ErrorIs(t, err, decision.ErrNoState)

	_, err = rt.LoadState(ctx, "state.txt")
	require.NoError(t, err)
	require.NoError(t, rt.Snapshot(ctx, "before"))

	granted, err := rt.Decide(ctx, &decision.Request{ID: "r1", Process: 1, Amounts: []int{1, 0, 2}})
	require.NoError(t, err)
	require.True(t, granted.Granted)
	assert.Equal(t, model.Vector{2, 3, 0}, rt.State().AvailableVector())

	require.NoError(t, rt.RestoreSnapshot(ctx, "before"))
	assert.Equal(t, model.Vector{3, 3, 2}, rt.State().AvailableVector())

	assert.ErrorIs(t, rt.RestoreSnapshot(ctx, "missing"), dao.ErrNotFound)
	assert.ErrorIs(t, rt.Snapshot(ctx, ""), dao.ErrInvalidID)
}

func TestEngineScenario(t *testing.T) {
	ctx := context.Background()
	baseURL := "mem://localhost/banker/scenario"
	uploadFixtures(t, baseURL)

	srv := New(WithLoaderBaseURL(baseURL))
	decisions, err := srv.Runtime().RunScenario(ctx, "scenario.yaml")
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	assert.True(t, decisions[0].Granted)
	assert.False(t, decisions[1].Granted)
}

func TestEngineQueueLoop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	baseURL := "mem://localhost/banker/loop"
	uploadFixtures(t, baseURL)

	srv := New(WithLoaderBaseURL(baseURL))
	rt := srv.Runtime()
	_, err := rt.LoadState(ctx, "state.txt")
	require.NoError(t, err)

	go func() { _ = rt.Start(ctx) }()

	request := &decision.Request{Process: 3, Amounts: []int{0, 1, 1}}
	require.NoError(t, rt.Submit(ctx, request))

	assert.Eventually(t, func() bool {
		pending, err := rt.Pending(context.Background())
		return err == nil && len(pending) == 0
	}, time.Second, 5*time.Millisecond)
	rt.Shutdown()
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, (*Config)(nil).Validate())
	assert.NoError(t, DefaultConfig().Validate())

	invalid := &Config{Capacity: model.Capacity{MaxProcesses: -1}}
	assert.Error(t, invalid.Validate())
	assert.Error(t, (&Config{QueueBuffer: -1}).Validate())
}
