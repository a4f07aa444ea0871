package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/voyago/assistant"
	"github.com/voyago/voyago/logging"
)

// fakeService counts thread creations and tracks which handles are valid.
type fakeService struct {
	mu      sync.Mutex
	created int
	invalid map[string]bool
	failing bool
}

func newFakeService() *fakeService {
	return &fakeService{invalid: map[string]bool{}}
}

func (f *fakeService) CreateThread(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return "", fmt.Errorf("service unavailable")
	}
	f.created++
	return fmt.Sprintf("thread-%d", f.created), nil
}

func (f *fakeService) ThreadExists(_ context.Context, threadID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.invalid[threadID]
}

func (f *fakeService) AddUserMessage(context.Context, string, string) error { return nil }
func (f *fakeService) CreateRun(context.Context, string) (string, error)    { return "", nil }
func (f *fakeService) GetRun(context.Context, string, string) (assistant.Run, error) {
	return assistant.Run{}, nil
}
func (f *fakeService) SubmitToolOutputs(context.Context, string, string, []assistant.ToolOutput) error {
	return nil
}
func (f *fakeService) LatestAssistantMessage(context.Context, string) (string, error) {
	return "", nil
}

func TestGetOrCreateThread_Stable(t *testing.T) {
	svc := newFakeService()
	reg := NewRegistry(svc, logging.NoOpLogger{})

	first, err := reg.GetOrCreateThread(context.Background(), "conv-1")
	require.NoError(t, err)
	second, err := reg.GetOrCreateThread(context.Background(), "conv-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, svc.created)
	assert.Equal(t, 1, reg.Len())
}

func TestGetOrCreateThread_SeparateConversations(t *testing.T) {
	svc := newFakeService()
	reg := NewRegistry(svc, logging.NoOpLogger{})

	a, err := reg.GetOrCreateThread(context.Background(), "conv-a")
	require.NoError(t, err)
	b, err := reg.GetOrCreateThread(context.Background(), "conv-b")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, reg.Len())
}

func TestGetOrCreateThread_StaleHandleReplaced(t *testing.T) {
	svc := newFakeService()
	reg := NewRegistry(svc, logging.NoOpLogger{})

	first, err := reg.GetOrCreateThread(context.Background(), "conv-1")
	require.NoError(t, err)

	svc.mu.Lock()
	svc.invalid[first] = true
	svc.mu.Unlock()

	second, err := reg.GetOrCreateThread(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// The replacement is stored; a third call returns it.
	third, err := reg.GetOrCreateThread(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, second, third)
}

func TestGetOrCreateThread_ServiceError(t *testing.T) {
	svc := newFakeService()
	svc.failing = true
	reg := NewRegistry(svc, logging.NoOpLogger{})

	_, err := reg.GetOrCreateThread(context.Background(), "conv-1")
	assert.Error(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestGetOrCreateThread_ConcurrentFirstMessage(t *testing.T) {
	svc := newFakeService()
	reg := NewRegistry(svc, logging.NoOpLogger{})

	const n = 16
	results := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := reg.GetOrCreateThread(context.Background(), "conv-race")
			assert.NoError(t, err)
			results[i] = id
		}(i)
	}
	wg.Wait()

	for _, id := range results {
		assert.Equal(t, results[0], id)
	}
	assert.Equal(t, 1, svc.created)
}
