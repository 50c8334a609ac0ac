package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChecker reports err, waits for its context when block is set, or
// waits for stuck to close without watching its context.
type stubChecker struct {
	name  string
	err   error
	block bool
	stuck chan struct{}
}

func (s *stubChecker) Name() string { return s.name }

func (s *stubChecker) Check(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}

	if s.stuck != nil {
		<-s.stuck
	}

	return s.err
}

func TestRegister(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&stubChecker{name: "content-store"}))
	require.NoError(t, registry.Register(&stubChecker{name: "catalog"}))

	err := registry.Register(&stubChecker{name: "content-store"})
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "content-store")

	assert.Len(t, registry.CheckAll(context.Background()).Checks, 2)
}

func TestCheckAll(t *testing.T) {
	tests := []struct {
		name       string
		checkers   []*stubChecker
		wantStatus HealthStatus
		wantChecks map[string]HealthStatus
	}{
		{
			name:       "no checkers",
			wantStatus: HealthStatusHealthy,
			wantChecks: map[string]HealthStatus{},
		},
		{
			name: "all healthy",
			checkers: []*stubChecker{
				{name: "content-store"},
				{name: "catalog"},
			},
			wantStatus: HealthStatusHealthy,
			wantChecks: map[string]HealthStatus{
				"content-store": HealthStatusHealthy,
				"catalog":       HealthStatusHealthy,
			},
		},
		{
			name: "content directory missing",
			checkers: []*stubChecker{
				{name: "content-store", err: errors.New("content store unavailable")},
				{name: "catalog"},
			},
			wantStatus: HealthStatusUnhealthy,
			wantChecks: map[string]HealthStatus{
				"content-store": HealthStatusUnhealthy,
				"catalog":       HealthStatusHealthy,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			result := registry.CheckAll(context.Background())

			assert.Equal(t, tt.wantStatus, result.Status)
			assert.False(t, result.Timestamp.IsZero())
			require.Len(t, result.Checks, len(tt.wantChecks))

			for name, want := range tt.wantChecks {
				assert.Equal(t, want, result.Checks[name].Status, name)
			}
		})
	}
}

func TestCheckAll_FailureMessage(t *testing.T) {
	registry := NewHealthRegistry()
	require.NoError(t, registry.Register(&stubChecker{name: "content-store", err: errors.New("stat content: no such file or directory")}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, "stat content: no such file or directory", result.Checks["content-store"].Message)
}

func TestCheckAll_CancelledContext(t *testing.T) {
	registry := NewHealthRegistry()
	require.NoError(t, registry.Register(&stubChecker{name: "content-store", block: true}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["content-store"].Message, "context canceled")
}

func TestCheckAll_CheckTimeout(t *testing.T) {
	registry := NewHealthRegistry(WithCheckTimeout(20 * time.Millisecond))
	require.NoError(t, registry.Register(&stubChecker{name: "slow", block: true}))
	require.NoError(t, registry.Register(&stubChecker{name: "content-store"}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["slow"].Message, "deadline exceeded")
	assert.Equal(t, HealthStatusHealthy, result.Checks["content-store"].Status)
}

func TestCheckAll_CheckIgnoringContext(t *testing.T) {
	stuck := make(chan struct{})
	t.Cleanup(func() { close(stuck) })

	registry := NewHealthRegistry(WithCheckTimeout(20 * time.Millisecond))
	require.NoError(t, registry.Register(&stubChecker{name: "content-store", stuck: stuck}))

	start := time.Now()
	result := registry.CheckAll(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["content-store"].Message, "deadline exceeded")
}
