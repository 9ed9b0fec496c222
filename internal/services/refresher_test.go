package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresherStartStop(t *testing.T) {
	svc := NewDatasetService(nil, nil, quietLogger(), writeFixtureSources(t))
	refresher := NewRefresherService(svc, quietLogger(), time.Hour)

	status := refresher.Status()
	assert.False(t, status.Running)
	assert.Equal(t, "1h0m0s", status.Interval)
	assert.True(t, status.LastRun.IsZero())

	require.NoError(t, refresher.Start())
	assert.True(t, refresher.Status().Running)
	assert.Error(t, refresher.Start(), "double start must be rejected")

	refresher.Stop()
	assert.False(t, refresher.Status().Running)
	refresher.Stop() // stopping twice is harmless
}

func TestRefresherRebuildUpdatesStatus(t *testing.T) {
	svc := NewDatasetService(nil, nil, quietLogger(), writeFixtureSources(t))
	refresher := NewRefresherService(svc, quietLogger(), time.Hour)

	require.Nil(t, svc.Current())
	refresher.rebuild()

	assert.NotNil(t, svc.Current(), "rebuild swaps a fresh dataset in")
	status := refresher.Status()
	assert.False(t, status.LastRun.IsZero())
	assert.Empty(t, status.LastError)
}
