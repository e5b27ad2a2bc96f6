package stocknotify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreGetSet(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":1}`)))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), v)

	require.NoError(t, s.Set(ctx, "k", []byte(`{"a":2}`)))
	v, _, _ = s.Get(ctx, "k")
	assert.Equal(t, []byte(`{"a":2}`), v)
}

func TestMemStoreReturnsCopies(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	in := []byte("original")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'X'

	v, _, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("original"), v)

	v[0] = 'Y'
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("original"), again)
}

func TestStateRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	state := State{
		Notifications: []StockNotification{
			{
				ID:           "1765700000000000000-p1",
				ProductID:    "p1",
				ProductName:  "Espresso Beans",
				CurrentStock: 4,
				Threshold:    100,
				Severity:     SeverityCritical,
				CreatedAt:    created,
				IsRead:       false,
			},
			{
				ID:           "1765600000000000000-p2",
				ProductID:    "p2",
				ProductName:  "Oat Milk",
				CurrentStock: 70,
				Threshold:    100,
				Severity:     SeverityWarning,
				CreatedAt:    created.Add(-time.Hour),
				IsRead:       true,
			},
		},
		LastChecked: map[string]time.Time{
			"p1": created,
			"p2": created.Add(-time.Hour),
		},
	}

	raw, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded State
	require.NoError(t, json.Unmarshal(raw, &decoded))

	require.Len(t, decoded.Notifications, 2)
	for i, n := range state.Notifications {
		d := decoded.Notifications[i]
		assert.Equal(t, n.ID, d.ID)
		assert.Equal(t, n.ProductID, d.ProductID)
		assert.Equal(t, n.ProductName, d.ProductName)
		assert.Equal(t, n.CurrentStock, d.CurrentStock)
		assert.Equal(t, n.Threshold, d.Threshold)
		assert.Equal(t, n.Severity, d.Severity)
		assert.Equal(t, n.IsRead, d.IsRead)
		assert.True(t, n.CreatedAt.Equal(d.CreatedAt))
	}
	require.Len(t, decoded.LastChecked, 2)
	for id, ts := range state.LastChecked {
		assert.True(t, ts.Equal(decoded.LastChecked[id]), "lastChecked[%s]", id)
	}

	// A second pass produces identical bytes.
	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))
}

func TestEmptyStateRoundTrip(t *testing.T) {
	raw, err := json.Marshal(emptyState())
	require.NoError(t, err)
	assert.JSONEq(t, `{"notifications":[],"lastChecked":{}}`, string(raw))

	var decoded State
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.NotNil(t, decoded.Notifications)
	assert.NotNil(t, decoded.LastChecked)
	assert.Empty(t, decoded.Notifications)
	assert.Empty(t, decoded.LastChecked)
}
