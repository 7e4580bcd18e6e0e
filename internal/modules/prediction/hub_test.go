package prediction

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishDeliversAndRemembers(t *testing.T) {
	hub := NewHub(zerolog.New(nil).Level(zerolog.Disabled))

	updates, latest, cancel := hub.Subscribe()
	defer cancel()
	assert.Nil(t, latest)
	assert.Equal(t, 1, hub.Subscribers())

	require.NoError(t, hub.Publish(ArbitrageReport{Count: 3, Opportunities: []Opportunity{}}))

	msg := <-updates
	var got ArbitrageReport
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, 3, got.Count)

	_, latest, cancelLate := hub.Subscribe()
	defer cancelLate()
	assert.JSONEq(t, string(msg), string(latest))
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.New(nil).Level(zerolog.Disabled))
	_, _, cancel := hub.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer*3; i++ {
		require.NoError(t, hub.Publish(ArbitrageReport{Count: i}))
	}
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	hub := NewHub(zerolog.New(nil).Level(zerolog.Disabled))
	updates, _, cancel := hub.Subscribe()

	cancel()
	cancel()

	_, open := <-updates
	assert.False(t, open)
	assert.Zero(t, hub.Subscribers())
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(zerolog.New(nil).Level(zerolog.Disabled))
	updates, _, cancel := hub.Subscribe()

	hub.Close()
	cancel()

	_, open := <-updates
	assert.False(t, open)
	assert.NoError(t, hub.Publish(ArbitrageReport{}))

	late, _, _ := hub.Subscribe()
	_, open = <-late
	assert.False(t, open)
}
