package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegisflood/alert-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	regionID := int64(9)
	event := domain.AlertDispatchedEvent{
		EventID:      "evt-123",
		AlertID:      42,
		Region:       "Kochi",
		RegionID:     &regionID,
		RiskLevel:    domain.RiskHigh,
		SentToCount:  2,
		DispatchedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("evt-123"), msg.Key)

	var decoded domain.AlertDispatchedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event, decoded)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "high", headers["risk_level"])
	assert.Equal(t, "2026-03-14T12:00:00Z", headers["dispatched_at"])
}

func TestSerializeToMessage_OmitsNilRegion(t *testing.T) {
	event := domain.AlertDispatchedEvent{
		EventID:   "evt-456",
		AlertID:   43,
		Region:    "Nowhere",
		RiskLevel: domain.RiskLow,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &raw))
	assert.NotContains(t, raw, "region_id")
}
