package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertInput_Validate(t *testing.T) {
	valid := AlertInput{Region: "Kochi", Message: "River rising", RiskLevel: RiskHigh}
	require.NoError(t, valid.Validate())

	t.Run("critical is issuer-suppliable", func(t *testing.T) {
		in := valid
		in.RiskLevel = RiskCritical
		assert.NoError(t, in.Validate())
	})

	t.Run("missing region", func(t *testing.T) {
		in := valid
		in.Region = ""
		assert.ErrorIs(t, in.Validate(), ErrInvalidInput)
	})

	t.Run("empty message", func(t *testing.T) {
		in := valid
		in.Message = ""
		assert.ErrorIs(t, in.Validate(), ErrInvalidInput)
	})

	t.Run("message at limit", func(t *testing.T) {
		in := valid
		in.Message = strings.Repeat("a", MaxMessageLen)
		assert.NoError(t, in.Validate())
	})

	t.Run("message over limit", func(t *testing.T) {
		in := valid
		in.Message = strings.Repeat("a", MaxMessageLen+1)
		assert.ErrorIs(t, in.Validate(), ErrInvalidInput)
	})

	t.Run("unknown risk level", func(t *testing.T) {
		in := valid
		in.RiskLevel = "apocalyptic"
		assert.ErrorIs(t, in.Validate(), ErrInvalidInput)
	})
}

func TestAlertInput_Body(t *testing.T) {
	in := AlertInput{Region: "Kochi", Message: "Evacuate low-lying areas", RiskLevel: RiskHigh}
	assert.Equal(t, "FLOOD ALERT: Evacuate low-lying areas - Risk Level: high", in.Body())
}

func TestRecipient_Channels(t *testing.T) {
	assert.Empty(t, Recipient{}.Channels())
	assert.Equal(t, []Channel{ChannelSMS}, Recipient{SMSEnabled: true}.Channels())
	assert.Equal(t, []Channel{ChannelWhatsApp}, Recipient{WhatsAppEnabled: true}.Channels())
	assert.Equal(t,
		[]Channel{ChannelSMS, ChannelWhatsApp},
		Recipient{SMSEnabled: true, WhatsAppEnabled: true}.Channels(),
	)
}

func TestCountReached(t *testing.T) {
	failed := errors.New("gateway down")

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0, CountReached(nil))
	})

	t.Run("one success per recipient", func(t *testing.T) {
		results := []DeliveryResult{
			{RecipientID: 1, Channel: ChannelSMS},
			{RecipientID: 2, Channel: ChannelSMS, Err: failed},
			{RecipientID: 3, Channel: ChannelWhatsApp},
		}
		assert.Equal(t, 2, CountReached(results))
	})

	t.Run("recipient counted once across channels", func(t *testing.T) {
		results := []DeliveryResult{
			{RecipientID: 1, Channel: ChannelSMS},
			{RecipientID: 1, Channel: ChannelWhatsApp},
		}
		assert.Equal(t, 1, CountReached(results))
	})

	t.Run("one channel failing still counts the other", func(t *testing.T) {
		results := []DeliveryResult{
			{RecipientID: 1, Channel: ChannelSMS, Err: failed},
			{RecipientID: 1, Channel: ChannelWhatsApp},
		}
		assert.Equal(t, 1, CountReached(results))
	})

	t.Run("all failures", func(t *testing.T) {
		results := []DeliveryResult{
			{RecipientID: 1, Channel: ChannelSMS, Err: failed},
			{RecipientID: 2, Channel: ChannelWhatsApp, Err: failed},
		}
		assert.Equal(t, 0, CountReached(results))
	})
}
