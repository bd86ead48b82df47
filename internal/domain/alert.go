package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Channel is a notification transport.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// AlertInput is an authority's request to issue an alert. Region is free
// text; MaxMessageLen bounds the message body.
type AlertInput struct {
	Region    string
	Message   string
	RiskLevel RiskLevel
}

const MaxMessageLen = 500

// Validate rejects malformed input before any side effect occurs.
func (in AlertInput) Validate() error {
	if in.Region == "" {
		return fmt.Errorf("%w: region is required", ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(in.Message); n == 0 || n > MaxMessageLen {
		return fmt.Errorf("%w: message must be 1-%d characters", ErrInvalidInput, MaxMessageLen)
	}
	if _, err := ParseRiskLevel(string(in.RiskLevel)); err != nil {
		return err
	}
	return nil
}

// Body renders the outbound notification text for this alert.
func (in AlertInput) Body() string {
	return fmt.Sprintf("FLOOD ALERT: %s - Risk Level: %s", in.Message, in.RiskLevel)
}

// Alert is the append-only record of an issued alert.
type Alert struct {
	ID        int64     `json:"id"`
	Region    string    `json:"region"` // free text as submitted
	Message   string    `json:"message"`
	RiskLevel RiskLevel `json:"risk_level"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// AlertHistoryEntry is the delivery-accounting record for one dispatch.
// Written only when the alert's region text resolved to a known region.
type AlertHistoryEntry struct {
	ID          int64     `json:"id"`
	RegionID    int64     `json:"region_id"`
	Message     string    `json:"message"`
	RiskLevel   RiskLevel `json:"risk_level"`
	SentToCount int       `json:"sent_to_count"`
	CreatedBy   string    `json:"created_by"`
	SentAt      time.Time `json:"sent_at"`
}

// Recipient is a notification target owned by the user directory; the
// dispatcher only reads it.
type Recipient struct {
	ID              int64
	Phone           string
	SMSEnabled      bool
	WhatsAppEnabled bool
}

// Channels lists the transports this recipient has opted into.
func (r Recipient) Channels() []Channel {
	var chs []Channel
	if r.SMSEnabled {
		chs = append(chs, ChannelSMS)
	}
	if r.WhatsAppEnabled {
		chs = append(chs, ChannelWhatsApp)
	}
	return chs
}

// DeliveryResult is the outcome of one send attempt on one channel.
// Delivery failures are values collected per attempt, never errors that
// abort a dispatch.
type DeliveryResult struct {
	RecipientID int64
	Channel     Channel
	Err         error
}

// Succeeded reports whether the attempt reached the gateway successfully.
func (r DeliveryResult) Succeeded() bool { return r.Err == nil }

// CountReached reduces delivery results to the number of distinct recipients
// with at least one successful channel. A recipient reached on both channels
// counts once (OR semantics, not a sum of sends).
func CountReached(results []DeliveryResult) int {
	reached := make(map[int64]bool)
	for _, res := range results {
		if res.Succeeded() {
			reached[res.RecipientID] = true
		}
	}
	return len(reached)
}

// AlertDispatchedEvent is the audit event published after a dispatch commits.
type AlertDispatchedEvent struct {
	EventID      string    `json:"event_id"`
	AlertID      int64     `json:"alert_id"`
	Region       string    `json:"region"`
	RegionID     *int64    `json:"region_id,omitempty"`
	RiskLevel    RiskLevel `json:"risk_level"`
	SentToCount  int       `json:"sent_to_count"`
	DispatchedAt time.Time `json:"dispatched_at"`
}
