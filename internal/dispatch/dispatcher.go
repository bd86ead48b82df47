// Package dispatch turns an authority-issued alert into a persisted record,
// a fanned-out set of notifications, and a delivery-accounting history entry.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aegisflood/alert-service/internal/domain"
	"github.com/aegisflood/alert-service/internal/observability"
)

// RegionDirectory resolves free-text region names. FindByName performs a
// case-insensitive substring match and returns the first hit, or nil when
// nothing matches.
type RegionDirectory interface {
	FindByName(ctx context.Context, text string) (*domain.Region, error)
}

// RecipientDirectory lists notification targets owned by the user directory.
type RecipientDirectory interface {
	ListActiveCitizens(ctx context.Context) ([]domain.Recipient, error)
}

// Gateway sends one message to one recipient via one channel. A non-nil
// error means the channel attempt failed; it never carries partial state.
type Gateway interface {
	Send(ctx context.Context, channel domain.Channel, to, body string) error
}

// AlertTx is one transactional unit of alert persistence. InsertAlert and
// InsertHistory stage writes; nothing is visible until Commit.
type AlertTx interface {
	InsertAlert(ctx context.Context, alert domain.Alert) (domain.Alert, error)
	InsertHistory(ctx context.Context, entry domain.AlertHistoryEntry) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// AlertStore opens alert persistence transactions.
type AlertStore interface {
	Begin(ctx context.Context) (AlertTx, error)
}

// EventPublisher emits audit events after a dispatch commits. Publishing is
// best-effort; failures are logged, never surfaced.
type EventPublisher interface {
	PublishDispatched(ctx context.Context, event domain.AlertDispatchedEvent) error
}

// Dispatcher coordinates one alert dispatch: authorize, persist, fan out,
// account, commit.
type Dispatcher struct {
	regions     RegionDirectory
	recipients  RecipientDirectory
	gateway     Gateway
	store       AlertStore
	publisher   EventPublisher // nil disables audit events
	logger      *slog.Logger
	metrics     *observability.Metrics
	sendTimeout time.Duration
}

// New creates a Dispatcher. Pass a nil publisher to disable audit events.
func New(
	regions RegionDirectory,
	recipients RecipientDirectory,
	gateway Gateway,
	store AlertStore,
	publisher EventPublisher,
	logger *slog.Logger,
	metrics *observability.Metrics,
	sendTimeout time.Duration,
) *Dispatcher {
	return &Dispatcher{
		regions:     regions,
		recipients:  recipients,
		gateway:     gateway,
		store:       store,
		publisher:   publisher,
		logger:      logger,
		metrics:     metrics,
		sendTimeout: sendTimeout,
	}
}

// Dispatch persists the alert, notifies every active citizen on their opted-in
// channels, and records a history entry when the region text resolves.
//
// The AlertRecord and AlertHistoryEntry are committed as one atomic unit; any
// persistence failure rolls back both. Notification sends are best-effort and
// not transactional: sends that already happened are never undone by a
// rollback, and a channel failure never aborts the dispatch. Success is
// defined purely by "alert persisted", independent of how many recipients
// were reached.
func (d *Dispatcher) Dispatch(ctx context.Context, issuer domain.Identity, in domain.AlertInput) (domain.Alert, error) {
	if err := authorize(issuer); err != nil {
		d.metrics.DispatchFailures.Inc()
		return domain.Alert{}, err
	}
	if err := in.Validate(); err != nil {
		d.metrics.DispatchFailures.Inc()
		return domain.Alert{}, err
	}

	start := time.Now()

	region, err := d.regions.FindByName(ctx, in.Region)
	if err != nil {
		d.metrics.DispatchFailures.Inc()
		return domain.Alert{}, fmt.Errorf("resolve region: %w", err)
	}

	tx, err := d.store.Begin(ctx)
	if err != nil {
		d.metrics.DispatchFailures.Inc()
		return domain.Alert{}, fmt.Errorf("begin dispatch: %w", err)
	}

	alert, err := tx.InsertAlert(ctx, domain.Alert{
		Region:    in.Region,
		Message:   in.Message,
		RiskLevel: in.RiskLevel,
		CreatedBy: issuer.Actor(),
	})
	if err != nil {
		return domain.Alert{}, d.fail(ctx, tx, fmt.Errorf("persist alert: %w", err))
	}

	recipients, err := d.recipients.ListActiveCitizens(ctx)
	if err != nil {
		return domain.Alert{}, d.fail(ctx, tx, fmt.Errorf("load recipients: %w", err))
	}

	results := d.fanOut(ctx, alert.ID, recipients, in.Body())
	sentTo := domain.CountReached(results)

	if region != nil {
		entry := domain.AlertHistoryEntry{
			RegionID:    region.ID,
			Message:     in.Message,
			RiskLevel:   in.RiskLevel,
			SentToCount: sentTo,
			CreatedBy:   issuer.Actor(),
		}
		if err := tx.InsertHistory(ctx, entry); err != nil {
			return domain.Alert{}, d.fail(ctx, tx, fmt.Errorf("persist alert history: %w", err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Alert{}, d.fail(ctx, tx, fmt.Errorf("commit dispatch: %w", err))
	}

	d.metrics.AlertsDispatched.Inc()
	d.metrics.RecipientsReached.Observe(float64(sentTo))
	d.metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	d.logger.Info("alert dispatched",
		"alert_id", alert.ID,
		"region", in.Region,
		"risk_level", in.RiskLevel,
		"recipients", len(recipients),
		"sent_to", sentTo,
	)

	d.publish(ctx, alert, region, sentTo)

	return alert, nil
}

// authorize admits only authorities. The switch is exhaustive over the
// closed identity set.
func authorize(issuer domain.Identity) error {
	switch issuer.(type) {
	case domain.Authority:
		return nil
	case domain.Citizen, domain.Admin, nil:
		return fmt.Errorf("%w: only authorities can create alerts", domain.ErrUnauthorized)
	default:
		return fmt.Errorf("%w: unknown issuer", domain.ErrUnauthorized)
	}
}

// fanOut attempts delivery to each recipient concurrently. Channel attempts
// for one recipient run in order; recipients are independent. Every attempt
// produces a DeliveryResult; failures are logged and collected, never
// propagated.
func (d *Dispatcher) fanOut(ctx context.Context, alertID int64, recipients []domain.Recipient, body string) []domain.DeliveryResult {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]domain.DeliveryResult, 0, len(recipients))
	)

	for _, r := range recipients {
		wg.Add(1)
		go func(r domain.Recipient) {
			defer wg.Done()
			for _, ch := range r.Channels() {
				res := d.send(ctx, alertID, ch, r, body)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
		}(r)
	}

	wg.Wait()
	return results
}

// send performs one bounded channel attempt. A gateway timeout counts as a
// channel failure like any other.
func (d *Dispatcher) send(ctx context.Context, alertID int64, ch domain.Channel, r domain.Recipient, body string) domain.DeliveryResult {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	err := d.gateway.Send(sendCtx, ch, r.Phone, body)
	if err != nil {
		d.logger.Warn("notification delivery failed",
			"alert_id", alertID,
			"recipient_id", r.ID,
			"channel", ch,
			"error", err,
		)
		d.metrics.Notifications.WithLabelValues(string(ch), "error").Inc()
	} else {
		d.metrics.Notifications.WithLabelValues(string(ch), "success").Inc()
	}

	return domain.DeliveryResult{RecipientID: r.ID, Channel: ch, Err: err}
}

// fail rolls the transaction back and returns the dispatch error.
func (d *Dispatcher) fail(ctx context.Context, tx AlertTx, err error) error {
	if rbErr := tx.Rollback(ctx); rbErr != nil {
		d.logger.Error("dispatch rollback failed", "error", rbErr)
	}
	d.metrics.DispatchFailures.Inc()
	return err
}

// publish emits the audit event. Best-effort: errors are logged only.
func (d *Dispatcher) publish(ctx context.Context, alert domain.Alert, region *domain.Region, sentTo int) {
	if d.publisher == nil {
		return
	}

	event := domain.AlertDispatchedEvent{
		AlertID:      alert.ID,
		Region:       alert.Region,
		RiskLevel:    alert.RiskLevel,
		SentToCount:  sentTo,
		DispatchedAt: alert.CreatedAt,
	}
	if region != nil {
		event.RegionID = &region.ID
	}

	if err := d.publisher.PublishDispatched(ctx, event); err != nil {
		d.logger.Warn("publish dispatch event failed", "alert_id", alert.ID, "error", err)
	}
}
