package alerting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"quyca-monitor/internal/risk"
	"quyca-monitor/internal/storage"
)

// Notification 封装告警上下文。
type Notification struct {
	At          time.Time
	Temperature float64
	Previous    risk.Tier
	Tier        risk.Tier
	Table       string
	Action      string
	// Source is "monitor" for tier escalations and "verification" for
	// operator photo checks.
	Source string
}

// Notifier 定义告警输送接口。
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier 构造日志告警器。
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "alert_log").Logger()}
}

// Notify logs at warn for Riesgo and error for Crítico.
func (n *LogNotifier) Notify(_ context.Context, note Notification) error {
	ev := n.logger.Info()
	switch note.Tier {
	case risk.Riesgo:
		ev = n.logger.Warn()
	case risk.Critico:
		ev = n.logger.Error()
	}
	ev.Time("at", note.At).
		Float64("temperature", note.Temperature).
		Str("previous", note.Previous.String()).
		Str("tier", note.Tier.String()).
		Str("source", note.Source).
		Msg(RenderMessage(note))
	return nil
}

// AlertWriter is the subset of the store the recorder needs.
type AlertWriter interface {
	InsertAlert(ctx context.Context, alert storage.AlertRecord) (storage.AlertRecord, error)
}

// StoreNotifier appends notifications to the alert history.
type StoreNotifier struct {
	store AlertWriter
}

// NewStoreNotifier wraps an alert store.
func NewStoreNotifier(store AlertWriter) *StoreNotifier {
	return &StoreNotifier{store: store}
}

// Notify records the notification.
func (n *StoreNotifier) Notify(ctx context.Context, note Notification) error {
	action := note.Action
	if action == "" {
		action = DefaultAction(note.Tier)
	}
	if _, err := n.store.InsertAlert(ctx, storage.AlertRecord{
		At:          note.At,
		Temperature: note.Temperature,
		Tier:        note.Tier,
		Action:      action,
		Source:      note.Source,
	}); err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	return nil
}

// Fanout delivers to every notifier and joins their errors.
type Fanout []Notifier

// Notify calls each notifier even if an earlier one fails.
func (f Fanout) Notify(ctx context.Context, note Notification) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DefaultAction is the history text used when no operator action is known.
func DefaultAction(tier risk.Tier) string {
	switch tier {
	case risk.Critico:
		return "Alerta crítica - verificación requerida"
	case risk.Riesgo:
		return "Monitoreo continuo activado"
	default:
		return "Sistema funcionando correctamente"
	}
}

// RenderMessage formats a one-line alert summary.
func RenderMessage(note Notification) string {
	b := strings.Builder{}
	b.WriteString("[QUYCA] ")
	if note.Source == SourceVerification {
		b.WriteString("Verificación: ")
	} else {
		b.WriteString(fmt.Sprintf("%s -> %s: ", note.Previous, note.Tier))
	}
	b.WriteString(fmt.Sprintf("%.1f°C", note.Temperature))
	if note.Table != "" {
		b.WriteString(fmt.Sprintf(" (tabla %s)", note.Table))
	}
	if note.Action != "" {
		b.WriteString(" - ")
		b.WriteString(note.Action)
	}
	return b.String()
}

// Notification sources.
const (
	SourceMonitor      = "monitor"
	SourceVerification = "verification"
	SourceFixture      = "fixture"
)

var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*StoreNotifier)(nil)
	_ Notifier = Fanout(nil)
)
