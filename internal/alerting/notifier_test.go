package alerting

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"quyca-monitor/internal/risk"
	"quyca-monitor/internal/storage"
)

var noteAt = time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

func TestLogNotifierLevels(t *testing.T) {
	var buf bytes.Buffer
	notifier := NewLogNotifier(zerolog.New(&buf))

	note := Notification{At: noteAt, Temperature: 47.2, Previous: risk.Riesgo, Tier: risk.Critico, Source: SourceMonitor}
	if err := notifier.Notify(context.Background(), note); err != nil {
		t.Fatalf("Notify 应成功: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"level":"error"`) {
		t.Fatalf("Crítico 应记录为 error: %s", out)
	}
	if !strings.Contains(out, `"tier":"Crítico"`) || !strings.Contains(out, `"component":"alert_log"`) {
		t.Fatalf("日志字段不正确: %s", out)
	}
}

func TestStoreNotifierRecords(t *testing.T) {
	store := storage.NewMemoryStore(10)
	notifier := NewStoreNotifier(store)

	note := Notification{At: noteAt, Temperature: 38.5, Previous: risk.Normal, Tier: risk.Riesgo, Source: SourceMonitor}
	if err := notifier.Notify(context.Background(), note); err != nil {
		t.Fatalf("Notify 应成功: %v", err)
	}

	alerts, err := store.ListRecentAlerts(context.Background(), 0)
	if err != nil {
		t.Fatalf("读取告警失败: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("应记录 1 条告警, 实际 %d", len(alerts))
	}
	got := alerts[0]
	if got.Tier != risk.Riesgo || got.Temperature != 38.5 || got.Source != SourceMonitor {
		t.Fatalf("告警内容不正确: %#v", got)
	}
	if got.Action != "Monitoreo continuo activado" {
		t.Fatalf("默认 action 不正确: %q", got.Action)
	}
}

type failingNotifier struct{ calls int }

func (f *failingNotifier) Notify(context.Context, Notification) error {
	f.calls++
	return errors.New("down")
}

func TestFanoutContinuesAfterError(t *testing.T) {
	first := &failingNotifier{}
	second := &failingNotifier{}
	fan := Fanout{first, nil, second}

	err := fan.Notify(context.Background(), Notification{})
	if err == nil {
		t.Fatal("应返回合并错误")
	}
	if first.calls != 1 || second.calls != 1 {
		t.Fatalf("每个通知器都应被调用: %d %d", first.calls, second.calls)
	}
}

func TestRenderMessage(t *testing.T) {
	msg := RenderMessage(Notification{Temperature: 45, Previous: risk.Riesgo, Tier: risk.Critico, Table: "reading"})
	if msg != "[QUYCA] Riesgo -> Crítico: 45.0°C (tabla reading)" {
		t.Fatalf("消息格式不正确: %q", msg)
	}

	msg = RenderMessage(Notification{Temperature: 31.2, Tier: risk.Normal, Source: SourceVerification, Action: "Sin incendio detectado"})
	if msg != "[QUYCA] Verificación: 31.2°C - Sin incendio detectado" {
		t.Fatalf("验证消息格式不正确: %q", msg)
	}
}
