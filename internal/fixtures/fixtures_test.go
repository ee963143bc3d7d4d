package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quyca-monitor/internal/risk"
)

func TestLoadEmbedded(t *testing.T) {
	b, err := Load(time.UTC)
	require.NoError(t, err)

	require.Len(t, b.Alerts, 5)
	first := b.Alerts[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, 47.2, first.Temperature)
	assert.Equal(t, risk.Critico, first.Tier)
	assert.Equal(t, time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC), first.At)
	assert.Equal(t, risk.Normal, b.Alerts[4].Tier)

	require.Len(t, b.Contacts, 3)
	assert.Equal(t, "119", b.Contacts[0].Number)
	assert.Equal(t, "+57-1-234-5678", b.Contacts[2].Number)

	require.Len(t, b.Manual, 3)
	assert.Equal(t, "En caso de incendio", b.Manual[0].Title)
	assert.Equal(t, "No use ascensores, use las escaleras", b.Manual[0].Items[3].String())
	assert.Equal(t, "Llame inmediatamente a los bomberos (119)", b.Manual[0].Items[1].String())
}

func TestParseRejectsBadTier(t *testing.T) {
	_, err := Parse([]byte(`
alerts:
  - id: 9
    datetime: "2024-01-15 14:30"
    temperature: 10
    risk_level: Extremo
`), time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alert 9")
}

func TestParseRejectsBadDatetime(t *testing.T) {
	_, err := Parse([]byte(`
alerts:
  - id: 2
    datetime: "15/01/2024"
    risk_level: Normal
`), time.UTC)
	require.Error(t, err)
}

func TestParseRejectsIncompleteContact(t *testing.T) {
	_, err := Parse([]byte(`
contacts:
  - name: Bomberos
`), nil)
	require.Error(t, err)
}
