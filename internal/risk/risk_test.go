package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyReadingBoundaries(t *testing.T) {
	tests := []struct {
		temp float64
		want Tier
	}{
		{-10, Normal},
		{34.9, Normal},
		{35.0, Riesgo},
		{44.9, Riesgo},
		{45.0, Critico},
		{120, Critico},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.temp), "Classify(%.1f)", tt.temp)
	}
}

func TestClassifyChartBoundaries(t *testing.T) {
	assert.Equal(t, Normal, ChartTable.Classify(44.9))
	assert.Equal(t, Riesgo, ChartTable.Classify(45))
	assert.Equal(t, Riesgo, ChartTable.Classify(99.9))
	assert.Equal(t, Critico, ChartTable.Classify(100))
}

func TestClassifyIsPure(t *testing.T) {
	for _, v := range []float64{12.3, 35, 44.99, 45, 80} {
		assert.Equal(t, Classify(v), Classify(v))
	}
}

func TestTierOrderingAndLabels(t *testing.T) {
	assert.Less(t, int(Normal), int(Riesgo))
	assert.Less(t, int(Riesgo), int(Critico))
	assert.Equal(t, "Crítico", Critico.String())

	for _, tier := range []Tier{Normal, Riesgo, Critico} {
		b, err := tier.MarshalText()
		require.NoError(t, err)
		var back Tier
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, tier, back)
	}

	_, err := ParseTier("Extremo")
	assert.Error(t, err)
}

func TestTableValidate(t *testing.T) {
	require.NoError(t, ReadingTable.Validate())
	require.NoError(t, ChartTable.Validate())
	assert.Error(t, Table{Name: "bad", Risk: 50, Critical: 50}.Validate())
}
