package precision

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange/exchangetest"
	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

func TestFromStep(t *testing.T) {
	tests := []struct {
		step     string
		expected int
		wantErr  bool
	}{
		{"0.0001", 4, false},
		{"0.00001", 5, false},
		{"0.1", 1, false},
		{"1", 0, false},
		{"10", 0, false},
		{"0.010", 3, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			got, err := FromStep(tt.step)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	gw := exchangetest.New()
	gw.Instruments = []exchange.Instrument{
		{Symbol: "BTCUSDT", BasePrecision: "0.000001"},
		{Symbol: "ETHUSDT", BasePrecision: "0.00001"},
	}
	logger, hook := test.NewNullLogger()
	r := NewResolver(gw, logger)

	assert.Equal(t, 5, r.Resolve(context.Background(), types.MustParsePair("ETH/USDT")))
	assert.Empty(t, hook.AllEntries())
}

func TestResolver_FallsBackToDefault(t *testing.T) {
	tests := []struct {
		name        string
		instruments []exchange.Instrument
		err         error
	}{
		{"gateway error", nil, errors.New("venue down")},
		{"empty list", nil, nil},
		{"no matching symbol", []exchange.Instrument{{Symbol: "BTCUSDT", BasePrecision: "0.01"}}, nil},
		{"unparsable precision", []exchange.Instrument{{Symbol: "ETHUSDT", BasePrecision: "n/a"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := exchangetest.New()
			gw.Instruments = tt.instruments
			gw.InstrErr = tt.err
			logger, hook := test.NewNullLogger()

			got := NewResolver(gw, logger).Resolve(context.Background(), types.MustParsePair("ETH/USDT"))

			assert.Equal(t, DefaultPrecision, got)
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		})
	}
}
