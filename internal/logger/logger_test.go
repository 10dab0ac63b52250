package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trading_bot.log")

	l, err := New(Config{Level: "debug", OutputFile: path})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.Component("orders").WithField("pair", "ETH/USDT").Warn("retrying with reduced precision")
	l.WriteSessionHeader(Banner{
		Environment:   "testnet",
		Pairs:         15,
		TradeAmount:   100,
		RiskFactor:    0.01,
		SleepInterval: 300 * time.Second,
		TradesPerDay:  500,
	})
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "retrying with reduced precision")
	assert.Contains(t, string(content), "component=orders")
	assert.Contains(t, string(content), "environment=testnet")
	assert.Contains(t, string(content), "risk_factor=0.01")
	assert.Contains(t, string(content), "sleep_interval=5m0s")
	assert.Contains(t, string(content), "trades_per_day=500")
	assert.Contains(t, string(content), "session ended")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "loud"})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.NoError(t, l.Close())
}
