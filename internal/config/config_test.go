package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ducminhle1904/bybit-spot-dashboard/internal/errors"
)

// isolateEnv clears every variable Load reads so host settings cannot leak into tests
func isolateEnv(t *testing.T) {
	for _, key := range []string{
		"EXCHANGE_NAME", "BYBIT_API_KEY", "API_KEY", "BYBIT_API_SECRET", "API_SECRET", "TESTNET", "DEMO",
		"RATE_LIMIT_PER_SECOND", "SLEEP_INTERVAL", "TRADES_PER_DAY", "QUOTE_CURRENCY", "TRADE_AMOUNT",
		"MIN_TRADE_AMOUNT", "MAX_TRADE_AMOUNT", "STOP_LOSS_PERCENT", "TAKE_PROFIT_PERCENT", "TRAILING_STOP",
		"MAX_DAILY_LOSS", "RISK_FACTOR", "MARKET_CATEGORY", "HISTORY_WINDOW", "ORDER_CATEGORY",
		"ORDER_MAX_ATTEMPTS", "HISTORY_POLL_INTERVAL", "DASHBOARD_ADDR", "METRICS_ENABLED", "LOG_LEVEL",
		"LOG_FILE", "PAIRS_FILE",
	} {
		t.Setenv(key, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "bybit", cfg.Exchange.Name)
	assert.True(t, cfg.Exchange.Bybit.Testnet)
	assert.False(t, cfg.Exchange.Bybit.Demo)
	assert.Equal(t, 10, cfg.Exchange.RateLimitPerSecond)
	assert.Equal(t, 300*time.Second, cfg.Trading.SleepInterval)
	assert.Equal(t, 500, cfg.Trading.TradesPerDay)
	assert.Equal(t, "USDT", cfg.Trading.QuoteCurrency)
	assert.Equal(t, 100.0, cfg.Trading.TradeAmount)
	assert.Equal(t, 1.01, cfg.Risk.StopLossPercent)
	assert.Equal(t, 1.10, cfg.Risk.TakeProfitPercent)
	assert.True(t, cfg.Risk.TrailingStop)
	assert.Equal(t, 0.10, cfg.Risk.MaxDailyLoss)
	assert.Equal(t, "linear", cfg.Market.Category)
	assert.Equal(t, 5, cfg.Market.HistoryWindow)
	assert.Equal(t, "spot", cfg.Orders.Category)
	assert.Equal(t, 5, cfg.Orders.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.History.PollInterval)
	assert.Equal(t, ":5000", cfg.Dashboard.Addr)
	assert.Equal(t, "logs/trading_bot.log", cfg.Log.File)
	assert.Equal(t, "testnet", cfg.Environment())

	require.Len(t, cfg.Pairs, len(DefaultStrategyMap))
	assert.Equal(t, "ADA/USDT", cfg.Pairs[0].String())
	assert.Equal(t, "XRP/USDT", cfg.Pairs[len(cfg.Pairs)-1].String())
	assert.Equal(t, "scalping", cfg.Strategies["ETH/USDT"])
}

func TestLoad_EnvFileAndAliases(t *testing.T) {
	isolateEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"API_KEY=legacy-key\nAPI_SECRET=legacy-secret\nTESTNET=False\nHISTORY_POLL_INTERVAL=15s\nTRADE_AMOUNT=50\n",
	), 0644))
	// godotenv does not override variables that are already set, so unset the blanks first
	for _, key := range []string{"API_KEY", "API_SECRET", "TESTNET", "HISTORY_POLL_INTERVAL", "TRADE_AMOUNT"} {
		require.NoError(t, os.Unsetenv(key))
	}
	t.Cleanup(func() {
		for _, key := range []string{"API_KEY", "API_SECRET", "TESTNET", "HISTORY_POLL_INTERVAL", "TRADE_AMOUNT"} {
			os.Unsetenv(key)
		}
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.Exchange.Bybit.APIKey)
	assert.Equal(t, "legacy-secret", cfg.Exchange.Bybit.APISecret)
	assert.False(t, cfg.Exchange.Bybit.Testnet)
	assert.Equal(t, "mainnet", cfg.Environment())
	assert.Equal(t, 15*time.Second, cfg.History.PollInterval)
	assert.Equal(t, 50.0, cfg.Trading.TradeAmount)
}

func TestLoad_PairsFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "pairs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pairs:\n  sol/usdt: momentum_trading\n  BTC/USDT: swing_trading\n"), 0644))
	t.Setenv("PAIRS_FILE", path)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	require.Len(t, cfg.Pairs, 2)
	assert.Equal(t, "BTC/USDT", cfg.Pairs[0].String())
	assert.Equal(t, "SOL/USDT", cfg.Pairs[1].String())
	assert.Equal(t, "momentum_trading", cfg.Strategies["SOL/USDT"])
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"malformed number", map[string]string{"TRADE_AMOUNT": "lots"}},
		{"malformed bool", map[string]string{"TESTNET": "maybe"}},
		{"min above max", map[string]string{"MIN_TRADE_AMOUNT": "500", "MAX_TRADE_AMOUNT": "100"}},
		{"amount out of bounds", map[string]string{"TRADE_AMOUNT": "5"}},
		{"testnet and demo", map[string]string{"TESTNET": "true", "DEMO": "true"}},
		{"key without secret", map[string]string{"BYBIT_API_KEY": "k"}},
		{"bad poll interval", map[string]string{"HISTORY_POLL_INTERVAL": "0"}},
		{"zero max attempts", map[string]string{"ORDER_MAX_ATTEMPTS": "0"}},
		{"negative max attempts", map[string]string{"ORDER_MAX_ATTEMPTS": "-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MaxAttemptsMustBePositive(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ORDER_MAX_ATTEMPTS", "0")

	_, err := Load(missingEnvFile(t))

	require.Error(t, err)
	assert.True(t, apperrors.IsCategory(err, apperrors.ErrorCategoryConfiguration))
	assert.Contains(t, err.Error(), "ORDER_MAX_ATTEMPTS must be at least 1")

	t.Setenv("ORDER_MAX_ATTEMPTS", "1")
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Orders.MaxAttempts)
}

func TestLoad_MalformedPairsFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "pairs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pairs:\n  BTCUSDT: scalping\n"), 0644))
	t.Setenv("PAIRS_FILE", path)

	_, err := Load(missingEnvFile(t))
	assert.Error(t, err)

	t.Setenv("PAIRS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load(missingEnvFile(t))
	assert.Error(t, err)
}
