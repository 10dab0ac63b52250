package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/ducminhle1904/bybit-spot-dashboard/internal/errors"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

// DefaultStrategyMap holds the low-capital pairs traded with $20-$100 orders
var DefaultStrategyMap = map[string]string{
	"ADA/USDT":   "scalping",
	"APT/USDT":   "scalping",
	"ARB/USDT":   "scalping",
	"AVAX/USDT":  "scalping",
	"ETH/USDT":   "scalping",
	"IP/USDT":    "scalping",
	"LINK/USDT":  "scalping",
	"LTC/USDT":   "scalping",
	"MATIC/USDT": "scalping",
	"PEPE/USDT":  "scalping",
	"RUNE/USDT":  "scalping",
	"SOL/USDT":   "scalping",
	"TRX/USDT":   "scalping",
	"UNI/USDT":   "scalping",
	"XRP/USDT":   "scalping",
}

type Config struct {
	Exchange exchange.ExchangeConfig

	Trading struct {
		SleepInterval  time.Duration
		TradesPerDay   int
		QuoteCurrency  string
		TradeAmount    float64
		MinTradeAmount float64
		MaxTradeAmount float64
	}

	Risk struct {
		StopLossPercent   float64
		TakeProfitPercent float64
		TrailingStop      bool
		MaxDailyLoss      float64
		RiskFactor        float64
	}

	Market struct {
		Category      string
		HistoryWindow int
	}

	Orders struct {
		Category    string
		MaxAttempts int
	}

	History struct {
		PollInterval time.Duration
	}

	Dashboard struct {
		Addr           string
		MetricsEnabled bool
	}

	Log struct {
		Level string
		File  string
	}

	// Pairs in the order the dashboard lists them
	Pairs []types.TradingPair
	// Strategies maps "BASE/QUOTE" to its strategy label
	Strategies map[string]string
}

// pairsFile is the PAIRS_FILE layout
type pairsFile struct {
	Pairs map[string]string `yaml:"pairs"`
}

// Load reads envFile (when present) into the environment and builds the configuration from it
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	r := &envReader{}
	cfg := &Config{}

	cfg.Exchange = exchange.ExchangeConfig{
		Name: r.str("EXCHANGE_NAME", "bybit"),
		Bybit: &exchange.BybitConfig{
			APIKey:    r.firstOf("BYBIT_API_KEY", "API_KEY"),
			APISecret: r.firstOf("BYBIT_API_SECRET", "API_SECRET"),
			Testnet:   r.boolean("TESTNET", true),
			Demo:      r.boolean("DEMO", false),
		},
		RateLimitPerSecond: r.integer("RATE_LIMIT_PER_SECOND", 10),
	}

	cfg.Trading.SleepInterval = time.Duration(r.integer("SLEEP_INTERVAL", 300)) * time.Second
	cfg.Trading.TradesPerDay = r.integer("TRADES_PER_DAY", 500)
	cfg.Trading.QuoteCurrency = strings.ToUpper(r.str("QUOTE_CURRENCY", "USDT"))
	cfg.Trading.TradeAmount = r.float("TRADE_AMOUNT", 100)
	cfg.Trading.MinTradeAmount = r.float("MIN_TRADE_AMOUNT", 20)
	cfg.Trading.MaxTradeAmount = r.float("MAX_TRADE_AMOUNT", 1000)

	cfg.Risk.StopLossPercent = r.float("STOP_LOSS_PERCENT", 1.01)
	cfg.Risk.TakeProfitPercent = r.float("TAKE_PROFIT_PERCENT", 1.10)
	cfg.Risk.TrailingStop = r.boolean("TRAILING_STOP", true)
	cfg.Risk.MaxDailyLoss = r.float("MAX_DAILY_LOSS", 0.10)
	cfg.Risk.RiskFactor = r.float("RISK_FACTOR", 0.01)

	cfg.Market.Category = r.str("MARKET_CATEGORY", exchange.CategoryLinear)
	cfg.Market.HistoryWindow = r.integer("HISTORY_WINDOW", 5)

	cfg.Orders.Category = r.str("ORDER_CATEGORY", exchange.CategorySpot)
	cfg.Orders.MaxAttempts = r.integer("ORDER_MAX_ATTEMPTS", 5)

	cfg.History.PollInterval = r.duration("HISTORY_POLL_INTERVAL", 10*time.Second)

	cfg.Dashboard.Addr = r.str("DASHBOARD_ADDR", ":5000")
	cfg.Dashboard.MetricsEnabled = r.boolean("METRICS_ENABLED", true)

	cfg.Log.Level = r.str("LOG_LEVEL", "info")
	cfg.Log.File = r.str("LOG_FILE", "logs/trading_bot.log")

	if err := r.err(); err != nil {
		return nil, err
	}

	strategies := DefaultStrategyMap
	if path := os.Getenv("PAIRS_FILE"); path != "" {
		loaded, err := loadPairsFile(path)
		if err != nil {
			return nil, err
		}
		strategies = loaded
	}
	if err := cfg.setPairs(strategies); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigurationError("config", "Load", err)
	}
	return cfg, nil
}

func loadPairsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pairs file: %w", err)
	}
	var f pairsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse pairs file %s: %w", path, err)
	}
	return f.Pairs, nil
}

// setPairs parses the strategy map keys into pairs, sorted for a stable listing
func (c *Config) setPairs(strategies map[string]string) error {
	c.Pairs = make([]types.TradingPair, 0, len(strategies))
	c.Strategies = make(map[string]string, len(strategies))
	for raw, strategy := range strategies {
		pair, err := types.ParsePair(raw)
		if err != nil {
			return err
		}
		c.Pairs = append(c.Pairs, pair)
		c.Strategies[pair.String()] = strategy
	}
	sort.Slice(c.Pairs, func(i, j int) bool { return c.Pairs[i].String() < c.Pairs[j].String() })
	return nil
}

// Validate rejects inconsistent settings
func (c *Config) Validate() error {
	if err := exchange.ValidateConfig(c.Exchange); err != nil {
		return err
	}
	if len(c.Pairs) == 0 {
		return errors.New("at least one trading pair is required")
	}
	if c.Trading.MinTradeAmount <= 0 {
		return errors.New("MIN_TRADE_AMOUNT must be positive")
	}
	if c.Trading.MinTradeAmount > c.Trading.MaxTradeAmount {
		return fmt.Errorf("MIN_TRADE_AMOUNT (%.2f) exceeds MAX_TRADE_AMOUNT (%.2f)",
			c.Trading.MinTradeAmount, c.Trading.MaxTradeAmount)
	}
	if c.Trading.TradeAmount < c.Trading.MinTradeAmount || c.Trading.TradeAmount > c.Trading.MaxTradeAmount {
		return fmt.Errorf("TRADE_AMOUNT (%.2f) must be within [%.2f, %.2f]",
			c.Trading.TradeAmount, c.Trading.MinTradeAmount, c.Trading.MaxTradeAmount)
	}
	if c.Risk.MaxDailyLoss < 0 || c.Risk.MaxDailyLoss > 1 {
		return errors.New("MAX_DAILY_LOSS must be a fraction between 0 and 1")
	}
	if c.History.PollInterval <= 0 {
		return errors.New("HISTORY_POLL_INTERVAL must be positive")
	}
	if c.Market.HistoryWindow < 0 {
		return errors.New("HISTORY_WINDOW cannot be negative")
	}
	if c.Orders.MaxAttempts < 1 {
		return errors.New("ORDER_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// Environment describes the venue environment for logs
func (c *Config) Environment() string {
	switch {
	case c.Exchange.Bybit != nil && c.Exchange.Bybit.Demo:
		return "demo"
	case c.Exchange.Bybit != nil && c.Exchange.Bybit.Testnet:
		return "testnet"
	default:
		return "mainnet"
	}
}

// envReader reads typed environment values and remembers the first malformed one
type envReader struct {
	errs []error
}

func (r *envReader) str(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func (r *envReader) firstOf(keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return ""
}

func (r *envReader) boolean(key string, defaultVal bool) bool {
	val := r.str(key, "")
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(strings.ToLower(val))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid boolean %q", key, val))
		return defaultVal
	}
	return b
}

func (r *envReader) integer(key string, defaultVal int) int {
	val := r.str(key, "")
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid integer %q", key, val))
		return defaultVal
	}
	return i
}

func (r *envReader) float(key string, defaultVal float64) float64 {
	val := r.str(key, "")
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid number %q", key, val))
		return defaultVal
	}
	return f
}

// duration accepts Go durations ("15s") or plain seconds ("15")
func (r *envReader) duration(key string, defaultVal time.Duration) time.Duration {
	val := r.str(key, "")
	if val == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: invalid duration %q", key, val))
		return defaultVal
	}
	return d
}

func (r *envReader) err() error {
	return errors.Join(r.errs...)
}
