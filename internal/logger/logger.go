package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how much the bot logs
type Config struct {
	Level      string // debug, info, warn, error
	OutputFile string // empty ⇒ stdout only
	MaxSize    int    // megabytes before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Logger is the process-wide logrus logger plus its rotating file sink
type Logger struct {
	*logrus.Logger
	file *lumberjack.Logger
	mu   sync.Mutex
}

// New builds a logger writing to stdout and, when OutputFile is set, to a rotated file
func New(config Config) (*Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	l := &Logger{Logger: log}
	writers := []io.Writer{os.Stdout}

	if config.OutputFile != "" {
		if dir := filepath.Dir(config.OutputFile); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		l.file = &lumberjack.Logger{
			Filename:   config.OutputFile,
			MaxSize:    orDefault(config.MaxSize, 100),
			MaxBackups: orDefault(config.MaxBackups, 3),
			MaxAge:     orDefault(config.MaxAge, 28),
			Compress:   config.Compress,
		}
		writers = append(writers, l.file)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return l, nil
}

// Component returns a logger tagged with the component name
func (l *Logger) Component(name string) logrus.FieldLogger {
	return l.WithField("component", name)
}

// Banner is the startup summary written once per session
type Banner struct {
	Environment       string
	Pairs             int
	TradeAmount       float64
	StopLossPercent   float64
	TakeProfitPercent float64
	TrailingStop      bool
	MaxDailyLoss      float64
	RiskFactor        float64
	SleepInterval     time.Duration
	TradesPerDay      int
	DashboardAddr     string
}

// WriteSessionHeader logs the startup banner
func (l *Logger) WriteSessionHeader(b Banner) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rule := strings.Repeat("=", 64)
	l.Info(rule)
	l.WithFields(logrus.Fields{
		"environment": b.Environment,
		"pairs":       b.Pairs,
		"started":     time.Now().Format("2006-01-02 15:04:05"),
	}).Info("🚀 Trading bot session started")
	l.WithFields(logrus.Fields{
		"trade_amount":   b.TradeAmount,
		"stop_loss":      b.StopLossPercent,
		"take_profit":    b.TakeProfitPercent,
		"trailing_stop":  b.TrailingStop,
		"max_daily_loss": b.MaxDailyLoss,
		"risk_factor":    b.RiskFactor,
	}).Info("Risk settings")
	l.WithFields(logrus.Fields{
		"sleep_interval": b.SleepInterval,
		"trades_per_day": b.TradesPerDay,
	}).Info("Trading cadence")
	if b.DashboardAddr != "" {
		l.WithField("addr", b.DashboardAddr).Info("Dashboard listening")
	}
	l.Info(rule)
}

// Close writes the session footer and closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.Info("🛑 Trading bot session ended")
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
