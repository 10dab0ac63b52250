// Package dashboard serves the read and trade endpoints of the bot over HTTP.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/orders"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/safety"
	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/reporting"
	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

// MarketData builds the per-pair snapshots
type MarketData interface {
	BuildAll(ctx context.Context, pairs []types.TradingPair, window int) map[string]types.MarketSnapshot
}

// AccountView exposes the aggregator's published history and the quote balance
type AccountView interface {
	TradeHistory() []types.TradeRecord
	AccountBalance(ctx context.Context) (float64, bool)
}

// OrderExecutor places orders and reports the tradable base balance
type OrderExecutor interface {
	Execute(ctx context.Context, req orders.OrderRequest) (orders.OrderResult, error)
	AvailableBalance(ctx context.Context, pair types.TradingPair) decimal.Decimal
}

type Config struct {
	Addr          string
	Pairs         []types.TradingPair
	Strategies    map[string]string
	HistoryWindow int
	OrderCategory string
	MaxAttempts   int
}

// Deps are the components behind the endpoints. Health and Metrics are optional.
type Deps struct {
	Market   MarketData
	Account  AccountView
	Executor OrderExecutor
	Health   http.Handler
	Metrics  http.Handler
}

type Server struct {
	cfg          Config
	deps         Deps
	exportTrades func(w io.Writer, records []types.TradeRecord) error
	validator    *safety.Validator
	log          logrus.FieldLogger
}

func New(cfg Config, deps Deps, log logrus.FieldLogger) (*Server, error) {
	if deps.Market == nil || deps.Account == nil || deps.Executor == nil {
		return nil, errors.New("market, account and executor are required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":5000"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		cfg:          cfg,
		deps:         deps,
		exportTrades: reporting.NewExcelReporter().WriteTrades,
		validator:    safety.NewValidator(),
		log:          log.WithField("component", "dashboard"),
	}, nil
}

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/market-data", s.handleMarketData)
	r.GET("/trade-history", s.handleTradeHistory)
	r.GET("/trade-history/export", s.handleTradeHistoryExport)
	r.GET("/account-balance", s.handleAccountBalance)
	r.GET("/trading-pairs", s.handleTradingPairs)
	r.POST("/trade", s.handleTrade)

	if s.deps.Health != nil {
		r.GET("/health", gin.WrapH(s.deps.Health))
	}
	if s.deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.deps.Metrics))
	}

	return r
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}

	httpSrv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("🌐 Dashboard listening on %s", ln.Addr())
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard shutdown: %w", err)
	}
	s.log.Info("Dashboard stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	}
}
