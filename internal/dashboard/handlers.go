package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ducminhle1904/bybit-spot-dashboard/internal/errors"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/orders"
	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleMarketData(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Market.BuildAll(c.Request.Context(), s.cfg.Pairs, s.cfg.HistoryWindow))
}

func (s *Server) handleTradeHistory(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Account.TradeHistory())
}

// handleTradeHistoryExport encodes the whole workbook before answering
func (s *Server) handleTradeHistoryExport(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.exportTrades(&buf, s.deps.Account.TradeHistory()); err != nil {
		s.log.WithError(err).Error("Error exporting trade history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error exporting trade history: %v", err)})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="trade_history.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// handleAccountBalance answers null when the balance cannot be read
func (s *Server) handleAccountBalance(c *gin.Context) {
	balance, ok := s.deps.Account.AccountBalance(c.Request.Context())
	if !ok {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (s *Server) handleTradingPairs(c *gin.Context) {
	pairs := make(map[string]string, len(s.cfg.Pairs))
	for _, p := range s.cfg.Pairs {
		pairs[p.String()] = s.cfg.Strategies[p.String()]
	}
	c.JSON(http.StatusOK, pairs)
}

// handleTrade sizes the order with the available base balance for both sides
func (s *Server) handleTrade(c *gin.Context) {
	action := c.Query("action")
	pairParam := c.Query("pair")
	if action == "" || pairParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing parameters"})
		return
	}

	side, ok := exchange.ParseOrderSide(action)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid action %q: expected Buy or Sell", action)})
		return
	}
	pair, err := types.ParsePair(pairParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if res := s.validator.ValidateSymbol(pair.Symbol()); !res.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Message})
		return
	}

	ctx := c.Request.Context()
	amount := s.deps.Executor.AvailableBalance(ctx, pair)
	if !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing parameters"})
		return
	}

	res, err := s.deps.Executor.Execute(ctx, orders.OrderRequest{
		Pair:        pair,
		Side:        side,
		Quantity:    amount,
		Category:    s.cfg.OrderCategory,
		MaxAttempts: s.cfg.MaxAttempts,
	})
	if err != nil {
		status := http.StatusInternalServerError
		var botErr *apperrors.BotError
		if errors.As(err, &botErr) {
			status = botErr.HTTPStatus()
		}
		msg := fmt.Sprintf("Error placing trade: %v", err)
		s.log.WithField("pair", pair.String()).Error(msg)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order_id": res.OrderID})
}
