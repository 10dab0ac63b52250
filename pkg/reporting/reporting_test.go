package reporting

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

var trades = []types.TradeRecord{
	{Pair: "BTCUSDT", Action: "Buy", Price: 65000, Amount: 0.01},
	{Pair: "ETHUSDT", Action: "Sell", Price: 3000, Amount: 1.5},
}

func TestConsoleReporter_PrintSnapshots(t *testing.T) {
	var buf bytes.Buffer
	btc := types.MustParsePair("BTC/USDT")
	ada := types.MustParsePair("ADA/USDT")

	NewConsoleReporter(&buf).PrintSnapshots(
		[]types.TradingPair{btc, ada},
		map[string]types.MarketSnapshot{
			"BTC/USDT": {Pair: btc, Current: 65000, Dip: 1.5, PreviousTrend: types.TrendUp, Volatility: 2.25},
			"ADA/USDT": {},
		},
	)

	out := buf.String()
	assert.Contains(t, out, "MARKET SNAPSHOT")
	assert.Contains(t, out, "BTC/USDT")
	assert.Contains(t, out, "65000")
	assert.Contains(t, out, "+1.50")
	assert.Contains(t, out, "up")
	assert.Contains(t, out, "ADA/USDT")
	assert.Contains(t, out, "1/2")
}

func TestExcelReporter_WriteTradesXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "trades.xlsx")

	require.NoError(t, NewExcelReporter().WriteTradesXLSX(trades, path))

	fx, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer fx.Close()

	rows, err := fx.GetRows(tradesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Pair", "Action", "Price", "Amount", "Notional"}, rows[0])
	assert.Equal(t, "BTCUSDT", rows[1][0])
	assert.Equal(t, "Sell", rows[2][1])
	assert.Equal(t, "4500", rows[2][4])
}

func TestExcelReporter_WriteTradesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewExcelReporter().WriteTrades(&buf, nil))

	fx, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer fx.Close()

	rows, err := fx.GetRows(tradesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
