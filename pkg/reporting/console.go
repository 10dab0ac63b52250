package reporting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

// ConsoleReporter renders market snapshots as a terminal table
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a console reporter writing to out
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// PrintSnapshots writes one row per pair in the given order. Pairs without market data
// are shown with dashes.
func (r *ConsoleReporter) PrintSnapshots(pairs []types.TradingPair, snapshots map[string]types.MarketSnapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("MARKET SNAPSHOT")
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Pair", "Price", "24h %", "Spread", "Trend", "Volatility %", "Momentum %", "1h Momentum %", "Volume 24h"})

	available := 0
	for _, pair := range pairs {
		snap, ok := snapshots[pair.String()]
		if !ok || snap.IsEmpty() {
			t.AppendRow(table.Row{pair.String(), "-", "-", "-", "-", "-", "-", "-", "-"})
			continue
		}
		available++
		t.AppendRow(table.Row{
			pair.String(),
			fmt.Sprintf("%.6g", snap.Current),
			fmt.Sprintf("%+.2f", snap.Dip),
			fmt.Sprintf("%.6g", snap.Spread),
			trendLabel(snap.PreviousTrend),
			fmt.Sprintf("%.2f", snap.Volatility),
			fmt.Sprintf("%+.2f", snap.Momentum),
			fmt.Sprintf("%+.2f", snap.Momentum1h),
			fmt.Sprintf("%.2f", snap.Volume24h),
		})
	}

	t.AppendFooter(table.Row{"", "", "", "", "", "", "", "Pairs with data", fmt.Sprintf("%d/%d", available, len(pairs))})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
	})

	t.Render()
}

func trendLabel(trend types.Trend) string {
	switch trend {
	case types.TrendUp:
		return "📈 up"
	case types.TrendDown:
		return "📉 down"
	default:
		return "➖ neutral"
	}
}
