package bybit

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType represents different account types in Bybit
type AccountType string

const (
	AccountTypeUnified AccountType = "UNIFIED"
	AccountTypeSpot    AccountType = "SPOT"
	AccountTypeFund    AccountType = "FUND"
)

// Balance represents a coin balance in the account
type Balance struct {
	Coin             string
	WalletBalance    decimal.Decimal
	AvailableToTrade decimal.Decimal
}

// AccountInfo represents one account of the wallet-balance response
type AccountInfo struct {
	AccountType        string
	TotalEquity        string
	TotalWalletBalance string
	Coin               []Balance
}

// GetWalletBalance retrieves the wallet balance of every account of the given type
func (c *Client) GetWalletBalance(ctx context.Context, accountType AccountType) ([]AccountInfo, error) {
	params := map[string]interface{}{
		"accountType": string(accountType),
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetAccountWallet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get account balance: %w", err)
	}

	accounts, err := parseWalletBalanceResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse account balance response: %w", err)
	}

	return accounts, nil
}

// parseWalletBalanceResponse parses the wallet balance API response.
// Balances are kept as decimals so later truncation works on the venue's exact digits.
func parseWalletBalanceResponse(response interface{}) ([]AccountInfo, error) {
	var walletResult WalletBalanceResult
	if err := decodeResult(response, &walletResult); err != nil {
		return nil, err
	}

	accounts := make([]AccountInfo, 0, len(walletResult.List))
	for _, account := range walletResult.List {
		info := AccountInfo{
			AccountType:        account.AccountType,
			TotalEquity:        account.TotalEquity,
			TotalWalletBalance: account.TotalWalletBalance,
			Coin:               make([]Balance, 0, len(account.Coin)),
		}
		for _, coin := range account.Coin {
			info.Coin = append(info.Coin, Balance{
				Coin:             coin.Coin,
				WalletBalance:    parseDecimal(coin.WalletBalance),
				AvailableToTrade: parseDecimal(coin.AvailableToTrade),
			})
		}
		accounts = append(accounts, info)
	}

	return accounts, nil
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
