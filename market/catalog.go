package market

import (
	"time"

	"github.com/etnz/fintrack"
	"github.com/shopspring/decimal"
)

// Catalog returns the quotes of the bonds, mutual funds and cryptocurrencies
// offered to trade. Prices are fixed.
func Catalog(currency string, asOf time.Time) []fintrack.Quote {
	q := func(symbol, name, price string, d fintrack.Details) fintrack.Quote {
		p, err := fintrack.ParseMoney(price, currency)
		if err != nil {
			panic(err)
		}
		return fintrack.Quote{Instrument: fintrack.NewInstrument(symbol, name, d), Price: p, AsOf: asOf}
	}
	return []fintrack.Quote{
		q("T10Y2Y", "10-Year Treasury Constant Maturity Minus 2-Year", "99.50", fintrack.BondDetails{Yield: 1.5, Maturity: "2031-09-15"}),
		q("DFII10", "10-Year Treasury Inflation-Indexed Security", "101.25", fintrack.BondDetails{Yield: 0.8, Maturity: "2031-09-15"}),
		q("DGS5", "5-Year Treasury Constant Maturity Rate", "100.75", fintrack.BondDetails{Yield: 1.2, Maturity: "2026-09-15"}),

		q("VFIAX", "Vanguard 500 Index Fund", "400.25", fintrack.FundDetails{Category: "Large Blend", ExpenseRatio: 0.04}),
		q("FXAIX", "Fidelity 500 Index Fund", "150.80", fintrack.FundDetails{Category: "Large Blend", ExpenseRatio: 0.015}),
		q("SWPPX", "Schwab S&P 500 Index Fund", "65.50", fintrack.FundDetails{Category: "Large Blend", ExpenseRatio: 0.02}),

		q("BTC", "Bitcoin", "45000.00", fintrack.CryptoDetails{ChangePercent: 2.5, Volume: decimal.NewFromInt(25_000_000_000)}),
		q("ETH", "Ethereum", "3000.00", fintrack.CryptoDetails{ChangePercent: -1.2, Volume: decimal.NewFromInt(15_000_000_000)}),
		q("ADA", "Cardano", "2.50", fintrack.CryptoDetails{ChangePercent: 0.8, Volume: decimal.NewFromInt(5_000_000_000)}),
	}
}
