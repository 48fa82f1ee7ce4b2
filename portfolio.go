package fintrack

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Config holds the settings of a tracker. It is passed explicitly to the
// components that need it.
type Config struct {
	Currency string          // currency of the cash balance and of all quotes
	SeedCash decimal.Decimal // initial cash balance of a new portfolio
	FeedSize int             // number of trades displayed in a feed
}

// DefaultConfig returns the settings observed in the mobile app.
func DefaultConfig() Config {
	return Config{
		Currency: "USD",
		SeedCash: decimal.NewFromInt(10000),
		FeedSize: DefaultFeedSize,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Currency == "" {
		return fmt.Errorf("%w: currency is missing", ErrValidation)
	}
	if c.SeedCash.IsNegative() {
		return fmt.Errorf("%w: seed cash must not be negative, got %s", ErrValidation, c.SeedCash)
	}
	return nil
}

// Portfolio is the aggregate of a cash balance, the current holdings and the
// history of trades that produced them.
//
// The cash balance is never negative. It is only changed by Settle.
type Portfolio struct {
	cash     Money
	holdings Holdings
	log      TradeLog
}

// NewPortfolio creates an empty portfolio seeded with cfg.SeedCash.
func NewPortfolio(cfg Config) *Portfolio {
	return &Portfolio{
		cash:     M(cfg.SeedCash, cfg.Currency),
		holdings: NewHoldings(),
	}
}

// RestorePortfolio rebuilds a portfolio from persisted parts.
func RestorePortfolio(cash Money, holdings Holdings, log TradeLog) (*Portfolio, error) {
	if cash.IsNegative() {
		return nil, fmt.Errorf("%w: cash balance is negative: %s", ErrValidation, cash)
	}
	if holdings.index == nil {
		holdings = NewHoldings()
	}
	return &Portfolio{cash: cash, holdings: holdings, log: log}, nil
}

// Cash returns the cash balance.
func (p *Portfolio) Cash() Money { return p.cash }

// Currency returns the currency of the cash balance.
func (p *Portfolio) Currency() string { return p.cash.Currency() }

// Holdings returns the current positions.
func (p *Portfolio) Holdings() Holdings { return p.holdings }

// Log returns the history of settled trades.
func (p *Portfolio) Log() TradeLog { return p.log }

// clone returns a draft that shares no mutable state with p.
func (p *Portfolio) clone() *Portfolio {
	return &Portfolio{
		cash:     p.cash,
		holdings: p.holdings.clone(),
		log:      p.log.clone(),
	}
}

// MarshalJSON encodes the cash balance and the holdings. The trade log is
// persisted on its own.
func (p *Portfolio) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("cash", p.cash)
	w.Append("holdings", p.holdings)
	return w.MarshalJSON()
}

func (p *Portfolio) UnmarshalJSON(data []byte) error {
	var temp struct {
		Cash     Money    `json:"cash"`
		Holdings Holdings `json:"holdings"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	restored, err := RestorePortfolio(temp.Cash, temp.Holdings, p.log)
	if err != nil {
		return err
	}
	*p = *restored
	return nil
}
