package fintrack

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AssetClass is the kind of instrument a quote refers to.
type AssetClass int

const (
	Equity AssetClass = iota
	Bond
	MutualFund
	Crypto
)

func (c AssetClass) String() string {
	switch c {
	case Equity:
		return "equity"
	case Bond:
		return "bond"
	case MutualFund:
		return "fund"
	case Crypto:
		return "crypto"
	default:
		return "unknown"
	}
}

// ParseAssetClass parses a string into an AssetClass.
func ParseAssetClass(s string) (AssetClass, error) {
	switch strings.ToLower(s) {
	case "equity", "stock":
		return Equity, nil
	case "bond":
		return Bond, nil
	case "fund", "mutual-fund":
		return MutualFund, nil
	case "crypto":
		return Crypto, nil
	default:
		return 0, fmt.Errorf("unknown asset class: %q", s)
	}
}

func (c AssetClass) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

func (c *AssetClass) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseAssetClass(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Details carries the class-specific reference data of an instrument.
// Each asset class has exactly one implementation.
type Details interface {
	Class() AssetClass
}

// EquityDetails describes a listed stock.
type EquityDetails struct {
	Sector        string  `json:"sector,omitempty"`
	ChangePercent float64 `json:"change,omitempty"` // daily change in percent
}

// BondDetails describes a fixed income security.
type BondDetails struct {
	Yield    float64 `json:"yield"`
	Maturity string  `json:"maturity,omitempty"` // YYYY-MM-DD
}

// FundDetails describes a mutual fund.
type FundDetails struct {
	Category     string  `json:"category,omitempty"`
	ExpenseRatio float64 `json:"expenseRatio"`
}

// CryptoDetails describes a cryptocurrency.
type CryptoDetails struct {
	ChangePercent float64         `json:"change,omitempty"`
	Volume        decimal.Decimal `json:"volume"`
}

func (EquityDetails) Class() AssetClass { return Equity }
func (BondDetails) Class() AssetClass   { return Bond }
func (FundDetails) Class() AssetClass   { return MutualFund }
func (CryptoDetails) Class() AssetClass { return Crypto }

// Instrument is the immutable reference data of a quoted symbol.
type Instrument struct {
	Symbol  string
	Name    string
	Details Details
}

// NewInstrument creates an instrument. A nil details defaults to an equity.
func NewInstrument(symbol, name string, details Details) Instrument {
	if details == nil {
		details = EquityDetails{}
	}
	return Instrument{Symbol: symbol, Name: name, Details: details}
}

// Class returns the asset class of the instrument.
func (i Instrument) Class() AssetClass {
	if i.Details == nil {
		return Equity
	}
	return i.Details.Class()
}

func (i Instrument) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", i.Symbol)
	w.Optional("name", i.Name)
	w.Append("class", i.Class())
	if i.Details != nil {
		w.EmbedFrom(i.Details)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON resolves the details variant from the "class" discriminant.
func (i *Instrument) UnmarshalJSON(data []byte) error {
	var head struct {
		Symbol string     `json:"symbol"`
		Name   string     `json:"name"`
		Class  AssetClass `json:"class"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var details Details
	switch head.Class {
	case Equity:
		var d EquityDetails
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		details = d
	case Bond:
		var d BondDetails
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		details = d
	case MutualFund:
		var d FundDetails
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		details = d
	case Crypto:
		var d CryptoDetails
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		details = d
	}
	*i = Instrument{Symbol: head.Symbol, Name: head.Name, Details: details}
	return nil
}
