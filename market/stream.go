package market

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/etnz/fintrack"
	"github.com/gorilla/websocket"
)

// DefaultStreamURL is the Binance combined stream endpoint.
const DefaultStreamURL = "wss://stream.binance.com:9443/stream"

// PriceSetter receives price updates. *fintrack.QuoteStore implements it.
type PriceSetter interface {
	// SetInstrumentPrice records price for in's symbol. in describes the
	// instrument when the symbol is not known yet.
	SetInstrumentPrice(in fintrack.Instrument, price fintrack.Money, asOf time.Time) error
}

// tradeMsg is a Binance combined stream trade event.
type tradeMsg struct {
	Stream string `json:"stream"`
	Data   struct {
		Event     string `json:"e"`
		Symbol    string `json:"s"`
		Price     string `json:"p"`
		TradeTime int64  `json:"T"`
	} `json:"data"`
}

// Stream pushes live crypto prices into a PriceSetter.
type Stream struct {
	URL      string            // defaults to DefaultStreamURL
	Pairs    map[string]string // exchange pair (BTCUSDT) to quoted symbol (BTC)
	Currency string            // currency of the pairs quote side, defaults to USD
	Dialer   *websocket.Dialer
	// MaxBackoff caps the delay between reconnections.
	MaxBackoff time.Duration
}

// DefaultPairs are the trade streams of the catalog cryptocurrencies.
var DefaultPairs = map[string]string{"BTCUSDT": "BTC", "ETHUSDT": "ETH", "ADAUSDT": "ADA"}

func (s *Stream) addr() string {
	base := s.URL
	if base == "" {
		base = DefaultStreamURL
	}
	streams := make([]string, 0, len(s.Pairs))
	for pair := range s.Pairs {
		streams = append(streams, strings.ToLower(pair)+"@trade")
	}
	return base + "?streams=" + strings.Join(streams, "/")
}

// Run receives trades until ctx is done, reconnecting with an exponential
// backoff. It returns ctx.Err().
func (s *Stream) Run(ctx context.Context, sink PriceSetter) error {
	maxBackoff := s.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = 30 * time.Second
	}
	backoff := 100 * time.Millisecond
	for {
		err := s.receive(ctx, sink, func() { backoff = 100 * time.Millisecond })
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("[stream] %v, reconnecting in %v", err, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(2*backoff, maxBackoff)
	}
}

// receive runs one connection. connected is called once the dial succeeded.
func (s *Stream) receive(ctx context.Context, sink PriceSetter, connected func()) error {
	dialer := s.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, s.addr(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()
	connected()

	// unblock ReadJSON on cancellation
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	currency := s.Currency
	if currency == "" {
		currency = "USD"
	}
	for {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		var msg tradeMsg
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("read error: %w", err)
		}
		symbol, ok := s.Pairs[strings.ToUpper(msg.Data.Symbol)]
		if !ok {
			continue
		}
		price, err := fintrack.ParseMoney(msg.Data.Price, currency)
		if err != nil {
			log.Printf("[stream] ignoring %s trade: %v", msg.Data.Symbol, err)
			continue
		}
		at := time.Now()
		if msg.Data.TradeTime > 0 {
			at = time.UnixMilli(msg.Data.TradeTime)
		}
		in := fintrack.NewInstrument(symbol, "", fintrack.CryptoDetails{})
		if err := sink.SetInstrumentPrice(in, price, at); err != nil {
			log.Printf("[stream] ignoring %s trade: %v", msg.Data.Symbol, err)
		}
	}
}
