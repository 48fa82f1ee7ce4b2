package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/etnz/fintrack"
	"github.com/gorilla/websocket"
)

// recorder is a PriceSetter that signals each update.
type recorder struct {
	mu      sync.Mutex
	prices  map[string]fintrack.Money
	classes map[string]fintrack.AssetClass
	got     chan string
}

func (r *recorder) SetInstrumentPrice(in fintrack.Instrument, price fintrack.Money, _ time.Time) error {
	r.mu.Lock()
	r.prices[in.Symbol] = price
	r.classes[in.Symbol] = in.Class()
	r.mu.Unlock()
	r.got <- in.Symbol
	return nil
}

func TestStream_Run(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "btcusdt@trade") {
			http.Error(w, "unknown stream", http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, msg := range []string{
			`{"stream":"dogeusdt@trade","data":{"e":"trade","s":"DOGEUSDT","p":"0.1","T":1741003200000}}`,
			`{"stream":"btcusdt@trade","data":{"e":"trade","s":"BTCUSDT","p":"not a price","T":1741003200000}}`,
			`{"stream":"btcusdt@trade","data":{"e":"trade","s":"BTCUSDT","p":"64000.50","T":1741003200000}}`,
		} {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
		// keep the connection open until the client leaves
		conn.ReadMessage()
	}))
	defer srv.Close()

	s := &Stream{
		URL:   "ws" + strings.TrimPrefix(srv.URL, "http"),
		Pairs: map[string]string{"BTCUSDT": "BTC"},
	}
	rec := &recorder{prices: map[string]fintrack.Money{}, classes: map[string]fintrack.AssetClass{}, got: make(chan string, 4)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, rec) }()

	select {
	case symbol := <-rec.got:
		if symbol != "BTC" {
			t.Errorf("first update for %s, want BTC", symbol)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no price received")
	}
	rec.mu.Lock()
	if got := rec.prices["BTC"]; !got.Equal(fintrack.M(64000.5, "USD")) {
		t.Errorf("BTC = %v, want 64000.50", got)
	}
	if got := rec.classes["BTC"]; got != fintrack.Crypto {
		t.Errorf("BTC streamed as %v, want %v", got, fintrack.Crypto)
	}
	rec.mu.Unlock()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() = %v, want %v", err, context.Canceled)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop on cancel")
	}
}

func TestStream_ReconnectsUntilCancelled(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := &Stream{URL: "ws" + strings.TrimPrefix(srv.URL, "http"), Pairs: DefaultPairs, MaxBackoff: 50 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()
	if err := s.Run(ctx, fintrack.NewQuoteStore()); err != context.DeadlineExceeded {
		t.Errorf("Run() = %v, want %v", err, context.DeadlineExceeded)
	}
	mu.Lock()
	defer mu.Unlock()
	if attempts < 3 {
		t.Errorf("dialed %d times, want several reconnections", attempts)
	}
}
