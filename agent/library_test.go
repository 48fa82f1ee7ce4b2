package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/kvstore"
	"github.com/etnz/fintrack/session"
	"google.golang.org/genai"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.Load(context.Background(), kvstore.NewMemory(), fintrack.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Quotes.SetPrice("AAPL", fintrack.M(150, "USD"), time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Trade(context.Background(), fintrack.Order{Symbol: "AAPL", Kind: fintrack.Buy, Quantity: fintrack.Q(10)}); err != nil {
		t.Fatal(err)
	}
	return s
}

func call(t *testing.T, lib Library, name string, args map[string]any) map[string]any {
	t.Helper()
	resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
	if resp.ID != "1" || resp.Name != name {
		t.Errorf("response %q/%q, want 1/%s", resp.ID, resp.Name, name)
	}
	return resp.Response
}

func TestAccountantFunctions(t *testing.T) {
	lib := NewLibrary(AccountantFunctions(newTestSession(t)))

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"Holdings", nil, "AAPL"},
		{"Transactions", map[string]any{"count": 5.0}, "buy"},
		{"Budget", nil, "Emergency Fund"},
		{"CashFlow", map[string]any{"date": "2025-03-15"}, "Cash Flow 2025-03"},
		{"Quotes", nil, "Stocks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, lib, tt.name, tt.args)
			out, _ := resp["output"].(string)
			if !strings.Contains(out, tt.want) {
				t.Errorf("%s output = %q, want it to contain %q (response %v)", tt.name, out, tt.want, resp)
			}
		})
	}
}

func TestLibrary_Errors(t *testing.T) {
	lib := NewLibrary(AccountantFunctions(newTestSession(t)))
	if resp := call(t, lib, "Nope", nil); resp["error"] == nil {
		t.Errorf("unknown function response = %v, want an error", resp)
	}
	if resp := call(t, lib, "CashFlow", map[string]any{"date": "March"}); resp["error"] == nil {
		t.Errorf("bad date response = %v, want an error", resp)
	}
}

func TestExpert_CallWithoutChat(t *testing.T) {
	e := NewTrader()
	resp := e.Call(context.Background(), "7", map[string]any{"question": "How is AAPL doing?"})
	if resp.Response["error"] == nil {
		t.Errorf("Call() on a stopped expert = %v, want an error", resp.Response)
	}
	resp = e.Call(context.Background(), "8", map[string]any{"question": 42})
	if resp.Response["error"] == nil {
		t.Errorf("Call() with a bad argument = %v, want an error", resp.Response)
	}
}

func TestNewFacilitator(t *testing.T) {
	f := newFacilitator(NewTrader(), NewAccountant(newTestSession(t)))
	decls := f.Config.Tools[0].FunctionDeclarations
	if len(decls) != 2 || decls[0].Name != "Trader" || decls[1].Name != "Accountant" {
		t.Errorf("facilitator tools = %v", decls)
	}
}
