package agent

import (
	"context"
	"fmt"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/renderer"
	"github.com/etnz/fintrack/session"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used by the experts.
const DefaultModel = "gemini-2.5-pro"

func systemInstruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: DefaultModel,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: systemInstruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep context of your previous questions.

			The user comes to understand their investments, budget and savings, and to get market news.
			Devise a plan of questions to ask to each expert and come up with the best response.
			Answer in markdown. You never place trades or edit budgets, you only advise.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded with Google Search on market news.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader, aware of stocks, bonds, mutual funds and cryptocurrencies,
		and of the latest news about companies and markets.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: DefaultModel,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: systemInstruction(`
			You are an expert in trading. You leverage Google Search to ground your assertions,
			and you relate the latest news to the user's request.`),
		},
	}
}

// NewAccountant returns an expert that reads the state of s.
func NewAccountant(s *session.Session) *Expert {
	lib := AccountantFunctions(s)
	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. They read the user's portfolio, trades, budget,
		savings goals and cash flow, and compute figures about the user's wealth.`,
		ModelName: DefaultModel,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: systemInstruction(`
				You are an accountant in charge of the user's personal finances.
				Use the Tools to get information about:
				  - holdings and their valuation
				  - recent trades
				  - budget categories, savings goals and income sources
				  - income and expenses of a month
				  - quotes of the tradable instruments
			`),
		},
		Library: NewLibrary(lib),
	}
}

func noParams() *genai.Schema {
	return &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}}
}

func markdownResponse(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

// AccountantFunctions returns the tools reading s.
func AccountantFunctions(s *session.Session) []*Func {
	return []*Func{
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Holdings",
				Description: "Holdings returns the cash balance, net worth and every holding valued at the current quotes.",
				Parameters:  noParams(),
				Response:    markdownResponse("A markdown report of the portfolio valuation."),
			},
			Func: func(context.Context, map[string]any) (string, error) {
				return renderer.ValuationMarkdown(s.Valuation()), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Transactions",
				Description: "Transactions lists the most recent trades, newest first.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"count": {Type: genai.TypeInteger, Description: "Number of trades, 10 by default."},
					},
				},
				Response: markdownResponse("A markdown table of trades."),
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				n := s.Config.FeedSize
				if v, ok := args["count"].(float64); ok && v > 0 {
					n = int(v)
				}
				return renderer.FeedMarkdown(s.Portfolio.Log(), n), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Budget",
				Description: "Budget lists the budget categories, savings goals and income sources with their progress.",
				Parameters:  noParams(),
				Response:    markdownResponse("Markdown tables of buckets."),
			},
			Func: func(context.Context, map[string]any) (string, error) {
				return renderer.BucketsMarkdown(s.Buckets), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "CashFlow",
				Description: "CashFlow returns the income, expenses and savings of a month, with its entries.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"date": {Type: genai.TypeString, Description: "Any day of the month, as YYYY-MM-DD. Today by default."},
					},
				},
				Response: markdownResponse("A markdown cash-flow report."),
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				day, err := parseDate(args)
				if err != nil {
					return "", err
				}
				r := date.NewRange(day, date.Monthly)
				return renderer.CashFlowMarkdown(s.CashFlow.Summary(r), s.CashFlow.Entries(fintrack.InRange(r))), nil
			},
		},
		{
			Decl: &genai.FunctionDeclaration{
				Name:        "Quotes",
				Description: "Quotes lists the current price of every tradable stock, bond, mutual fund and cryptocurrency.",
				Parameters:  noParams(),
				Response:    markdownResponse("Markdown tables of quotes per asset class."),
			},
			Func: func(context.Context, map[string]any) (string, error) {
				return renderer.QuotesMarkdown(s.Quotes), nil
			},
		},
	}
}

func parseDate(args map[string]any) (date.Date, error) {
	v, ok := args["date"]
	if !ok {
		return date.Today(), nil
	}
	str, ok := v.(string)
	if !ok {
		return date.Date{}, fmt.Errorf("argument 'date' is not a string as expected but %T", v)
	}
	d, err := date.Parse(str)
	if err != nil {
		return date.Date{}, fmt.Errorf("argument 'date' must be a YYYY-MM-DD date, got %q", str)
	}
	return d, nil
}
