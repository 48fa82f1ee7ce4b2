// Package fintrack provides the domain model of a local-first personal
// finance tracker. It is designed to run on a single device, with all state
// persisted through a simple key-value store owned by the caller.
//
// The core functionalities include:
//   - Quote Store: the latest known price of each instrument (equities,
//     bonds, mutual funds and cryptocurrencies).
//   - Holding Ledger: per-symbol positions reduced from an append-only
//     history of buy and sell trades, using a weighted-average cost basis.
//   - Valuation: a stateless engine combining holdings and quotes into
//     current value, unrealized gains and allocation.
//   - Settlement: all-or-nothing application of a trade against the cash
//     balance and the holdings.
//   - Budgeting: named buckets with a target and a progress (expense
//     categories, savings goals, income sources) and a log of income and
//     expense entries.
//
// This package serves as the foundational logic for the `fin` command-line
// tool. Collaborators (persistence, market data) live in sibling packages
// and exchange plain values with this one.
package fintrack
