// Package agent implements the financial assistant: a facilitator chat that
// consults expert chats, some of them able to read the user's finances.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"log"
	"slices"
	"strings"

	"google.golang.org/genai"
)

// Agent runs the assistant conversation on a terminal.
type Agent struct {
	w           io.Writer
	r           io.Reader
	Facilitator *Expert
	Experts     []*Expert
	// Render formats the markdown answers before printing. Answers are
	// printed as is when nil.
	Render func(markdown string) string
}

// New creates an Agent that reads questions from r and writes answers to w.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		r:           r,
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start creates the chats of all experts and of the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range slices.Concat(a.Experts, []*Expert{a.Facilitator}) {
		if e.Started() {
			continue
		}
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return nil
}

const prompt = "assist> "

// isExit reports whether input ends the session.
func isExit(input string) bool {
	switch strings.ToLower(input) {
	case "bye", "exit", "quit":
		return true
	}
	return false
}

// questions yields the prompts then the lines read from the user, echoing
// the prompts as if they were typed. Blank lines are skipped.
func (a *Agent) questions(prompts []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, p := range prompts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			fmt.Fprintln(a.w, prompt+p)
			if !yield(p) {
				return
			}
		}
		lines := bufio.NewScanner(a.r)
		for fmt.Fprint(a.w, prompt); lines.Scan(); fmt.Fprint(a.w, prompt) {
			line := strings.TrimSpace(lines.Text())
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
		if err := lines.Err(); err != nil {
			log.Printf("cannot read question: %v", err)
		}
		fmt.Fprintln(a.w)
	}
}

// Run answers prompts, then the questions typed by the user until end of
// input or an exit word. A failed answer is reported and the session goes
// on; Run only fails if the chats cannot be started or ctx is done.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if err := a.Start(ctx, client); err != nil {
		return err
	}
	return a.converse(ctx, prompts)
}

func (a *Agent) converse(ctx context.Context, prompts []string) error {
	fmt.Fprintln(a.w, "Welcome to fin assist. Type 'bye' to exit.")
	for question := range a.questions(prompts) {
		if isExit(question) {
			return nil
		}
		answer, err := a.Facilitator.Ask(ctx, &genai.Part{Text: question})
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			fmt.Fprintf(a.w, "Sorry, I could not answer: %v\n", err)
			continue
		}
		if a.Render != nil {
			answer = a.Render(answer)
		}
		fmt.Fprintln(a.w, answer)
	}
	return nil
}
