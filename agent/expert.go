package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

// maxToolRounds bounds the function calls resolved for a single question.
const maxToolRounds = 8

// Chat is a conversation with a model. *genai.Chat implements it.
type Chat interface {
	Send(ctx context.Context, parts ...*genai.Part) (*genai.GenerateContentResponse, error)
}

// Expert is a chat specialized in one area of the user's finances.
type Expert struct {
	Name        string                       `json:"name"`
	Description string                       `json:"description"`
	ModelName   string                       `json:"model_name"`
	Config      *genai.GenerateContentConfig `json:"config"`
	Library     Library
	chat        Chat
}

// Start creates the expert's chat.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return fmt.Errorf("cannot start %s: %w", e.Name, err)
	}
	e.chat = chat
	return nil
}

// Started reports whether the expert has a chat.
func (e *Expert) Started() bool { return e.chat != nil }

// Ask sends parts to the expert and returns its text answer. Function calls
// requested by the model are resolved through the Library, all calls of a
// turn being answered together.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (string, error) {
	if e.chat == nil {
		return "", fmt.Errorf("expert %s is not started", e.Name)
	}
	for range maxToolRounds {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("%s: %w", e.Name, err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			return "", fmt.Errorf("no response from expert %s", e.Name)
		}

		var (
			text  []string
			calls []*genai.FunctionCall
		)
		for _, p := range resp.Candidates[0].Content.Parts {
			switch {
			case p.FunctionCall != nil:
				calls = append(calls, p.FunctionCall)
			case p.Text != "" && !p.Thought:
				text = append(text, p.Text)
			}
		}
		if len(calls) == 0 {
			if len(text) == 0 {
				return "", fmt.Errorf("empty response from expert %s", e.Name)
			}
			return strings.Join(text, ""), nil
		}
		if e.Library == nil {
			return "", fmt.Errorf("expert %s cannot answer function calls", e.Name)
		}
		parts = parts[:0:0]
		for _, call := range calls {
			log.Printf("[%s] calling %s(%v)", e.Name, call.Name, call.Args)
			parts = append(parts, &genai.Part{FunctionResponse: e.Library(ctx, call)})
		}
	}
	return "", fmt.Errorf("expert %s kept calling functions after %d rounds", e.Name, maxToolRounds)
}

// Declaration declares this expert as a function taking a question.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question": {Type: genai.TypeString, Description: "The question for " + e.Name + "."},
			},
			Required: []string{"question"},
		},
		Response: &genai.Schema{Type: genai.TypeString, Description: e.Name + "'s answer."},
	}
}

// Call asks the "question" argument to this expert.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	question, ok := args["question"].(string)
	if !ok || strings.TrimSpace(question) == "" {
		return errorResponse(id, e.Name, fmt.Errorf("question must be a non empty string, got %v", args["question"]))
	}
	answer, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		return errorResponse(id, e.Name, err)
	}
	log.Printf("[%s] %q: %q", e.Name, question, answer)
	return outputResponse(id, e.Name, answer)
}
