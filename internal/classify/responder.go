package classify

import "context"

// Prompt describes one interactive request to the operator. When Options is
// non-empty the operator answers with a 1-based selection; the engine has
// already appended the terminal "None of the above" entry. When Options is
// empty the answer is free text.
type Prompt struct {
	Question string
	Options  []string
}

// Responder is the transport carrying prompts to a human and answers back.
// The engine owns the protocol: it validates every raw answer and re-asks on
// invalid input, so implementations only move strings. Ask must honor context
// cancellation; it is the only way out of a retry loop besides valid input.
type Responder interface {
	Ask(ctx context.Context, p Prompt) (string, error)
	Say(ctx context.Context, msg string) error
}
