// Package classify implements the expense classification engine: exact and
// fuzzy resolution of expense names against the taxonomy store, and the
// interactive protocols for disambiguating or classifying new expenses.
package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/amesfield/bean-counter/internal/common"
	"github.com/amesfield/bean-counter/internal/model"
	"github.com/amesfield/bean-counter/internal/taxonomy"
)

const noneOfTheAbove = "None of the above"

// Config holds the fuzzy-match tuning knobs.
type Config struct {
	MaxCandidates int
	MinSimilarity float64
}

// DefaultConfig returns the default fuzzy-match configuration.
func DefaultConfig() Config {
	return Config{
		MaxCandidates: 3,
		MinSimilarity: 0.6,
	}
}

// Engine resolves expense names to classified records. It owns the taxonomy
// store for the process lifetime and drives the interactive protocols through
// an injected Responder.
type Engine struct {
	store     *taxonomy.Store
	responder Responder
	cfg       Config
}

// New creates a classification engine with the default configuration.
func New(store *taxonomy.Store, responder Responder) *Engine {
	return NewWithConfig(store, responder, DefaultConfig())
}

// NewWithConfig creates a classification engine with custom fuzzy-match
// tuning.
func NewWithConfig(store *taxonomy.Store, responder Responder, cfg Config) *Engine {
	if cfg.MaxCandidates < 1 {
		cfg.MaxCandidates = DefaultConfig().MaxCandidates
	}
	if cfg.MinSimilarity <= 0 || cfg.MinSimilarity > 1 {
		cfg.MinSimilarity = DefaultConfig().MinSimilarity
	}
	return &Engine{store: store, responder: responder, cfg: cfg}
}

// Resolve classifies one expense observation. Known names take the fast path:
// their record's running mean is updated and no interaction happens. Unknown
// names go through fuzzy matching and, when the operator accepts a candidate,
// the observation is folded into the matched record under the matched name.
// Otherwise the new-classification protocol assigns a fresh category and
// subcategory.
func (e *Engine) Resolve(ctx context.Context, name string, price float64) (model.ExpenseRecord, error) {
	key := taxonomy.Normalize(name)
	if key == "" {
		return model.ExpenseRecord{}, fmt.Errorf("expense name cannot be blank: %w", common.ErrInvalidConfig)
	}

	if _, ok := e.store.Lookup(key); ok {
		return e.store.Observe(key, price)
	}

	matches := CloseMatches(key, e.store.Names(), e.cfg)
	if len(matches) > 0 {
		chosen, accepted, err := e.disambiguate(ctx, key, matches)
		if err != nil {
			return model.ExpenseRecord{}, err
		}
		if accepted {
			slog.Debug("fuzzy match accepted", "query", key, "match", chosen)
			return e.store.Observe(chosen, price)
		}
	}

	return e.classifyNew(ctx, key, price)
}

// disambiguate presents the fuzzy candidates and returns the accepted name,
// or accepted=false when the operator declines them all.
func (e *Engine) disambiguate(ctx context.Context, query string, matches []Match) (string, bool, error) {
	options := make([]string, 0, len(matches)+1)
	for _, m := range matches {
		options = append(options, m.Name)
	}
	options = append(options, noneOfTheAbove)

	prompt := Prompt{
		Question: fmt.Sprintf("No record for %q, did you mean one of these?", query),
		Options:  options,
	}

	for {
		answer, err := e.responder.Ask(ctx, prompt)
		if err != nil {
			return "", false, fmt.Errorf("disambiguation prompt failed: %w", err)
		}

		choice, err := strconv.Atoi(answer)
		if err != nil {
			if sayErr := e.responder.Say(ctx, fmt.Sprintf("%q is an invalid choice", answer)); sayErr != nil {
				return "", false, sayErr
			}
			continue
		}

		switch {
		case choice == len(options):
			return "", false, nil
		case choice >= 1 && choice < len(options):
			return matches[choice-1].Name, true, nil
		default:
			if sayErr := e.responder.Say(ctx, fmt.Sprintf("%d is an invalid choice", choice)); sayErr != nil {
				return "", false, sayErr
			}
		}
	}
}

// classifyNew runs the new-classification protocol and registers the expense.
func (e *Engine) classifyNew(ctx context.Context, key string, price float64) (model.ExpenseRecord, error) {
	if err := e.responder.Say(ctx, fmt.Sprintf("No matches for %q, adding a new expense", key)); err != nil {
		return model.ExpenseRecord{}, err
	}

	for {
		category, err := e.chooseName(ctx, key, "category", e.store.Categories())
		if err != nil {
			return model.ExpenseRecord{}, err
		}

		subcategory, err := e.chooseName(ctx, key, "subcategory", e.store.Subcategories(category))
		if err != nil {
			return model.ExpenseRecord{}, err
		}

		rec, err := e.store.Register(key, category, subcategory, price)
		if err == nil {
			return rec, nil
		}
		// Conflicts reachable only through direct store use still surface as
		// a re-prompt rather than ending the run.
		if errors.Is(err, common.ErrTaxonomyConflict) || errors.Is(err, common.ErrDuplicateName) {
			if sayErr := e.responder.Say(ctx, err.Error()); sayErr != nil {
				return model.ExpenseRecord{}, sayErr
			}
			continue
		}
		return model.ExpenseRecord{}, err
	}
}

// chooseName asks for a category or subcategory, offering the existing
// choices plus "None of the above" for free-text entry. Free-text names must
// not collide with any existing category or subcategory name. The loop ends
// only on a valid answer or context cancellation.
func (e *Engine) chooseName(ctx context.Context, query, kind string, choices []string) (string, error) {
	freeText := len(choices) == 0

	for {
		if freeText {
			answer, err := e.responder.Ask(ctx, Prompt{
				Question: fmt.Sprintf("Please specify a %s for %q", kind, query),
			})
			if err != nil {
				return "", fmt.Errorf("%s prompt failed: %w", kind, err)
			}

			name := taxonomy.Normalize(answer)
			switch {
			case name == "":
				if sayErr := e.responder.Say(ctx, fmt.Sprintf("a %s name cannot be blank", kind)); sayErr != nil {
					return "", sayErr
				}
			case e.store.NameTaken(name):
				if sayErr := e.responder.Say(ctx, fmt.Sprintf("%q is invalid because it already exists", name)); sayErr != nil {
					return "", sayErr
				}
			default:
				return name, nil
			}
			continue
		}

		options := make([]string, 0, len(choices)+1)
		options = append(options, choices...)
		options = append(options, noneOfTheAbove)

		answer, err := e.responder.Ask(ctx, Prompt{
			Question: fmt.Sprintf("Please choose a %s for %q", kind, query),
			Options:  options,
		})
		if err != nil {
			return "", fmt.Errorf("%s prompt failed: %w", kind, err)
		}

		choice, err := strconv.Atoi(answer)
		if err != nil {
			if sayErr := e.responder.Say(ctx, fmt.Sprintf("%q is an invalid choice", answer)); sayErr != nil {
				return "", sayErr
			}
			continue
		}

		switch {
		case choice == len(options):
			freeText = true
		case choice >= 1 && choice < len(options):
			return choices[choice-1], nil
		default:
			if sayErr := e.responder.Say(ctx, fmt.Sprintf("%d is an invalid choice", choice)); sayErr != nil {
				return "", sayErr
			}
		}
	}
}
