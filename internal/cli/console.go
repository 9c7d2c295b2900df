package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amesfield/bean-counter/internal/classify"
)

// ErrInputCancelled is returned when a pending read is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// Console carries classification prompts over line-oriented standard
// input/output. It implements classify.Responder.
type Console struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewConsole creates a console responder. Nil reader or writer default to
// stdin and stdout.
func NewConsole(reader io.Reader, writer io.Writer) *Console {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Console{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// Ask renders the prompt and reads one answer line. Numbered options are
// printed one per line; the trailing range hint tells the operator what a
// valid selection looks like.
func (c *Console) Ask(ctx context.Context, p classify.Prompt) (string, error) {
	if _, err := fmt.Fprintf(c.writer, "\n%s\n", PromptStyle.Render(p.Question)); err != nil {
		return "", fmt.Errorf("failed to write question: %w", err)
	}

	hint := "> "
	if len(p.Options) > 0 {
		for i, opt := range p.Options {
			if _, err := fmt.Fprintln(c.writer, OptionStyle.Render(fmt.Sprintf("%d) %s", i+1, opt))); err != nil {
				return "", fmt.Errorf("failed to write option: %w", err)
			}
		}
		hint = fmt.Sprintf("[1-%d]: ", len(p.Options))
	}

	if _, err := fmt.Fprint(c.writer, hint); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	return c.readLine(ctx)
}

// Say prints a diagnostic to the operator.
func (c *Console) Say(_ context.Context, msg string) error {
	if _, err := fmt.Fprintln(c.writer, FormatWarning(msg)); err != nil {
		return fmt.Errorf("failed to write diagnostic: %w", err)
	}
	return nil
}

// readLine reads one line, respecting context cancellation. The blocking read
// runs in a goroutine; on cancellation the caller returns immediately even
// though the read itself continues until input arrives.
func (c *Console) readLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		value, err := c.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil && (res.err != io.EOF || res.value == "") {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}
