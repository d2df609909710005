package generation

import (
	"context"
	"fmt"
	"time"
)

// EchoGenerator is the offline backend. It waits Delay and answers with a
// canned reply quoting the prompt.
type EchoGenerator struct {
	Delay time.Duration
}

func (e *EchoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if e.Delay > 0 {
		timer := time.NewTimer(e.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}
	return EchoReply(prompt), nil
}

// EchoReply is the text the echo backend answers with.
func EchoReply(prompt string) string {
	return fmt.Sprintf("This is a simulated reply to: %q. With the gemini backend configured, "+
		"the Google Gemini API would answer here using your API key.", prompt)
}
