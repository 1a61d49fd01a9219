package session

import (
	"context"

	"github.com/abhisek/calcitb/internal/advisor"
)

// Explain runs a full explanation round trip on the caller's goroutine.
// It returns false when no request could be started.
func (c *Calculator) Explain(ctx context.Context, adv advisor.Advisor) bool {
	t, ok := c.BeginExplain()
	if !ok {
		return false
	}
	text, err := adv.Explain(ctx, t.Input)
	return c.FinishExplain(t, text, err)
}

// Scan opens capture, extracts readings from image and applies them.
func (c *Calculator) Scan(ctx context.Context, adv advisor.Advisor, image []byte) bool {
	if !c.OpenCapture() {
		return false
	}
	t, ok := c.BeginScan()
	if !ok {
		return false
	}
	r, err := adv.ExtractReadings(ctx, image)
	return c.FinishScan(t, r, err)
}
