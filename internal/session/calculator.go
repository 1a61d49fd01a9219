// Package session holds the calculator screen state independently of any
// renderer. The TUI, CLI and HTTP handlers all drive a Calculator.
package session

import (
	"strconv"
	"sync"

	"github.com/abhisek/calcitb/internal/advisor"
	"github.com/abhisek/calcitb/internal/itb"
)

// Ticket identifies one advisor request. A Finish call with a ticket that
// is no longer current is ignored.
type Ticket struct {
	id  uint64
	gen uint64

	// Input is what the explain request should send. Zero for scans.
	Input advisor.ExplainInput
}

// View is a consistent copy of the calculator state for rendering.
type View struct {
	State           State
	Reading         itb.Reading
	Result          *itb.Result
	Explanation     string
	ShowExplanation bool
	ScanError       string
	AIEnabled       bool
	CanCompute      bool
}

// Calculator is the presentation state machine. It is safe for concurrent
// use; advisor calls happen outside it between Begin and Finish.
type Calculator struct {
	mu sync.Mutex

	reading         itb.Reading
	result          *itb.Result
	explanation     string
	showExplanation bool
	scanError       string
	age, symptoms   string
	aiEnabled       bool

	state State

	// generation bumps on every input change and reset; tickets from an
	// older generation are stale.
	generation uint64
	lastTicket uint64
	pending    uint64
}

// New creates a Calculator. aiEnabled gates explain and capture.
func New(aiEnabled bool) *Calculator {
	return &Calculator{aiEnabled: aiEnabled}
}

// SetArm stores the arm systolic pressure. See SetField.
func (c *Calculator) SetArm(v string) bool { return c.SetField(itb.FieldArm, v) }

// SetAnkle stores the ankle systolic pressure. See SetField.
func (c *Calculator) SetAnkle(v string) bool { return c.SetField(itb.FieldAnkle, v) }

// SetField applies the digit filter to v. A refused value leaves every
// piece of state untouched. An accepted value clears the result and the
// explanation, even when it equals the current value.
func (c *Calculator) SetField(f itb.Field, v string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setFieldLocked(f, v)
}

func (c *Calculator) setFieldLocked(f itb.Field, v string) bool {
	if !c.reading.Set(f, v) {
		return false
	}
	c.clearOutputLocked()
	c.generation++
	c.pending = 0
	if c.state != StateCaptureOpen {
		c.settleLocked()
	}
	return true
}

// SetContext records optional patient context sent with explanations.
func (c *Calculator) SetContext(age, symptoms string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.age, c.symptoms = age, symptoms
}

// CanCompute reports whether Compute would produce a result.
func (c *Calculator) CanCompute() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := itb.Evaluate(c.reading)
	return ok
}

// Compute classifies the current reading. It returns false when the
// reading is incomplete or an advisor call is outstanding.
func (c *Calculator) Compute() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Pending() || c.state == StateCaptureOpen {
		return false
	}
	r, ok := itb.Evaluate(c.reading)
	if !ok {
		return false
	}
	if c.result == nil || *c.result != r {
		c.explanation = ""
		c.showExplanation = false
	}
	c.result = &r
	c.settleLocked()
	return true
}

// Reset clears inputs and outputs and returns to Idle. Outstanding
// tickets become stale.
func (c *Calculator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reading = itb.Reading{}
	c.clearOutputLocked()
	c.scanError = ""
	c.generation++
	c.pending = 0
	c.state = StateIdle
}

// BeginExplain starts an explanation request for the current result.
func (c *Calculator) BeginExplain() (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.aiEnabled || c.result == nil {
		return Ticket{}, false
	}
	if c.state != StateClassified && c.state != StateExplanationShown {
		return Ticket{}, false
	}

	t := c.issueLocked()
	t.Input = advisor.ExplainInput{
		Score:    c.result.Score,
		Age:      c.age,
		Symptoms: c.symptoms,
	}
	c.explanation = ""
	c.showExplanation = true
	c.state = StateExplanationPending
	return t, true
}

// FinishExplain completes t with the advisor's answer. Any error or an
// empty answer stores ExplainFallback. It returns false for stale tickets.
func (c *Calculator) FinishExplain(t Ticket, text string, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.currentLocked(t) || c.state != StateExplanationPending {
		return false
	}
	c.pending = 0
	if err != nil || text == "" {
		text = ExplainFallback
	}
	c.explanation = text
	c.showExplanation = true
	c.settleLocked()
	return true
}

// OpenCapture shows the capture prompt.
func (c *Calculator) OpenCapture() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.aiEnabled || c.state.Pending() {
		return false
	}
	c.scanError = ""
	c.state = StateCaptureOpen
	return true
}

// CloseCapture dismisses the capture prompt without scanning.
func (c *Calculator) CloseCapture() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateCaptureOpen {
		c.settleLocked()
	}
}

// BeginScan closes the capture prompt and starts extraction.
func (c *Calculator) BeginScan() (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateCaptureOpen {
		return Ticket{}, false
	}
	t := c.issueLocked()
	c.state = StateCapturePending
	return t, true
}

// FinishScan completes t. On success every reading that was found is set
// through the digit filter, which clears the result. On error ScanError
// is set to ScanFallback. It returns false for stale tickets.
func (c *Calculator) FinishScan(t Ticket, r advisor.Readings, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.currentLocked(t) || c.state != StateCapturePending {
		return false
	}
	c.pending = 0
	c.settleLocked()

	if err != nil {
		c.scanError = ScanFallback
		return true
	}
	c.applyReadingLocked(itb.FieldArm, r.ArmSystolic)
	c.applyReadingLocked(itb.FieldAnkle, r.AnkleSystolic)
	return true
}

// FailCapture records a capture-side failure such as an unreadable file.
// The prompt stays open so another source can be tried.
func (c *Calculator) FailCapture(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scanError = msg
}

// State returns the current state.
func (c *Calculator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the state for rendering.
func (c *Calculator) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:           c.state,
		Reading:         c.reading,
		Explanation:     c.explanation,
		ShowExplanation: c.showExplanation,
		ScanError:       c.scanError,
		AIEnabled:       c.aiEnabled,
	}
	if c.result != nil {
		r := *c.result
		v.Result = &r
	}
	_, v.CanCompute = itb.Evaluate(c.reading)
	return v
}

// applyReadingLocked skips missing and zero values.
func (c *Calculator) applyReadingLocked(f itb.Field, v *int) {
	if v == nil || *v == 0 {
		return
	}
	c.setFieldLocked(f, strconv.Itoa(*v))
}

func (c *Calculator) issueLocked() Ticket {
	c.lastTicket++
	c.pending = c.lastTicket
	return Ticket{id: c.lastTicket, gen: c.generation}
}

func (c *Calculator) currentLocked(t Ticket) bool {
	return t.id != 0 && t.id == c.pending && t.gen == c.generation
}

func (c *Calculator) clearOutputLocked() {
	c.result = nil
	c.explanation = ""
	c.showExplanation = false
}

// settleLocked derives the resting state from the data.
func (c *Calculator) settleLocked() {
	switch {
	case c.result != nil && c.showExplanation:
		c.state = StateExplanationShown
	case c.result != nil:
		c.state = StateClassified
	default:
		if _, ok := itb.Evaluate(c.reading); ok {
			c.state = StateReady
		} else {
			c.state = StateIdle
		}
	}
}
