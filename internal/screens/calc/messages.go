package calc

import (
	"time"

	"github.com/abhisek/calcitb/internal/advisor"
	sess "github.com/abhisek/calcitb/internal/session"
)

// explainDoneMsg carries the advisor's answer for an explain ticket.
type explainDoneMsg struct {
	Ticket sess.Ticket
	Text   string
	Err    error
}

// scanDoneMsg carries the readings extracted for a scan ticket.
type scanDoneMsg struct {
	Ticket   sess.Ticket
	Readings advisor.Readings
	Err      error
}

// spinnerTickMsg is sent at short intervals to animate the loading spinner.
type spinnerTickMsg time.Time
