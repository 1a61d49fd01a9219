package session

// State is the screen-level state of a calculator session.
type State int

const (
	StateIdle               State = iota // inputs incomplete
	StateReady                           // both inputs usable, no result yet
	StateClassified                      // result shown
	StateExplanationPending              // waiting on the advisor
	StateExplanationShown                // result and explanation shown
	StateCaptureOpen                     // image capture prompt open
	StateCapturePending                  // waiting on image extraction
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StateClassified:
		return "classified"
	case StateExplanationPending:
		return "explanation-pending"
	case StateExplanationShown:
		return "explanation-shown"
	case StateCaptureOpen:
		return "capture-open"
	case StateCapturePending:
		return "capture-pending"
	default:
		return "unknown"
	}
}

// Pending reports whether an advisor call is outstanding.
func (s State) Pending() bool {
	return s == StateExplanationPending || s == StateCapturePending
}

// Fixed messages shown when the advisor fails.
const (
	ExplainFallback = "Desculpe, não foi possível conectar à IA no momento."
	ScanFallback    = "Não foi possível ler os números da imagem. Tente digitar manualmente."
)
