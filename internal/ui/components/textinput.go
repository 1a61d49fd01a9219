package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/calcitb/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label, a unit suffix and an
// optional digits-only key filter.
type TextInput struct {
	Model       textinput.Model
	Label       string
	Unit        string
	NumericOnly bool
	MaxWidth    int
}

// NewTextInput creates a new styled text input. It starts blurred.
func NewTextInput(label, placeholder string, numericOnly bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{
		Model:       ti,
		Label:       label,
		NumericOnly: numericOnly,
		MaxWidth:    maxWidth,
	}
}

// Focus gives the input keyboard focus.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages. With NumericOnly, printable non-digit keys are
// swallowed before they reach the model.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyPressMsg); ok {
			for _, r := range kmsg.Text {
				if r < '0' || r > '9' {
					return t, nil
				}
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label above a bordered field.
func (t TextInput) View(width int) string {
	field := t.Model.View()
	if t.Unit != "" {
		gap := max(width-4-lipgloss.Width(field)-lipgloss.Width(t.Unit), 1)
		field += lipgloss.NewStyle().Width(gap).Render("") + theme.Unit.Render(t.Unit)
	}

	box := theme.Blurred
	if t.Focused() {
		box = theme.Focused
	}

	label := theme.Label.Render(t.Label)
	return label + "\n" + box.Width(width).Render(field)
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value and moves the cursor to the end.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
	t.Model.CursorEnd()
}
