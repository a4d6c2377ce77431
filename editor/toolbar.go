package editor

// Tool is one toolbar button: the action it fires plus display metadata.
type Tool struct {
	Action  Action
	Label   string
	Tooltip string
}

// ToolGroup is a visually separated cluster of buttons.
type ToolGroup struct {
	Name  string
	Tools []Tool
}

// DefaultTools is the full fixed toolbar, grouped the way the edit page
// displays it.
func DefaultTools() []ToolGroup {
	return []ToolGroup{
		{
			Name: "marks",
			Tools: []Tool{
				{ActionBold, "B", "Bold (mod+B)"},
				{ActionItalic, "I", "Italic (mod+I)"},
				{ActionUnderline, "U", "Underline (mod+U)"},
				{ActionStrikethrough, "S", "Strikethrough"},
				{ActionHighlight, "H", "Highlight"},
			},
		},
		{
			Name: "blocks",
			Tools: []Tool{
				{ActionH1, "H1", "Heading 1"},
				{ActionH2, "H2", "Heading 2"},
				{ActionH3, "H3", "Heading 3"},
				{ActionQuote, "“”", "Blockquote (mod+Shift+.)"},
				{ActionCode, "</>", "Code block (mod+Shift+C)"},
			},
		},
		{
			Name: "lists",
			Tools: []Tool{
				{ActionBullet, "•", "Bulleted list"},
				{ActionNumber, "1.", "Numbered list"},
				{ActionCheck, "☑", "Checklist"},
			},
		},
		{
			Name: "inserts",
			Tools: []Tool{
				{ActionTable, "⊞", "Table"},
				{ActionLatex, "Σ", "Math (mod+Shift+L)"},
				{ActionCitation, "[1]", "Citation"},
				{ActionFootnote, "†", "Footnote"},
			},
		},
	}
}

// Rect is the selection bounding box in viewport coordinates, as reported by
// the front end.
type Rect struct {
	Top, Left, Width, Height float64
}

// Point is a computed screen position for the floating toolbar.
type Point struct {
	Top, Left float64
}

// floatingWidth is half the rendered toolbar width, used to center it over
// the selection.
const floatingWidth = 100

// FloatingToolbar is the reduced quick-format bar that follows a text
// selection: only the actions worth a one-click shortcut.
type FloatingToolbar struct {
	dispatcher *Dispatcher
}

func NewFloatingToolbar(d *Dispatcher) *FloatingToolbar {
	return &FloatingToolbar{dispatcher: d}
}

// Tools is the reduced action set shown while floating.
func (f *FloatingToolbar) Tools() []Tool {
	return []Tool{
		{ActionBold, "B", "Bold"},
		{ActionItalic, "I", "Italic"},
		{ActionHighlight, "H", "Highlight"},
	}
}

// Visible reports whether the bar should show: only over a non-collapsed
// selection.
func (f *FloatingToolbar) Visible() bool {
	return !f.dispatcher.session.Surface().Selection().Collapsed()
}

// Position anchors the bar just above the selection, horizontally centered.
func (f *FloatingToolbar) Position(sel Rect) Point {
	return Point{
		Top:  sel.Top - 40,
		Left: sel.Left + sel.Width/2 - floatingWidth,
	}
}

// Apply fires a floating action and reports whether the bar should stay
// visible afterwards.
func (f *FloatingToolbar) Apply(action Action) bool {
	f.dispatcher.Handle(action)
	return f.Visible()
}
