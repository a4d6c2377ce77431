package editor

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Action is an entry of the fixed toolbar vocabulary.
type Action string

const (
	ActionBold          Action = "bold"
	ActionItalic        Action = "italic"
	ActionUnderline     Action = "underline"
	ActionStrikethrough Action = "strikethrough"
	ActionHighlight     Action = "highlight"

	ActionH1    Action = "h1"
	ActionH2    Action = "h2"
	ActionH3    Action = "h3"
	ActionQuote Action = "quote"
	ActionCode  Action = "code"

	ActionBullet Action = "bullet"
	ActionNumber Action = "number"
	ActionCheck  Action = "check"

	ActionTable    Action = "table"
	ActionLatex    Action = "latex"
	ActionCitation Action = "citation"
	ActionFootnote Action = "footnote"
)

// DefaultShortcuts maps normalized chords to actions, mirroring the classic
// editor bindings. "mod" stands for ctrl or cmd depending on platform.
func DefaultShortcuts() map[string]Action {
	return map[string]Action{
		"mod+b":       ActionBold,
		"mod+i":       ActionItalic,
		"mod+u":       ActionUnderline,
		"mod+shift+c": ActionCode,
		"mod+shift+.": ActionQuote,
		"mod+shift+l": ActionLatex,
	}
}

// A Prompter supplies user input for actions that need it (latex source,
// citation text, table size). The web and CLI front ends plug their own
// implementations; tests use canned answers.
type Prompter interface {
	Prompt(label, placeholder string) (string, bool)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(label, placeholder string) (string, bool)

func (f PrompterFunc) Prompt(label, placeholder string) (string, bool) {
	return f(label, placeholder)
}

// An ActiveQuerier answers whether a formatting state is active at the caret,
// so the toolbar can highlight buttons without reaching into the surface.
type ActiveQuerier interface {
	IsActive(action Action) bool
}

// Config wires a dispatcher. Actions not present in the table are no-ops;
// passing the table explicitly keeps the registry out of package state.
type Config struct {
	Shortcuts map[string]Action
	Prompter  Prompter
	Renderer  MathRenderer

	// TableRows / TableCols are the defaults offered by the table prompt.
	TableRows, TableCols int
}

// Dispatcher routes toolbar actions and keyboard chords to the engines and
// tracks the active-state snapshot for the toolbar.
type Dispatcher struct {
	session   *Session
	shortcuts map[string]Action
	prompter  Prompter
	renderer  MathRenderer
	actions   map[Action]func() bool

	tableRows, tableCols int

	active map[Action]bool
}

// NewDispatcher builds the action table for a session. The table covers the
// whole toolbar vocabulary: marks, blocks, lists, table, latex, citation and
// footnote.
func NewDispatcher(session *Session, cfg Config) *Dispatcher {
	d := &Dispatcher{
		session:   session,
		shortcuts: cfg.Shortcuts,
		prompter:  cfg.Prompter,
		renderer:  cfg.Renderer,
		tableRows: cfg.TableRows,
		tableCols: cfg.TableCols,
		active:    map[Action]bool{},
	}
	if d.shortcuts == nil {
		d.shortcuts = DefaultShortcuts()
	}
	if d.renderer == nil {
		d.renderer = MathML()
	}
	if d.tableRows == 0 {
		d.tableRows = 3
	}
	if d.tableCols == 0 {
		d.tableCols = 3
	}

	surface := session.Surface()
	d.actions = map[Action]func() bool{
		ActionBold:          func() bool { surface.ToggleMark("bold"); return true },
		ActionItalic:        func() bool { surface.ToggleMark("italic"); return true },
		ActionUnderline:     func() bool { surface.ToggleMark("underline"); return true },
		ActionStrikethrough: func() bool { surface.ToggleMark("strikethrough"); return true },
		ActionHighlight:     func() bool { surface.ToggleMark("highlight"); return true },

		ActionH1:    func() bool { surface.ToggleBlock("h1"); return true },
		ActionH2:    func() bool { surface.ToggleBlock("h2"); return true },
		ActionH3:    func() bool { surface.ToggleBlock("h3"); return true },
		ActionQuote: func() bool { surface.ToggleBlock("blockquote"); return true },
		ActionCode:  func() bool { surface.ToggleCodeBlock(); return true },

		ActionBullet: func() bool { surface.InsertList(false); return true },
		ActionNumber: func() bool { surface.InsertList(true); return true },
		ActionCheck:  func() bool { surface.InsertChecklist(); return true },

		ActionTable:    d.insertTable,
		ActionLatex:    d.insertLatex,
		ActionCitation: d.insertCitation,
		ActionFootnote: d.insertFootnote,
	}

	return d
}

// Handle resolves an action against the table, runs the engine call, marks
// the session dirty and recomputes the active-state snapshot. Unknown actions
// are ignored.
func (d *Dispatcher) Handle(action Action) {
	f, ok := d.actions[action]
	if !ok {
		return
	}

	if f() {
		d.session.MarkDirty()
	}
	d.refreshActive()
}

// Keystroke matches a keyboard chord against the shortcut table. Unrecognized
// chords are a no-op and report false.
func (d *Dispatcher) Keystroke(chord string) bool {
	action, ok := d.shortcuts[NormalizeChord(chord)]
	if !ok {
		return false
	}
	d.Handle(action)
	return true
}

// NormalizeChord lowercases a chord and folds platform modifiers: ctrl and
// cmd/meta both normalize to "mod", and modifier order is fixed to
// mod, shift, key.
func NormalizeChord(chord string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(chord)), "+")

	var mod, shift bool
	var keys []string
	for _, p := range parts {
		switch p {
		case "mod", "ctrl", "control", "cmd", "meta":
			mod = true
		case "shift":
			shift = true
		case "":
			// "+" itself as the key
			keys = append(keys, "+")
		default:
			keys = append(keys, p)
		}
	}

	var out []string
	if mod {
		out = append(out, "mod")
	}
	if shift {
		out = append(out, "shift")
	}
	out = append(out, keys...)
	return strings.Join(out, "+")
}

// IsActive implements ActiveQuerier from the last computed snapshot.
func (d *Dispatcher) IsActive(action Action) bool { return d.active[action] }

// refreshActive recomputes which formatting states hold at the caret.
func (d *Dispatcher) refreshActive() {
	surface := d.session.Surface()
	anchor := surface.Selection().Anchor
	root := surface.Root()

	d.active = map[Action]bool{
		ActionBold:          surface.MarkActive("bold"),
		ActionItalic:        surface.MarkActive("italic"),
		ActionUnderline:     surface.MarkActive("underline"),
		ActionStrikethrough: surface.MarkActive("strikethrough"),
		ActionHighlight:     surface.MarkActive("highlight"),
	}
	if anchor != nil {
		d.active[ActionH1] = FindAncestor(anchor, tagIs("h1"), root) != nil
		d.active[ActionH2] = FindAncestor(anchor, tagIs("h2"), root) != nil
		d.active[ActionH3] = FindAncestor(anchor, tagIs("h3"), root) != nil
		d.active[ActionQuote] = FindAncestor(anchor, tagIs("blockquote"), root) != nil
		d.active[ActionCode] = FindAncestor(anchor, tagIs("pre"), root) != nil
		d.active[ActionBullet] = FindAncestor(anchor, tagIs("ul"), root) != nil
		d.active[ActionNumber] = FindAncestor(anchor, tagIs("ol"), root) != nil
	}
}

func (d *Dispatcher) insertTable() bool {
	rows, cols := d.tableRows, d.tableCols
	if d.prompter != nil {
		if v, ok := d.prompter.Prompt("Number of rows:", "3"); ok {
			rows = atoiDefault(v, d.tableRows)
		} else {
			return false
		}
		if v, ok := d.prompter.Prompt("Number of columns:", "3"); ok {
			cols = atoiDefault(v, d.tableCols)
		} else {
			return false
		}
	}
	d.session.Surface().InsertTable(rows, cols)
	return true
}

func (d *Dispatcher) insertLatex() bool {
	src := `\sum_{n=1}^\infty`
	if d.prompter != nil {
		v, ok := d.prompter.Prompt("Enter LaTeX expression:", src)
		if !ok || v == "" {
			return false
		}
		src = v
	}

	marker := d.session.Surface().InsertMath(src)
	d.session.Lists().AppendLatex(src)
	RenderMath(marker, d.renderer)
	return true
}

func (d *Dispatcher) insertCitation() bool {
	text := ""
	if d.prompter != nil {
		v, ok := d.prompter.Prompt("Enter citation details:", "Author, Year")
		if !ok || v == "" {
			return false
		}
		text = v
	}

	index := d.session.Lists().AppendCitation(text)
	d.session.Surface().InsertNodes(refMarker("citation", index))
	return true
}

func (d *Dispatcher) insertFootnote() bool {
	text := ""
	if d.prompter != nil {
		v, ok := d.prompter.Prompt("Enter footnote text:", "")
		if !ok || v == "" {
			return false
		}
		text = v
	}

	index := d.session.Lists().AppendFootnote(text)
	d.session.Surface().InsertNodes(refMarker("footnote-ref", index))
	return true
}

// refMarker builds the superscript side-list reference, e.g. [2].
func refMarker(class string, index int) *html.Node {
	sup := newElement("sup")
	setAttr(sup, "class", class)
	setAttr(sup, "data-index", strconv.Itoa(index))
	sup.AppendChild(newText("[" + strconv.Itoa(index) + "]"))
	return sup
}

func atoiDefault(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
