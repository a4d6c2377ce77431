package editor

import (
	"fmt"
	"html"
	"strings"
	"unicode"
)

// MathML renders a pragmatic LaTeX subset (scripts, fractions, square roots,
// common symbols) to inline MathML. It covers what club journals actually use;
// anything it cannot parse errors out and the caller falls back to the raw
// source. See DESIGN.md for why this is not delegated to a library.
func MathML() MathRenderer {
	return RendererFunc(renderMathML)
}

var mathSymbols = map[string]string{
	"sum": "∑", "prod": "∏", "int": "∫", "infty": "∞",
	"pm": "±", "times": "×", "div": "÷", "cdot": "⋅",
	"leq": "≤", "geq": "≥", "neq": "≠", "approx": "≈",
	"rightarrow": "→", "leftarrow": "←", "partial": "∂", "nabla": "∇",
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ",
	"epsilon": "ε", "theta": "θ", "lambda": "λ", "mu": "μ",
	"pi": "π", "sigma": "σ", "phi": "φ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ",
	"Pi": "Π", "Sigma": "Σ", "Phi": "Φ", "Omega": "Ω",
}

func renderMathML(src string) (string, error) {
	p := &mathParser{src: src}
	body, err := p.parseRow(0)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(`<math xmlns="http://www.w3.org/1998/Math/MathML"><mrow>`)
	b.WriteString(body)
	b.WriteString(`</mrow></math>`)
	return b.String(), nil
}

type mathParser struct {
	src string
	pos int
}

func (p *mathParser) eof() bool { return p.pos >= len(p.src) }

func (p *mathParser) peek() byte { return p.src[p.pos] }

// parseRow parses atoms until end of input or a closing brace (depth > 0).
func (p *mathParser) parseRow(depth int) (string, error) {
	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		if c == '}' {
			if depth == 0 {
				return "", fmt.Errorf("unbalanced brace at %d", p.pos)
			}
			return b.String(), nil
		}

		atom, err := p.parseAtom(depth)
		if err != nil {
			return "", err
		}
		b.WriteString(atom)
	}

	if depth > 0 {
		return "", fmt.Errorf("missing closing brace")
	}
	return b.String(), nil
}

func (p *mathParser) parseAtom(depth int) (string, error) {
	base, err := p.parseBase(depth)
	if err != nil {
		return "", err
	}

	// Attach scripts, tightest binding last wins the msubsup form.
	var sub, sup string
	for !p.eof() && (p.peek() == '^' || p.peek() == '_') {
		op := p.peek()
		p.pos++
		script, err := p.parseGroup(depth)
		if err != nil {
			return "", err
		}
		if op == '^' {
			sup = script
		} else {
			sub = script
		}
	}

	switch {
	case sub != "" && sup != "":
		return "<msubsup>" + base + "<mrow>" + sub + "</mrow><mrow>" + sup + "</mrow></msubsup>", nil
	case sup != "":
		return "<msup>" + base + "<mrow>" + sup + "</mrow></msup>", nil
	case sub != "":
		return "<msub>" + base + "<mrow>" + sub + "</mrow></msub>", nil
	default:
		return base, nil
	}
}

// parseGroup parses either a braced group or a single atom base.
func (p *mathParser) parseGroup(depth int) (string, error) {
	if p.eof() {
		return "", fmt.Errorf("unexpected end of input")
	}
	if p.peek() == '{' {
		p.pos++
		row, err := p.parseRow(depth + 1)
		if err != nil {
			return "", err
		}
		if p.eof() || p.peek() != '}' {
			return "", fmt.Errorf("missing closing brace")
		}
		p.pos++
		return row, nil
	}
	return p.parseBase(depth)
}

func (p *mathParser) parseBase(depth int) (string, error) {
	c := p.peek()
	switch {
	case c == '{':
		row, err := p.parseGroup(depth)
		if err != nil {
			return "", err
		}
		return "<mrow>" + row + "</mrow>", nil

	case c == '\\':
		return p.parseCommand(depth)

	case unicode.IsDigit(rune(c)):
		start := p.pos
		for !p.eof() && (unicode.IsDigit(rune(p.peek())) || p.peek() == '.') {
			p.pos++
		}
		return "<mn>" + p.src[start:p.pos] + "</mn>", nil

	case unicode.IsLetter(rune(c)):
		p.pos++
		return "<mi>" + string(c) + "</mi>", nil

	case c == ' ' || c == '\t' || c == '\n':
		p.pos++
		return "", nil

	case c == '^' || c == '_' || c == '}':
		return "", fmt.Errorf("unexpected %q at %d", c, p.pos)

	default:
		p.pos++
		return "<mo>" + html.EscapeString(string(c)) + "</mo>", nil
	}
}

func (p *mathParser) parseCommand(depth int) (string, error) {
	p.pos++ // consume the backslash
	start := p.pos
	for !p.eof() && unicode.IsLetter(rune(p.peek())) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		if p.eof() {
			return "", fmt.Errorf("dangling backslash")
		}
		// escaped single character
		c := p.peek()
		p.pos++
		return "<mo>" + html.EscapeString(string(c)) + "</mo>", nil
	}

	switch name {
	case "frac":
		num, err := p.parseGroup(depth)
		if err != nil {
			return "", err
		}
		den, err := p.parseGroup(depth)
		if err != nil {
			return "", err
		}
		return "<mfrac><mrow>" + num + "</mrow><mrow>" + den + "</mrow></mfrac>", nil

	case "sqrt":
		arg, err := p.parseGroup(depth)
		if err != nil {
			return "", err
		}
		return "<msqrt><mrow>" + arg + "</mrow></msqrt>", nil

	case "left", "right":
		// delimiters render as plain operators
		if p.eof() {
			return "", fmt.Errorf("missing delimiter after \\%s", name)
		}
		c := p.peek()
		p.pos++
		return "<mo>" + html.EscapeString(string(c)) + "</mo>", nil
	}

	if sym, ok := mathSymbols[name]; ok {
		return "<mo>" + sym + "</mo>", nil
	}

	return "", fmt.Errorf("unknown command \\%s", name)
}
