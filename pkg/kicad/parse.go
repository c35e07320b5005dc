package kicad

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	sexpLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
		{Name: "Paren", Pattern: `[()]`},
		{Name: "Atom", Pattern: `[^\s()"]+`},
	})

	sexpParser = participle.MustBuild[Expr](
		participle.Lexer(sexpLexer),
		participle.Elide("Whitespace"),
	)
)

// Expr is a generic s-expression: an atom, a quoted string or a list.
type Expr struct {
	Pos    lexer.Position `parser:""`
	Str    *string        `parser:"  @String"`
	Atom   *string        `parser:"| @Atom"`
	IsList bool           `parser:"| @'('"`
	Items  []*Expr        `parser:"  @@* ')'"`
}

// Text returns the value of an atom or string; lists yield "".
func (e *Expr) Text() string {
	switch {
	case e == nil:
		return ""
	case e.Atom != nil:
		return *e.Atom
	case e.Str != nil:
		if s, err := strconv.Unquote(*e.Str); err == nil {
			return s
		}
		return *e.Str
	}
	return ""
}

// Head is the leading atom of a list.
func (e *Expr) Head() string {
	if e == nil || !e.IsList || len(e.Items) == 0 {
		return ""
	}
	return e.Items[0].Text()
}

// Find returns the first child list whose head is name.
func (e *Expr) Find(name string) *Expr {
	for _, it := range e.Items {
		if it.IsList && it.Head() == name {
			return it
		}
	}
	return nil
}

// Module is a parsed footprint.
type Module struct {
	Name  string    `json:"name" yaml:"name"`
	Layer string    `json:"layer" yaml:"layer"`
	Tedit time.Time `json:"tedit" yaml:"tedit"`
	Pads  []Pad     `json:"pads" yaml:"pads"`
}

// Parse reads a module from r.
func Parse(r io.Reader) (*Module, error) {
	root, err := sexpParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("kicad: %w", err)
	}
	return moduleFromExpr(root)
}

// ParseString reads a module from s.
func ParseString(s string) (*Module, error) {
	root, err := sexpParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("kicad: %w", err)
	}
	return moduleFromExpr(root)
}

func moduleFromExpr(root *Expr) (*Module, error) {
	if head := root.Head(); head != "module" && head != "footprint" {
		return nil, fmt.Errorf("kicad: expected (module ...), got %q at %s", head, root.Pos)
	}
	if len(root.Items) < 2 || root.Items[1].IsList {
		return nil, fmt.Errorf("kicad: module without a name at %s", root.Pos)
	}
	m := &Module{Name: root.Items[1].Text()}

	if l := root.Find("layer"); l != nil && len(l.Items) > 1 {
		m.Layer = l.Items[1].Text()
	}
	if te := root.Find("tedit"); te != nil && len(te.Items) > 1 {
		t, err := ParseTimestamp(te.Items[1].Text())
		if err != nil {
			return nil, err
		}
		m.Tedit = t
	}

	for _, it := range root.Items[2:] {
		if !it.IsList || it.Head() != "pad" {
			continue
		}
		p, err := padFromExpr(it)
		if err != nil {
			return nil, err
		}
		m.Pads = append(m.Pads, p)
	}
	return m, nil
}

func padFromExpr(e *Expr) (Pad, error) {
	if len(e.Items) < 2 {
		return Pad{}, fmt.Errorf("kicad: pad without a pin at %s", e.Pos)
	}
	p := Pad{Pin: e.Items[1].Text()}

	pair := func(name string) (float64, float64, error) {
		l := e.Find(name)
		if l == nil || len(l.Items) < 3 {
			return 0, 0, fmt.Errorf("kicad: pad %s: missing (%s x y) at %s", p.Pin, name, e.Pos)
		}
		a, err := strconv.ParseFloat(l.Items[1].Text(), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("kicad: pad %s: %s: %w", p.Pin, name, err)
		}
		b, err := strconv.ParseFloat(l.Items[2].Text(), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("kicad: pad %s: %s: %w", p.Pin, name, err)
		}
		return a, b, nil
	}

	var err error
	if p.X, p.Y, err = pair("at"); err != nil {
		return Pad{}, err
	}
	if p.Width, p.Height, err = pair("size"); err != nil {
		return Pad{}, err
	}
	return p, nil
}
