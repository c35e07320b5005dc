package engine

import (
	"fmt"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/google/uuid"

	"github.com/chazu/footwork/pkg/footprint"
	"github.com/chazu/footwork/pkg/shape"
	"github.com/chazu/footwork/pkg/sketch"
	"github.com/chazu/footwork/pkg/units"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms footwork Lisp source before passing it to
// zygomys. It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     so builtins can tell keywords from positional arguments without
//     registering them as globals.
//
//  2. Kebab-case to underscore: construction-line -> construction_line
//     zygomys reads a hyphen inside an identifier as subtraction.
//
//  3. Line comments: ; and ;; become //, which is what zygomys expects.
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only a hyphen between identifier characters is kebab-case; a
		// leading minus is an operator or a negative literal.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNode wraps a node added to the footprint.
type sexpNode struct {
	node shape.Node
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	switch n.node.(type) {
	case *shape.Pad:
		return fmt.Sprintf("(pad %q)", n.node.NodeID())
	case *shape.ConstructionLine:
		return fmt.Sprintf("(construction-line %q)", n.node.NodeID())
	}
	return fmt.Sprintf("(node %q)", n.node.NodeID())
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// sexpPoint wraps a 2D point.
type sexpPoint struct {
	point *sketch.Point2d
	label string
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %s)", p.label)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpLine wraps a 2D line segment.
type sexpLine struct {
	line  *sketch.LineSegment2d
	label string
}

func (l *sexpLine) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(line %s)", l.label)
}
func (l *sexpLine) Type() *zygo.RegisteredType { return nil }

// sexpConstraint wraps a constraint so scripts can hold on to it.
type sexpConstraint struct {
	c *sketch.Constraint
}

func (c *sexpConstraint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(constraint %s)", c.c)
}
func (c *sexpConstraint) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// keyword followed by another keyword, or by nothing, is a flag.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			if _, next := isKW(args[i+1]); !next {
				result.kw[name] = args[i+1]
				i += 2
				continue
			}
		}
		result.kw[name] = zygo.SexpNull
		i++
	}
	return result
}

// allowOnly rejects keywords a builtin does not understand.
func (a kwArgs) allowOnly(fn string, names ...string) error {
	for k := range a.kw {
		known := false
		for _, n := range names {
			if k == n {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%s: unknown keyword :%s", fn, k)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toQuantity reads a length: a bare number is in the display unit, a
// string such as "1.27mm" or "50mil" carries its own unit.
func toQuantity(s zygo.Sexp) (units.Quantity, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return units.ParseQuantity(str.S, units.UnitNone)
	}
	v, err := toFloat64(s)
	if err != nil {
		return units.Quantity{}, err
	}
	return units.Quantity{Value: v}, nil
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toLabel reads a pin number or node name, which may be written as a
// string or an integer.
func toLabel(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *zygo.SexpStr:
		return v.S, nil
	case *zygo.SexpInt:
		return strconv.FormatInt(v.Val, 10), nil
	}
	return "", fmt.Errorf("expected string or integer, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_top) and plain strings ("top").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toPoint extracts a point from a sexpPoint.
func toPoint(s zygo.Sexp) (*sketch.Point2d, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.point, nil
	}
	return nil, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// toLine extracts a line from a sexpLine, or the line of a construction
// line node.
func toLine(s zygo.Sexp) (*sketch.LineSegment2d, error) {
	switch v := s.(type) {
	case *sexpLine:
		return v.line, nil
	case *sexpNode:
		if cl, ok := v.node.(*shape.ConstructionLine); ok {
			return cl.Line, nil
		}
	}
	return nil, fmt.Errorf("expected line, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Evaluation session
// ---------------------------------------------------------------------------

// session is the state shared by the builtins of one evaluation. The
// footprint is created on first use so that (footprint "name") can still
// name it.
type session struct {
	cfg  footprint.Config
	name string
	fp   *footprint.Footprint
}

func (s *session) footprint() (*footprint.Footprint, error) {
	if s.fp != nil {
		return s.fp, nil
	}
	fp, err := footprint.New(s.name, s.cfg)
	if err != nil {
		return nil, err
	}
	s.fp = fp
	return fp, nil
}

// toNode resolves a node reference or a node id.
func (s *session) toNode(x zygo.Sexp) (shape.Node, error) {
	if n, ok := x.(*sexpNode); ok {
		return n.node, nil
	}
	id, err := toLabel(x)
	if err != nil {
		return nil, fmt.Errorf("expected node reference: %w", err)
	}
	fp, err := s.footprint()
	if err != nil {
		return nil, err
	}
	n, ok := fp.Node(id)
	if !ok {
		return nil, fmt.Errorf("no node named %q", id)
	}
	return n, nil
}

// padPoint maps point names to a pad's points.
func padPoint(p *shape.Pad, name string) (*sketch.Point2d, bool) {
	switch name {
	case "center":
		return p.PointCenter, true
	case "top-right", "p1", "1":
		return p.Point1, true
	case "top-left", "p2", "2":
		return p.Point2, true
	case "bottom-left", "p3", "3":
		return p.Point3, true
	case "bottom-right", "p4", "4":
		return p.Point4, true
	}
	return nil, false
}

func padLine(p *shape.Pad, name string) (*sketch.LineSegment2d, bool) {
	switch name {
	case "top":
		return p.LineTop, true
	case "left":
		return p.LineLeft, true
	case "bottom":
		return p.LineBottom, true
	case "right":
		return p.LineRight, true
	case "diagonal":
		return p.LineDiagonal, true
	}
	return nil, false
}

// pointFirst puts a point operand ahead of a line operand, so that
// (midpoint line p) and (on line p) read the same as their usual order.
// Two points keep their order.
func pointFirst(args []zygo.Sexp) []zygo.Sexp {
	if _, isPoint := args[0].(*sexpPoint); isPoint {
		return args
	}
	if _, isPoint := args[1].(*sexpPoint); isPoint {
		return []zygo.Sexp{args[1], args[0]}
	}
	return args
}

// constraint wraps the result of a footprint constraint helper.
func constraint(fn string, c *sketch.Constraint, err error) (zygo.Sexp, error) {
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	return &sexpConstraint{c: c}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the footprint DSL into a zygomys environment.
// The builtins add nodes and constraints to the session's footprint.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *session) {

	// -----------------------------------------------------------------------
	// (footprint "R_0805")
	// -----------------------------------------------------------------------
	env.AddFunction("footprint", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("footprint requires exactly one name argument")
		}
		fpName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("footprint: name: %w", err)
		}
		if s.fp != nil {
			return zygo.SexpNull, fmt.Errorf("footprint: must come before any pad or constraint")
		}
		s.name = fpName
		if _, err := s.footprint(); err != nil {
			return zygo.SexpNull, fmt.Errorf("footprint: %w", err)
		}
		return &zygo.SexpStr{S: fpName}, nil
	})

	// -----------------------------------------------------------------------
	// (pad "1" :pin 1 :x -1 :y 0 :width 1 :height "1.3mm")
	// -----------------------------------------------------------------------
	env.AddFunction("pad", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.allowOnly("pad", "pin", "x", "y", "width", "height"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("pad requires an id argument")
		}
		id, err := toLabel(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pad: id: %w", err)
		}

		p := shape.NewPad(id, id)
		if v, ok := pa.kw["pin"]; ok {
			pin, err := toLabel(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pad: pin: %w", err)
			}
			p.Pin = pin
		}
		nominals := []struct {
			kw  string
			dst **units.Quantity
		}{
			{"x", &p.NominalX},
			{"y", &p.NominalY},
			{"width", &p.NominalWidth},
			{"height", &p.NominalHeight},
		}
		for _, n := range nominals {
			v, ok := pa.kw[n.kw]
			if !ok {
				continue
			}
			q, err := toQuantity(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pad: %s: %w", n.kw, err)
			}
			*n.dst = shape.Nominal(q)
		}

		fp, err := s.footprint()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pad: %w", err)
		}
		if err := fp.AddNode(p); err != nil {
			return zygo.SexpNull, fmt.Errorf("pad: %w", err)
		}
		return &sexpNode{node: p}, nil
	})

	// -----------------------------------------------------------------------
	// (construction-line (point "1" :center) (point "2" :center) :id "axis")
	// -----------------------------------------------------------------------
	env.AddFunction("construction_line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.allowOnly("construction-line", "id"); err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("construction-line requires two points")
		}
		a, err := toPoint(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("construction-line: start: %w", err)
		}
		b, err := toPoint(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("construction-line: end: %w", err)
		}
		id := "cl-" + uuid.NewString()[:8]
		if v, ok := pa.kw["id"]; ok {
			if id, err = toLabel(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("construction-line: id: %w", err)
			}
		}

		fp, err := s.footprint()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("construction-line: %w", err)
		}
		cl := shape.NewConstructionLine(id, a, b)
		if err := fp.AddNode(cl); err != nil {
			return zygo.SexpNull, fmt.Errorf("construction-line: %w", err)
		}
		return &sexpNode{node: cl}, nil
	})

	// -----------------------------------------------------------------------
	// (origin)
	// -----------------------------------------------------------------------
	env.AddFunction("origin", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("origin takes no arguments")
		}
		fp, err := s.footprint()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("origin: %w", err)
		}
		return &sexpPoint{point: fp.Origin(), label: "origin"}, nil
	})

	// -----------------------------------------------------------------------
	// (point "1" :center)   (point pad1 :top-right)   (point "axis" :end)
	// -----------------------------------------------------------------------
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("point requires a node and a point name")
		}
		n, err := s.toNode(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: %w", err)
		}
		which, err := toLabel(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: %w", err)
		}
		which = strings.TrimPrefix(which, kwPrefix)

		var pt *sketch.Point2d
		found := false
		switch node := n.(type) {
		case *shape.Pad:
			pt, found = padPoint(node, which)
		case *shape.ConstructionLine:
			switch which {
			case "start":
				pt, found = node.Point1, true
			case "end":
				pt, found = node.Point2, true
			}
		}
		if !found {
			return zygo.SexpNull, fmt.Errorf("point: %s has no point %q", n.NodeID(), which)
		}
		return &sexpPoint{point: pt, label: n.NodeID() + "." + which}, nil
	})

	// -----------------------------------------------------------------------
	// (line "1" :top)   (line "axis")
	// -----------------------------------------------------------------------
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 || len(args) > 2 {
			return zygo.SexpNull, fmt.Errorf("line requires a node and, for pads, a side")
		}
		n, err := s.toNode(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: %w", err)
		}
		switch node := n.(type) {
		case *shape.ConstructionLine:
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("line: construction line %s has no sides", node.NodeID())
			}
			return &sexpLine{line: node.Line, label: node.NodeID()}, nil
		case *shape.Pad:
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("line: pad %s needs a side", node.NodeID())
			}
			side, err := toKeywordString(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("line: side: %w", err)
			}
			l, ok := padLine(node, side)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("line: invalid side %q, expected top/left/bottom/right/diagonal", side)
			}
			return &sexpLine{line: l, label: node.NodeID() + "." + side}, nil
		}
		return zygo.SexpNull, fmt.Errorf("line: %s has no lines", n.NodeID())
	})

	// -----------------------------------------------------------------------
	// (distance 50 (line "1" :top))   (distance "0.9mm" p1 p2)
	// -----------------------------------------------------------------------
	env.AddFunction("distance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 && len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("distance requires a value and a line or two points")
		}
		d, err := toQuantity(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("distance: value: %w", err)
		}
		fp, err := s.footprint()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("distance: %w", err)
		}
		if len(args) == 2 {
			l, err := toLine(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("distance: %w", err)
			}
			c, err := fp.Distance(d, sketch.LineHandle(l))
			return constraint("distance", c, err)
		}
		a, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("distance: %w", err)
		}
		b, err := toPoint(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("distance: %w", err)
		}
		c, err := fp.Distance(d, sketch.PointPair(a, b))
		return constraint("distance", c, err)
	})

	// -----------------------------------------------------------------------
	// (equal l1 l2)
	// -----------------------------------------------------------------------
	env.AddFunction("equal", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("equal requires two lines")
		}
		a, err := toLine(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("equal: %w", err)
		}
		b, err := toLine(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("equal: %w", err)
		}
		fp, err := s.footprint()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("equal: %w", err)
		}
		c, err := fp.Equal(a, b)
		return constraint("equal", c, err)
	})

	// -----------------------------------------------------------------------
	// (horizontal l)   (vertical l)
	// -----------------------------------------------------------------------
	for _, fn := range []string{"horizontal", "vertical"} {
		fn := fn
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires one line", fn)
			}
			l, err := toLine(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			fp, err := s.footprint()
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
			}
			if fn == "horizontal" {
				c, err := fp.Horizontal(l)
				return constraint(fn, c, err)
			}
			c, err := fp.Vertical(l)
			return constraint(fn, c, err)
		})
	}

	// -----------------------------------------------------------------------
	// (midpoint (origin) (line "axis"))   (midpoint (line "axis") (origin))
	// -----------------------------------------------------------------------
	env.AddFunction("midpoint", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("midpoint requires a point and a line")
		}
		args = pointFirst(args)
		p, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("midpoint: %w", err)
		}
		l, err := toLine(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("midpoint: %w", err)
		}
		fp, err := s.footprint()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("midpoint: %w", err)
		}
		c, err := fp.Midpoint(p, l)
		return constraint("midpoint", c, err)
	})

	// -----------------------------------------------------------------------
	// (on p (origin))   (on p (line "axis"))   (on (line "axis") p)
	// -----------------------------------------------------------------------
	env.AddFunction("on", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("on requires a point and a point or line")
		}
		args = pointFirst(args)
		p, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("on: %w", err)
		}
		var target sketch.Target
		switch t := args[1].(type) {
		case *sexpPoint:
			target = sketch.AtPoint(t.point)
		default:
			l, err := toLine(t)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("on: target: %w", err)
			}
			target = sketch.OnLine(l)
		}
		fp, err := s.footprint()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("on: %w", err)
		}
		c, err := fp.On(p, target)
		return constraint("on", c, err)
	})
}
