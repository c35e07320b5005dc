// Package preview walks a solved footprint and draws its pads and
// construction geometry to SVG or PDF.
package preview

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/chazu/footwork/pkg/footprint"
	"github.com/chazu/footwork/pkg/kernel"
	"github.com/chazu/footwork/pkg/kernel/sdfx"
	"github.com/chazu/footwork/pkg/shape"
	"github.com/chazu/footwork/pkg/units"
)

// Format selects the output encoding.
type Format int

const (
	SVG Format = iota
	PDF
)

func (f Format) String() string {
	switch f {
	case SVG:
		return "svg"
	case PDF:
		return "pdf"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat resolves "svg" or "pdf".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "svg":
		return SVG, nil
	case "pdf":
		return PDF, nil
	}
	return 0, fmt.Errorf("preview: unknown format %q", s)
}

// Options controls the drawing. Lengths are in millimeters on the page.
type Options struct {
	Margin          float64
	LineWidth       float64
	MarkerSize      float64
	PadColor        string
	ConstructionHex string
	OriginHex       string

	// Kernel computes the copper extent. Nil means the sdfx kernel.
	Kernel kernel.Kernel
}

// DefaultOptions draws KiCad-like red copper on a white page.
func DefaultOptions() Options {
	return Options{
		Margin:          1,
		LineWidth:       0.05,
		MarkerSize:      0.5,
		PadColor:        "#c83434",
		ConstructionHex: "#5a7fbf",
		OriginHex:       "#202020",
	}
}

// segment is a construction line in page millimeters.
type segment struct {
	x1, y1, x2, y2 float64
}

// scene is everything to draw, already in page millimeters.
type scene struct {
	pads  []kernel.Rect
	lines []segment
}

// collect walks the nodes in insertion order.
func collect(fp *footprint.Footprint) (scene, error) {
	var sc scene
	conv := fp.Units()
	mm := func(base float64) float64 {
		return conv.FromBase(base).To(units.Millimeter)
	}

	for _, n := range fp.Nodes() {
		switch node := n.(type) {
		case *shape.Pad:
			if !node.Built() {
				continue
			}
			sc.pads = append(sc.pads, kernel.Rect{
				X: mm(node.X()), Y: mm(node.Y()),
				W: mm(node.Width()), H: mm(node.Height()),
			})
		case *shape.ConstructionLine:
			if node.Line == nil {
				continue
			}
			u1, v1 := fp.System().UV(node.Point1)
			u2, v2 := fp.System().UV(node.Point2)
			sc.lines = append(sc.lines, segment{mm(u1), mm(v1), mm(u2), mm(v2)})
		default:
			return sc, fmt.Errorf("preview: unknown node type %T", n)
		}
	}
	return sc, nil
}

// bounds returns the region to draw: the copper extent, construction lines
// and the origin.
func (sc scene) bounds(k kernel.Kernel) (min, max [2]float64, err error) {
	var valid []kernel.Rect
	for _, r := range sc.pads {
		if r.Valid() {
			valid = append(valid, r)
		}
	}
	min, max, err = kernel.Extent(k, valid)
	if err != nil {
		return min, max, err
	}
	grow := func(x, y float64) {
		min[0], min[1] = math.Min(min[0], x), math.Min(min[1], y)
		max[0], max[1] = math.Max(max[0], x), math.Max(max[1], y)
	}
	grow(0, 0)
	for _, s := range sc.lines {
		grow(s.x1, s.y1)
		grow(s.x2, s.y2)
	}
	return min, max, nil
}

// Draw lays the footprint out on a canvas sized to fit it.
func Draw(fp *footprint.Footprint, opts Options) (*canvas.Canvas, error) {
	sc, err := collect(fp)
	if err != nil {
		return nil, err
	}
	k := opts.Kernel
	if k == nil {
		k = sdfx.New()
	}
	min, max, err := sc.bounds(k)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}

	ox, oy := min[0]-opts.Margin, min[1]-opts.Margin
	c := canvas.New(max[0]-min[0]+2*opts.Margin, max[1]-min[1]+2*opts.Margin)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianI)

	ctx.SetFillColor(canvas.Hex(opts.PadColor))
	ctx.SetStrokeColor(canvas.Transparent)
	for _, r := range sc.pads {
		if !r.Valid() {
			continue
		}
		ctx.DrawPath(r.X-r.W/2-ox, r.Y-r.H/2-oy, canvas.Rectangle(r.W, r.H))
	}

	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeWidth(opts.LineWidth)
	ctx.SetStrokeColor(canvas.Hex(opts.ConstructionHex))
	for _, s := range sc.lines {
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(s.x2-s.x1, s.y2-s.y1)
		ctx.DrawPath(s.x1-ox, s.y1-oy, p)
	}

	ctx.SetStrokeColor(canvas.Hex(opts.OriginHex))
	m := opts.MarkerSize / 2
	cross := &canvas.Path{}
	cross.MoveTo(-m, 0)
	cross.LineTo(m, 0)
	cross.MoveTo(0, -m)
	cross.LineTo(0, m)
	ctx.DrawPath(-ox, -oy, cross)

	return c, nil
}

// Render draws fp and encodes it to w.
func Render(w io.Writer, fp *footprint.Footprint, format Format, opts Options) error {
	c, err := Draw(fp, opts)
	if err != nil {
		return err
	}
	switch format {
	case SVG:
		writer := svg.New(w, c.W, c.H, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return fmt.Errorf("preview: write svg: %w", err)
		}
	case PDF:
		writer := pdf.New(w, c.W, c.H, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return fmt.Errorf("preview: write pdf: %w", err)
		}
	default:
		return fmt.Errorf("preview: unsupported format %s", format)
	}
	return nil
}
