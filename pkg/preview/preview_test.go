package preview

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/footwork/pkg/footprint"
	"github.com/chazu/footwork/pkg/shape"
	"github.com/chazu/footwork/pkg/sketch"
	"github.com/chazu/footwork/pkg/units"
)

func quietConfig() footprint.Config {
	cfg := footprint.DefaultConfig()
	cfg.Timestamp = time.Unix(0, 0)
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return cfg
}

// twoPads solves two 50x40 pads whose facing corners are 37 apart, so the
// copper spans -68.5..68.5 by -20..20 in the display unit.
func twoPads(t *testing.T, cfg footprint.Config) *footprint.Footprint {
	t.Helper()
	fp, err := footprint.New("preview", cfg)
	require.NoError(t, err)

	check := func(_ *sketch.Constraint, err error) {
		t.Helper()
		require.NoError(t, err)
	}
	a := shape.NewPad("1", "1")
	a.NominalX = shape.Nominal(units.Quantity{Value: -10})
	b := shape.NewPad("2", "2")
	b.NominalX = shape.Nominal(units.Quantity{Value: 10})
	require.NoError(t, fp.AddNode(a))
	require.NoError(t, fp.AddNode(b))

	check(fp.Distance(units.Quantity{Value: 50}, sketch.LineHandle(a.LineTop)))
	check(fp.Distance(units.Quantity{Value: 40}, sketch.LineHandle(a.LineRight)))
	check(fp.Equal(a.LineTop, b.LineTop))
	check(fp.Equal(a.LineRight, b.LineRight))
	check(fp.Distance(units.Quantity{Value: 37}, sketch.PointPair(a.Point1, b.Point2)))

	axis := shape.NewConstructionLine("axis", a.PointCenter, b.PointCenter)
	require.NoError(t, fp.AddNode(axis))
	check(fp.Horizontal(axis.Line))
	check(fp.Midpoint(fp.Origin(), axis.Line))

	res := fp.Solve()
	require.True(t, res.OK(), "solve: %s", res.Status)
	return fp
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" SVG ")
	require.NoError(t, err)
	assert.Equal(t, SVG, f)

	f, err = ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, PDF, f)
	assert.Equal(t, "pdf", f.String())

	_, err = ParseFormat("png")
	assert.Error(t, err)
}

func TestDrawFitsCopper(t *testing.T) {
	c, err := Draw(twoPads(t, quietConfig()), DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 137+2, c.W, 1e-6)
	assert.InDelta(t, 40+2, c.H, 1e-6)
}

func TestDrawScalesToMillimeters(t *testing.T) {
	cfg := quietConfig()
	cfg.DisplayUnit = units.Mil
	cfg.BaseUnit = units.Nanometer
	opts := DefaultOptions()
	opts.Margin = 0

	c, err := Draw(twoPads(t, cfg), opts)
	require.NoError(t, err)
	assert.InDelta(t, 137*0.0254, c.W, 1e-6)
	assert.InDelta(t, 40*0.0254, c.H, 1e-6)
}

func TestDrawEmptyFootprint(t *testing.T) {
	fp, err := footprint.New("empty", quietConfig())
	require.NoError(t, err)

	c, err := Draw(fp, DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 2, c.W, 1e-9)
	assert.InDelta(t, 2, c.H, 1e-9)
}

// marker is a node preview does not know how to draw.
type marker struct {
	shape.NodeBase
}

func (m *marker) Build() error      { return nil }
func (m *marker) Serialize() string { return "" }

func TestDrawUnknownNode(t *testing.T) {
	fp, err := footprint.New("odd", quietConfig())
	require.NoError(t, err)
	require.NoError(t, fp.AddNode(&marker{NodeBase: shape.NodeBase{ID: "m"}}))

	_, err = Draw(fp, DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node type")
}

func TestRender(t *testing.T) {
	fp := twoPads(t, quietConfig())

	var svgOut bytes.Buffer
	require.NoError(t, Render(&svgOut, fp, SVG, DefaultOptions()))
	assert.Contains(t, svgOut.String(), "<svg")
	assert.Contains(t, svgOut.String(), "<path")

	var pdfOut bytes.Buffer
	require.NoError(t, Render(&pdfOut, fp, PDF, DefaultOptions()))
	assert.True(t, strings.HasPrefix(pdfOut.String(), "%PDF"), "missing PDF header")

	assert.Error(t, Render(io.Discard, fp, Format(7), DefaultOptions()))
}
