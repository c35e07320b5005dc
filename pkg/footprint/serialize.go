package footprint

import (
	"io"
	"strings"
	"time"

	"github.com/chazu/footwork/pkg/kicad"
)

// Tedit returns the timestamp written into the module header.
func (f *Footprint) Tedit() time.Time { return f.tedit }

// Serialize prints the footprint as a KiCad module: the header, one indented
// record per node that renders one, and the closing paren. It reads the
// current parameter values whether or not the last solve succeeded; check
// Status first.
func (f *Footprint) Serialize() string {
	var b strings.Builder
	b.WriteString(kicad.Header(f.name, f.tedit))
	b.WriteByte('\n')
	for _, n := range f.nodes {
		rec := n.Serialize()
		if rec == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(rec)
		b.WriteByte('\n')
	}
	b.WriteString(kicad.Footer)
	b.WriteByte('\n')
	return b.String()
}

// WriteTo writes Serialize's output to w.
func (f *Footprint) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, f.Serialize())
	return int64(n), err
}

// Records returns the pad records in display units, in insertion order.
func (f *Footprint) Records() []kicad.Pad {
	pads := f.Pads()
	out := make([]kicad.Pad, 0, len(pads))
	for _, p := range pads {
		out = append(out, p.Record())
	}
	return out
}
