package footprint_test

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chazu/footwork/pkg/footprint"
	"github.com/chazu/footwork/pkg/shape"
	"github.com/chazu/footwork/pkg/sketch"
	"github.com/chazu/footwork/pkg/units"
)

func Example() {
	cfg := footprint.DefaultConfig()
	cfg.Timestamp = time.Unix(0x60000000, 0)
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	fp, err := footprint.New("R_0805", cfg)
	if err != nil {
		panic(err)
	}

	left := shape.NewPad("left", "1")
	left.NominalX = shape.Nominal(units.MM(-1))
	right := shape.NewPad("right", "2")
	for _, p := range []*shape.Pad{left, right} {
		if err := fp.AddNode(p); err != nil {
			panic(err)
		}
	}

	fp.Distance(units.MM(1), sketch.LineHandle(left.LineTop))
	fp.Distance(units.MM(1.3), sketch.LineHandle(left.LineRight))
	fp.Equal(left.LineTop, right.LineTop)
	fp.Equal(left.LineRight, right.LineRight)
	fp.Distance(units.MM(0.9), sketch.PointPair(left.Point1, right.Point2))

	axis := shape.NewConstructionLine("axis", left.PointCenter, right.PointCenter)
	if err := fp.AddNode(axis); err != nil {
		panic(err)
	}
	fp.Horizontal(axis.Line)
	fp.Midpoint(fp.Origin(), axis.Line)

	res := fp.Solve()
	fmt.Println(res.Status, res.DOF)
	fmt.Println(left)
	fp.WriteTo(os.Stdout)

	// Output:
	// solved 0
	// Rectangular pad 1 at <-0.950, +0.000> mm, w= 1.000 mm, h= 1.300 mm
	// (module R_0805 (layer F.Cu) (tedit 60000000)
	//   (pad 1 smd rect (at -0.95 0) (size 1 1.3) (layers F.Cu F.Paste F.Mask))
	//   (pad 2 smd rect (at 0.95 0) (size 1 1.3) (layers F.Cu F.Paste F.Mask))
	// )
}
