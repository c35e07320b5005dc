package footprint

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/chazu/footwork/pkg/solver"
)

var (
	tracer = otel.Tracer("footwork.footprint")
	meter  = otel.Meter("footwork.footprint")
)

var (
	solveLatency metric.Float64Histogram
	solveTotal   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		solveLatency, err = meter.Float64Histogram(
			"footwork_solve_duration_seconds",
			metric.WithDescription("Duration of footprint solves"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		solveTotal, err = meter.Int64Counter(
			"footwork_solve_total",
			metric.WithDescription("Total number of footprint solves by status"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startSolveSpan(ctx context.Context, name string, session string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "footprint.Solve",
		trace.WithAttributes(
			attribute.String("footprint.name", name),
			attribute.String("footprint.session", session),
		),
	)
}

func setSolveSpanResult(span trace.Span, res solver.Result) {
	span.SetAttributes(
		attribute.String("solve.status", res.Status.String()),
		attribute.Int("solve.dof", res.DOF),
		attribute.Int("solve.iterations", res.Iterations),
		attribute.Int("solve.failed", len(res.Failed)),
	)
	if res.OK() {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, res.Status.String())
	}
}

func recordSolveMetrics(ctx context.Context, duration time.Duration, res solver.Result) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", res.Status.String()))
	solveLatency.Record(ctx, duration.Seconds(), attrs)
	solveTotal.Add(ctx, 1, attrs)
}
