package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/RRPsystem/wbctx"

var (
	metricsOnce sync.Once

	mintEvents    metric.Int64Counter
	redeemEvents  metric.Int64Counter
	fetchEvents   metric.Int64Counter
	repositoryOps metric.Int64Counter
)

func initMetrics() {
	meter := otel.Meter(meterName)
	mintEvents, _ = meter.Int64Counter("wbctx_mint_events_total",
		metric.WithDescription("Context mint attempts by outcome"))
	redeemEvents, _ = meter.Int64Counter("wbctx_redeem_events_total",
		metric.WithDescription("Shortlink redemptions by outcome"))
	fetchEvents, _ = meter.Int64Counter("wbctx_fetch_events_total",
		metric.WithDescription("Context fetches by outcome"))
	repositoryOps, _ = meter.Int64Counter("wbctx_repository_operations_total",
		metric.WithDescription("Repository operations by entity, operation and outcome"))
}

func RecordMintEvent(ctx context.Context, outcome string) {
	metricsOnce.Do(initMetrics)
	mintEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordRedeemEvent(ctx context.Context, outcome string) {
	metricsOnce.Do(initMetrics)
	redeemEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordFetchEvent(ctx context.Context, outcome string) {
	metricsOnce.Do(initMetrics)
	fetchEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordRepositoryOperation(ctx context.Context, entity, operation, outcome string) {
	metricsOnce.Do(initMetrics)
	repositoryOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}
