package main

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	ordersCreated  metric.Int64Counter
	orderTotalHist metric.Int64Histogram
)

// initInstruments registra os instrumentos de métrica do serviço. Deve ser
// chamado depois do MeterProvider global estar configurado.
func initInstruments() error {
	meter := otel.Meter("checkout-service")

	var err error
	ordersCreated, err = meter.Int64Counter("orders_created_total",
		metric.WithDescription("Total number of orders created"))
	if err != nil {
		return err
	}

	orderTotalHist, err = meter.Int64Histogram("order_total_minor_units",
		metric.WithDescription("Order totals in minor currency units"))
	if err != nil {
		return err
	}

	return nil
}

func recordOrderCreated(ctx context.Context, total int64) {
	if ordersCreated == nil || orderTotalHist == nil {
		return
	}
	ordersCreated.Add(ctx, 1)
	orderTotalHist.Record(ctx, total)
}

// StartCheckoutSpan cria um span para a operação de checkout de uma sessão
func StartCheckoutSpan(ctx context.Context, sessionID string) (context.Context, trace.Span) {
	tracer := otel.Tracer("checkout-service")
	ctx, span := tracer.Start(ctx, "checkout")

	span.SetAttributes(
		attribute.String("session_id", sessionID),
		attribute.String("component", "checkout-coordinator"),
	)

	return ctx, span
}

// StartCartSpan cria um span para uma operação de carrinho
func StartCartSpan(ctx context.Context, operationName, sessionID string) (context.Context, trace.Span) {
	tracer := otel.Tracer("checkout-service")
	ctx, span := tracer.Start(ctx, "cart."+operationName)

	span.SetAttributes(
		attribute.String("session_id", sessionID),
		attribute.String("cart.operation", operationName),
	)

	return ctx, span
}
