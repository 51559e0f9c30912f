package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "boxd"

// InitOtelSDK sets the global tracer and meter providers exporting to the
// given otlp collector (eg. http://localhost:4318) and forwards the logrus
// entries to it. The returned func flushes and stops every exporter.
func InitOtelSDK(
	ctx context.Context, collectorEndpoint string, pushInterval time.Duration,
) (func(context.Context) error, error) {
	if collectorEndpoint == "" {
		return nil, fmt.Errorf("missing otel collector endpoint")
	}
	if pushInterval <= 0 {
		return nil, fmt.Errorf("otel push interval must be greater than 0")
	}

	endpoint, err := url.Parse(collectorEndpoint)
	if err != nil || endpoint.Host == "" {
		return nil, fmt.Errorf("invalid otel collector endpoint %s", collectorEndpoint)
	}
	insecure := endpoint.Scheme == "http"

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	shutdownFuncs := make([]func(context.Context) error, 0, 3)
	shutdown := func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}

	traceOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint.Host)}
	if insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
	}
	traceExporter, err := otlptracehttp.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))

	metricOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint.Host)}
	if insecure {
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}
	metricExporter, err := otlpmetrichttp.New(ctx, metricOpts...)
	if err != nil {
		// nolint:all
		shutdown(ctx)
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(pushInterval)),
		),
		sdkmetric.WithResource(res),
	)
	shutdownFuncs = append(shutdownFuncs, meterProvider.Shutdown)
	otel.SetMeterProvider(meterProvider)

	logOpts := []otlploghttp.Option{otlploghttp.WithEndpoint(endpoint.Host)}
	if insecure {
		logOpts = append(logOpts, otlploghttp.WithInsecure())
	}
	logExporter, err := otlploghttp.New(ctx, logOpts...)
	if err != nil {
		// nolint:all
		shutdown(ctx)
		return nil, fmt.Errorf("failed to create log exporter: %w", err)
	}
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	shutdownFuncs = append(shutdownFuncs, loggerProvider.Shutdown)
	log.AddHook(NewLogHook(loggerProvider))

	log.Infof("otel sdk exporting to %s every %s", collectorEndpoint, pushInterval)
	return shutdown, nil
}
