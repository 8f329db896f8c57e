package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	olog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"opencsg.com/image-moderation/common/config"
)

const ServiceName = "image-moderation"

type collector struct {
	endpoint string
	insecure bool
}

// parseCollector turns an OTLP url like http://otel-collector:4317 into a gRPC target.
func parseCollector(s string) (collector, error) {
	u, err := url.Parse(s)
	if err != nil {
		return collector{}, err
	}
	if u.Host == "" {
		return collector{}, fmt.Errorf("invalid otlp endpoint %q", s)
	}
	return collector{endpoint: u.Host, insecure: u.Scheme != "https"}, nil
}

// SetupOTelSDK installs the global trace, metric and (optionally) log providers.
// Without an OTLP endpoint it does nothing and returns a no-op shutdown.
func SetupOTelSDK(ctx context.Context, cfg *config.Config, serviceName string) (func(context.Context) error, error) {
	if cfg.Instrumentation.OTLPEndpoint == "" {
		return func(ctx context.Context) error {
			return nil
		}, nil
	}
	c, err := parseCollector(cfg.Instrumentation.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	var shutdownFuncs []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var err error
		for _, fn := range shutdownFuncs {
			err = errors.Join(err, fn(ctx))
		}
		shutdownFuncs = nil
		return err
	}
	fail := func(inErr error) (func(context.Context) error, error) {
		return nil, errors.Join(inErr, shutdown(ctx))
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	res, err := resource.New(ctx,
		resource.WithProcess(),
		resource.WithOS(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider, err := newTracerProvider(ctx, c, res)
	if err != nil {
		return fail(err)
	}
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	otel.SetTracerProvider(tracerProvider)

	meterProvider, err := newMeterProvider(ctx, c, res)
	if err != nil {
		return fail(err)
	}
	shutdownFuncs = append(shutdownFuncs, meterProvider.Shutdown)
	otel.SetMeterProvider(meterProvider)

	if cfg.Instrumentation.OTLPLogging {
		loggerProvider, err := newLoggerProvider(ctx, c, res)
		if err != nil {
			return fail(err)
		}
		shutdownFuncs = append(shutdownFuncs, loggerProvider.Shutdown)
		global.SetLoggerProvider(loggerProvider)
		slog.SetDefault(slog.New(slogmulti.Fanout(
			slog.Default().Handler(),
			otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(loggerProvider)),
		)))
	}

	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(10 * time.Second)); err != nil {
		return fail(err)
	}

	slog.Info("opentelemetry enabled", slog.String("collector", c.endpoint), slog.Bool("logging", cfg.Instrumentation.OTLPLogging))
	return shutdown, nil
}

func newTracerProvider(ctx context.Context, c collector, res *resource.Resource) (*trace.TracerProvider, error) {
	options := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(c.endpoint)}
	if c.insecure {
		options = append(options, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(options...))
	if err != nil {
		return nil, err
	}
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	), nil
}

func newMeterProvider(ctx context.Context, c collector, res *resource.Resource) (*metric.MeterProvider, error) {
	options := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(c.endpoint)}
	if c.insecure {
		options = append(options, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, options...)
	if err != nil {
		return nil, err
	}
	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter)),
		metric.WithResource(res),
	), nil
}

func newLoggerProvider(ctx context.Context, c collector, res *resource.Resource) (*olog.LoggerProvider, error) {
	options := []otlploggrpc.Option{otlploggrpc.WithEndpoint(c.endpoint)}
	if c.insecure {
		options = append(options, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, options...)
	if err != nil {
		return nil, err
	}
	return olog.NewLoggerProvider(
		olog.WithProcessor(olog.NewBatchProcessor(exporter)),
		olog.WithResource(res),
	), nil
}

// SetupOtelMiddleware sets up the otelgin middleware for the gin engine.
func SetupOtelMiddleware(r *gin.Engine, cfg *config.Config, serviceName string) {
	if cfg.Instrumentation.OTLPEndpoint != "" {
		r.Use(otelgin.Middleware(serviceName))
	}
}
