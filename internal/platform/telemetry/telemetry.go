// Package telemetry sets up OpenTelemetry tracing and metrics for the todo
// service and declares the instruments it records.
//
// The server calls Setup once at start and Providers.Shutdown once at stop:
//
//	p, err := telemetry.Setup(ctx, cfg.Telemetry)
//	defer p.Shutdown(ctx)
//
// p.Metrics is nil when telemetry is disabled. Every recorder in the module
// accepts a nil *Metrics and skips recording.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"

	"github.com/jsamuelsen11/todo-api/internal/platform/config"
)

// Exporter names accepted by telemetry.exporter.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

const meterName = "github.com/jsamuelsen11/todo-api"

var errEmptyEndpoint = errors.New("otlp exporter requires an endpoint")

// Metric attribute keys.
var (
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrHTTPStatus  = attribute.Key("http.status_code")
	AttrHTTPRoute   = attribute.Key("http.route")
	AttrPeerService = attribute.Key("peer.service")
	AttrResult      = attribute.Key("result")
	AttrOperation   = attribute.Key("todo.operation")
)

// Metrics holds the instruments recorded by the server middleware, the
// outbound client and the todo service.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	ClientRequestDuration metric.Float64Histogram
	ClientRequestTotal    metric.Int64Counter
	TodoOperationTotal    metric.Int64Counter
}

// Providers owns the SDK providers created by Setup. The zero value is a
// valid no-op.
type Providers struct {
	Tracer  *sdktrace.TracerProvider
	Meter   *sdkmetric.MeterProvider
	Metrics *Metrics
}

// Setup installs global tracer and meter providers according to cfg and
// registers the service instruments. It returns an empty Providers when
// cfg.Enabled is false.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (*Providers, error) {
	p := &Providers{}
	if !cfg.Enabled {
		return p, nil
	}

	var err error
	if p.Tracer, err = InitTracer(ctx, cfg.ServiceName, cfg.Exporter, cfg.Endpoint); err != nil {
		return nil, err
	}
	if p.Meter, err = InitMeter(ctx, cfg.ServiceName, cfg.Exporter, cfg.Endpoint); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	if p.Metrics, err = NewMetrics(p.Meter); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	return p, nil
}

// Shutdown flushes and stops whichever providers were started.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		if err := p.Tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if p.Meter != nil {
		if err := p.Meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// InitTracer builds a batching TracerProvider for exporter ("stdout" or
// "otlp"), installs it globally along with the W3C trace context and baggage
// propagators, and returns it. The caller shuts it down.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var exp sdktrace.SpanExporter
	switch exporter {
	case ExporterStdout:
		exp, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case ExporterOTLP:
		var host string
		var insecure bool
		if host, insecure, err = parseEndpoint(endpoint); err == nil {
			opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(host)}
			if insecure {
				opts = append(opts, otlptracehttp.WithInsecure())
			}
			exp, err = otlptracehttp.New(ctx, opts...)
		}
	default:
		err = fmt.Errorf("unsupported exporter %q", exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp), sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// InitMeter is the metric counterpart of InitTracer. Readings are exported
// periodically.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var exp sdkmetric.Exporter
	switch exporter {
	case ExporterStdout:
		exp, err = stdoutmetric.New()
	case ExporterOTLP:
		var host string
		var insecure bool
		if host, insecure, err = parseEndpoint(endpoint); err == nil {
			opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
			if insecure {
				opts = append(opts, otlpmetrichttp.WithInsecure())
			}
			exp, err = otlpmetrichttp.New(ctx, opts...)
		}
	default:
		err = fmt.Errorf("unsupported exporter %q", exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// NewMetrics registers the service instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)

	var errs []error
	histogram := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return h
	}
	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return c
	}

	m := &Metrics{
		ServerRequestDuration: histogram("http.server.request.duration", "Duration of inbound todo API requests"),
		ServerRequestTotal:    counter("http.server.request.total", "Inbound todo API requests", "{request}"),
		ClientRequestDuration: histogram("http.client.request.duration", "Duration of outbound todo API calls"),
		ClientRequestTotal:    counter("http.client.request.total", "Outbound todo API calls", "{request}"),
		TodoOperationTotal:    counter("todo.operation.total", "Todo store operations by outcome", "{operation}"),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}
	return m, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName)),
	)
}

// parseEndpoint splits an OTLP collector URL such as
// "http://otel-collector:4318" into the host:port the exporters expect and
// whether plain HTTP should be used. A bare host:port is taken as insecure.
func parseEndpoint(endpoint string) (host string, insecure bool, err error) {
	if endpoint == "" {
		return "", false, errEmptyEndpoint
	}
	u, perr := url.Parse(endpoint)
	if perr != nil || u.Host == "" {
		return endpoint, true, nil
	}
	return u.Host, u.Scheme != "https", nil
}
