// Package temporal wraps Temporal client and worker construction with the
// OpenTelemetry tracing interceptor wired in.
package temporal

import (
	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
)

type ClientConfig struct {
	HostPort  string
	Namespace string
}

func NewClient(cfg ClientConfig) (client.Client, error) {
	tracingInterceptor, err := opentelemetry.NewTracingInterceptor(opentelemetry.TracerOptions{
		Tracer: otel.Tracer("temporal-client"),
	})
	if err != nil {
		return nil, err
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "default"
	}

	return client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: namespace,
		Interceptors: []interceptor.ClientInterceptor{
			tracingInterceptor,
		},
	})
}
