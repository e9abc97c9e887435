package tracing

import (
	"io"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Bootstrap installs a jaeger tracer configured from the JAEGER_* environment
// variables. Without an agent configured the tracer stays a no-op.
func Bootstrap(serviceName string) io.Closer {
	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		logrus.Warn("tracing disabled, jaeger config invalid: ", err)
		return nil
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}

	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		logrus.Warn("tracing disabled, jaeger tracer init failed: ", err)
		return nil
	}
	opentracing.SetGlobalTracer(tracer)
	return closer
}
