// Package tracer installs the global opentracing tracer backed by a jaeger agent
// Package tracer 安装基于 jaeger agent 的全局 opentracing 追踪器
package tracer

import (
	"io"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Config 追踪配置
type Config struct {
	ServiceName string
	// AgentHostPort jaeger agent 地址，为空时使用 noop 追踪器
	AgentHostPort string
	// SampleRate 采样比例 0-1，0 表示全部采样
	SampleRate float64
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewJaegerTracer builds a jaeger tracer and makes it the opentracing global tracer.
// The returned closer flushes buffered spans.
// NewJaegerTracer 创建 jaeger 追踪器并设置为全局追踪器，返回的 closer 会刷新缓冲的 span。
func NewJaegerTracer(cfg Config) (opentracing.Tracer, io.Closer, error) {
	if cfg.AgentHostPort == "" {
		t := opentracing.NoopTracer{}
		opentracing.SetGlobalTracer(t)
		return t, nopCloser{}, nil
	}

	sampler := &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeConst, Param: 1}
	if cfg.SampleRate > 0 && cfg.SampleRate < 1 {
		sampler = &jaegercfg.SamplerConfig{Type: jaeger.SamplerTypeProbabilistic, Param: cfg.SampleRate}
	}

	jc := jaegercfg.Configuration{
		ServiceName: cfg.ServiceName,
		Sampler:     sampler,
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:            false,
			BufferFlushInterval: time.Second,
			LocalAgentHostPort:  cfg.AgentHostPort,
		},
	}
	t, closer, err := jc.NewTracer()
	if err != nil {
		return nil, nil, errors.Wrap(err, "jaeger tracer")
	}
	opentracing.SetGlobalTracer(t)
	return t, closer, nil
}
