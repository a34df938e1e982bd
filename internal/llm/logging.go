package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingProvider logs every generation call with its latency and token usage
type LoggingProvider struct {
	inner  Provider
	logger *zap.Logger
}

// WithLogging wraps p with request logging
func WithLogging(p Provider, logger *zap.Logger) Provider {
	return &LoggingProvider{inner: p, logger: logger}
}

// Generate implements Provider
func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	fields := []zap.Field{
		zap.String("model", l.inner.ModelID()),
		zap.Duration("latency", time.Since(start)),
	}
	if req.Schema != nil {
		fields = append(fields, zap.String("schema", req.Schema.Name))
	}
	if err != nil {
		l.logger.Warn("model request failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	l.logger.Info("model request completed", append(fields,
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
	)...)
	return resp, nil
}

// ModelID implements Provider
func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
