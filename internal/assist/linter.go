package assist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/toc-cloud/toc-cloud/internal/llm"
)

// DefaultCallTimeout bounds a shared completion call when LinterConfig.CallTimeout is unset.
const DefaultCallTimeout = 60 * time.Second

// LinterConfig wires a Linter. Cache and Logger are optional.
type LinterConfig struct {
	Completer Completer
	Cache     Cache
	Logger    *zap.Logger
	// CallTimeout bounds the completion call itself, independent of any caller.
	CallTimeout time.Duration
}

// Linter runs the structure check: one completion call per distinct request, with
// concurrent identical requests sharing that call.
type Linter struct {
	completer Completer
	cache     Cache
	logger      *zap.Logger
	callTimeout time.Duration
	group       singleflight.Group
}

// NewLinter creates a Linter.
func NewLinter(cfg LinterConfig) (*Linter, error) {
	if cfg.Completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Linter{completer: cfg.Completer, cache: cfg.Cache, logger: logger, callTimeout: timeout}, nil
}

// Lint checks req. Completion failures come back as *ServiceError; an empty or
// unreadable reply yields empty comments rather than an error. If ctx ends first,
// Lint returns ctx.Err() while the shared call keeps running for other callers.
func (l *Linter) Lint(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return &Response{Comments: EmptyComments(), Local: Precheck(req)}, nil
	}

	key := CacheKey(req)
	log := l.logger.With(zap.String("cache_key", key[:12]))

	if comments, ok := l.cacheGet(ctx, log, key); ok {
		log.Debug("assist cache hit")
		return &Response{Comments: comments, Local: Precheck(req), Cached: true}, nil
	}

	ch := l.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.callTimeout)
		defer cancel()
		return l.check(callCtx, log, key, req)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		log.Debug("assist call shared with concurrent request")
	}

	// callers sharing a result must not alias each other's slices
	comments := cloneComments(res.Val.(Comments))
	return &Response{Comments: comments, Local: Precheck(req)}, nil
}

func (l *Linter) check(ctx context.Context, log *zap.Logger, key string, req Request) (Comments, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build assist prompt: %w", err)
	}
	schema, err := ResponseSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to build assist schema: %w", err)
	}

	raw, err := l.completer.Complete(ctx, prompt, SchemaName, schema)
	var empty *llm.EmptyResponseError
	if errors.As(err, &empty) {
		log.Warn("assist reply empty, returning no comments", zap.Error(err))
		return EmptyComments(), nil
	}
	if err != nil {
		log.Warn("assist completion failed", zap.Error(err))
		return nil, newServiceError(err)
	}

	if err := ValidateRaw(raw); err != nil {
		log.Debug("assist reply does not match schema", zap.Error(err))
	}

	comments, err := DecodeComments(raw)
	if err != nil {
		var pe *ParseError
		if !errors.As(err, &pe) {
			return nil, err
		}
		// not cached so the next identical request tries again
		log.Warn("assist reply unreadable, returning no comments", zap.Error(err))
		return EmptyComments(), nil
	}

	kept, dropped := PostFilterWithReport(comments, req.Lines)
	for _, d := range dropped {
		log.Debug("assist comment dropped",
			zap.String("line", d.Key),
			zap.String("reason", string(d.Reason)),
			zap.String("match", d.Match),
			zap.String("text", d.Comment.Text),
		)
	}

	l.cacheSet(ctx, log, key, kept)
	return kept, nil
}

func (l *Linter) cacheGet(ctx context.Context, log *zap.Logger, key string) (Comments, bool) {
	if l.cache == nil {
		return nil, false
	}
	comments, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		log.Warn("assist cache read failed", zap.Error(err))
		return nil, false
	}
	return comments, ok
}

func (l *Linter) cacheSet(ctx context.Context, log *zap.Logger, key string, comments Comments) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Set(ctx, key, comments); err != nil {
		log.Warn("assist cache write failed", zap.Error(err))
	}
}
