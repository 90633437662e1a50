package record

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/foomo/reportviewer/service/vo"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Loader struct {
	l          *zap.Logger
	baseURL    string
	httpClient *http.Client
	cache      *Cache
	metrics    *Metrics
	group      singleflight.Group
}

type LoaderOption func(*Loader)

func LoaderWithCache(cache *Cache) LoaderOption {
	return func(l *Loader) {
		l.cache = cache
	}
}

func LoaderWithMetrics(metrics *Metrics) LoaderOption {
	return func(l *Loader) {
		l.metrics = metrics
	}
}

func NewLoader(l *zap.Logger, baseURL string, httpClient *http.Client, opts ...LoaderOption) *Loader {
	if l == nil {
		l = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	loader := &Loader{
		l:          l,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(loader)
	}
	if loader.cache == nil {
		loader.cache = NewCache()
	}
	if loader.metrics == nil {
		loader.metrics = NewMetrics(nil)
	}
	return loader
}

func (l *Loader) Cache() *Cache {
	return l.cache
}

// Load returns the record for course/project, from the cache when possible.
// Concurrent loads of the same record share a single fetch. Failures are logged
// and never cached.
func (l *Loader) Load(ctx context.Context, course vo.CourseID, project int) (*vo.ContentRecord, error) {
	key := vo.RecordKey{Course: course, Project: project}
	if record, ok := l.cache.Get(key); ok {
		l.metrics.CacheHits.Inc()
		return record, nil
	}

	// a caller that gives up stops waiting; the shared fetch keeps going
	fetchCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key.String(), func() (interface{}, error) {
		if record, ok := l.cache.Get(key); ok {
			return record, nil
		}
		record, err := Fetch(fetchCtx, l.httpClient, recordURL(l.baseURL, key))
		if err != nil {
			l.metrics.Fetches.WithLabelValues(result(err)).Inc()
			l.l.Error("failed to load record", zap.String("record", key.String()), zap.Error(err))
			return nil, err
		}
		l.metrics.Fetches.WithLabelValues("ok").Inc()
		l.cache.Put(key, record)
		return record, nil
	})

	select {
	case <-ctx.Done():
		l.l.Debug("stopped waiting for record", zap.String("record", key.String()), zap.Error(ctx.Err()))
		return nil, fmt.Errorf("%w: %w", ErrFetch, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*vo.ContentRecord), nil
	}
}

func result(err error) string {
	switch {
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "error"
	}
}
