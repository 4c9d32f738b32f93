// Package cache keeps filter suggestion lists in memory so the typeahead
// does not hit the database on every keystroke.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/sirupsen/logrus"

	"github.com/evesrp/evesrp/internal/filter"
	"github.com/evesrp/evesrp/internal/metrics"
)

// Source loads the choices for an attribute on a cache miss.
type Source interface {
	Choices(ctx context.Context, attribute string) ([]string, error)
}

// Choices is a freecache-backed read-through cache of attribute choices.
// It is safe for concurrent use.
type Choices struct {
	cache *freecache.Cache
	ttl   time.Duration
	src   Source
	log   logrus.FieldLogger
}

// NewChoices returns a cache of sizeMB megabytes whose entries expire after
// ttl. freecache enforces a 512 KB minimum.
func NewChoices(src Source, sizeMB int, ttl time.Duration, log logrus.FieldLogger) *Choices {
	return &Choices{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttl,
		src:   src,
		log:   log,
	}
}

// Get returns the cached choices for attribute, loading them from the
// source on a miss.
func (c *Choices) Get(ctx context.Context, attribute string) ([]string, error) {
	key := []byte(attribute)
	if raw, err := c.cache.Get(key); err == nil {
		var out []string
		if err := json.Unmarshal(raw, &out); err == nil {
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			return out, nil
		}
		c.log.WithField("attribute", attribute).Warn("discarding undecodable cache entry")
	} else if !errors.Is(err, freecache.ErrNotFound) {
		return nil, err
	}
	metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()

	out, err := c.src.Choices(ctx, attribute)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(key, raw, int(c.ttl.Seconds())); err != nil {
		// Oversized entries are served uncached.
		c.log.WithError(err).WithField("attribute", attribute).Debug("choice list not cached")
	}
	return out, nil
}

// Invalidate drops the named attributes, or every attribute when none are
// given.
func (c *Choices) Invalidate(attributes ...string) {
	if len(attributes) == 0 {
		attributes = filter.Attributes
	}
	for _, a := range attributes {
		c.cache.Del([]byte(a))
	}
}
