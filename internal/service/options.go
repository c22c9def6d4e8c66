package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/lesson-booking/internal/service/ports"
)

type options struct {
	publisher ports.EventPublisher
	cache     ports.CacheInvalidator
	log       logrus.FieldLogger
	now       func() time.Time
}

// Option configures optional collaborators of the services.
type Option func(*options)

// WithPublisher sets where committed orders are announced.
func WithPublisher(p ports.EventPublisher) Option { return func(o *options) { o.publisher = p } }

// WithCacheInvalidator sets the cache dropped after seat counts change.
func WithCacheInvalidator(c ports.CacheInvalidator) Option { return func(o *options) { o.cache = c } }

// WithLogger sets the logger; the logrus standard logger is used otherwise.
func WithLogger(l logrus.FieldLogger) Option { return func(o *options) { o.log = l } }

// WithClock overrides time.Now for order timestamps.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

func buildOptions(opts []Option) options {
	o := options{log: logrus.StandardLogger(), now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
