package timeline

import (
	"github.com/sirupsen/logrus"

	"github.com/sagalu/talon/internal/metrics"
	"github.com/sagalu/talon/internal/options"
)

// config holds construction-time settings applied by Option before a
// Timeline's backing files are opened.
type config struct {
	log     *logrus.Logger
	metrics *metrics.Registry
}

func defaultConfig() *config {
	return &config{log: logrus.StandardLogger()}
}

// Option configures a Timeline at FromDirectory time.
type Option = options.Option[*config]

// WithLogger sets the logrus.Logger a timeline logs against. The default
// is logrus.StandardLogger().
func WithLogger(log *logrus.Logger) Option {
	return options.NoError(func(c *config) {
		c.log = log
	})
}

// WithMetrics wires reg's counters and histograms into the timeline's
// Put/Get/Diff/Summary calls and its mapped arrays' growth events.
func WithMetrics(reg *metrics.Registry) Option {
	return options.NoError(func(c *config) {
		c.metrics = reg
	})
}
