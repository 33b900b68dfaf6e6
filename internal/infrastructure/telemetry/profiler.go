package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// DefaultProfileTypes are uploaded when ProfilingConfig.ProfileTypes is empty
var DefaultProfileTypes = []string{"cpu", "alloc_space", "inuse_space", "goroutines"}

// Sampling rates applied when mutex or block profiles are requested without one
const (
	defaultMutexFraction = 5
	defaultBlockRate     = 5
)

var profileTypes = map[string]pyroscope.ProfileType{
	"cpu":            pyroscope.ProfileCPU,
	"alloc_objects":  pyroscope.ProfileAllocObjects,
	"alloc_space":    pyroscope.ProfileAllocSpace,
	"inuse_objects":  pyroscope.ProfileInuseObjects,
	"inuse_space":    pyroscope.ProfileInuseSpace,
	"goroutines":     pyroscope.ProfileGoroutines,
	"mutex_count":    pyroscope.ProfileMutexCount,
	"mutex_duration": pyroscope.ProfileMutexDuration,
	"block_count":    pyroscope.ProfileBlockCount,
	"block_duration": pyroscope.ProfileBlockDuration,
}

// ProfilingConfig configures continuous profiling uploads to Pyroscope
type ProfilingConfig struct {
	Enabled  bool
	Server   string
	App      string
	User     string
	Password string
	// ProfileTypes are lower case names such as "cpu" or "mutex_count"
	ProfileTypes  []string
	MutexFraction int
	BlockRate     int
}

func (c ProfilingConfig) missing() []string {
	var names []string
	if c.Server == "" {
		names = append(names, "server address")
	}
	if c.App == "" {
		names = append(names, "application name")
	}
	return names
}

// Profiler uploads profiles until Shutdown. The zero value is a disabled
// profiler.
type Profiler struct {
	session *pyroscope.Profiler
	log     *zap.Logger
	once    sync.Once
}

// StartProfiling begins uploading profiles. A disabled config returns a
// profiler whose Shutdown does nothing.
func StartProfiling(cfg ProfilingConfig, log *zap.Logger) (*Profiler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Enabled {
		return &Profiler{log: log}, nil
	}
	if missing := cfg.missing(); len(missing) > 0 {
		return nil, fmt.Errorf("profiling %s is required", strings.Join(missing, ", "))
	}

	types, err := resolveProfileTypes(cfg.ProfileTypes)
	if err != nil {
		return nil, err
	}
	enableRuntimeSampling(types, cfg)

	var tags map[string]string
	if host, err := os.Hostname(); err == nil && host != "" {
		tags = map[string]string{"hostname": host}
	}
	session, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.App,
		ServerAddress:     cfg.Server,
		BasicAuthUser:     cfg.User,
		BasicAuthPassword: cfg.Password,
		Logger:            log.Named("pyroscope").Sugar(),
		Tags:              tags,
		ProfileTypes:      types,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}

	log.Info("Profiling started",
		zap.String("server", cfg.Server),
		zap.String("app", cfg.App),
		zap.Strings("profile_types", cfg.ProfileTypes),
	)
	return &Profiler{session: session, log: log}, nil
}

func resolveProfileTypes(names []string) ([]pyroscope.ProfileType, error) {
	if len(names) == 0 {
		names = DefaultProfileTypes
	}
	out := make([]pyroscope.ProfileType, len(names))
	for i, name := range names {
		t, ok := profileTypes[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown profile type %q", name)
		}
		out[i] = t
	}
	return out, nil
}

// enableRuntimeSampling switches on the runtime sampling that mutex and
// block profiles read from.
func enableRuntimeSampling(types []pyroscope.ProfileType, cfg ProfilingConfig) {
	for _, t := range types {
		switch t {
		case pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration:
			runtime.SetMutexProfileFraction(orDefault(cfg.MutexFraction, defaultMutexFraction))
		case pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration:
			runtime.SetBlockProfileRate(orDefault(cfg.BlockRate, defaultBlockRate))
		}
	}
}

// orDefault treats zero and negative rates as unset
func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// IsEnabled reports whether profiles are being uploaded
func (p *Profiler) IsEnabled() bool {
	return p != nil && p.session != nil
}

// Shutdown flushes pending profiles once; later calls return nil
func (p *Profiler) Shutdown(ctx context.Context) error {
	if !p.IsEnabled() {
		return nil
	}
	var err error
	p.once.Do(func() {
		err = flush(ctx, "profiles", func(context.Context) error { return p.session.Stop() })
		if err == nil {
			p.log.Info("Profiling stopped")
		}
	})
	return err
}
