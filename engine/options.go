package engine

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Options configures a Session.
type Options struct {
	// MaxNumDimensions bounds the symbolic number of array dimensions (default: 4).
	MaxNumDimensions int `yaml:"maxNumDimensions"`

	// ArrayTypeWorkarounds adds the correctness constraints that keep
	// Object-typed slots from resolving to shallow primitive arrays and
	// forbid arrays of anonymous classes (default: true).
	ArrayTypeWorkarounds bool `yaml:"arrayTypeWorkarounds"`

	// Package prefixes and class names the analysis treats specially.
	OverridePackage         string `yaml:"overridePackage"`         // default: org.utbot.engine.overrides
	FrameworkVisiblePackage string `yaml:"frameworkVisiblePackage"` // default: org.utbot.api.visible
	UtMockClass             string `yaml:"utMockClass"`             // default: org.utbot.api.mock.UtMock
	UtOverrideMockClass     string `yaml:"utOverrideMockClass"`     // default: org.utbot.engine.overrides.UtOverrideMock

	// Wrappers replaces library classes with model implementations.
	// Entries from a YAML overlay are merged into the defaults.
	Wrappers WrapperTable `yaml:"wrappers"`

	// Logging configuration
	LogLevel  string    `yaml:"logLevel"` // "error", "warn", "info", "debug"; empty disables logging
	LogWriter io.Writer `yaml:"-"`        // default: os.Stderr
	Logger    Logger    `yaml:"-"`        // overrides LogLevel and LogWriter when set
}

// DefaultOptions returns the default session configuration.
func DefaultOptions() Options {
	return Options{
		MaxNumDimensions:        4,
		ArrayTypeWorkarounds:    true,
		OverridePackage:         "org.utbot.engine.overrides",
		FrameworkVisiblePackage: "org.utbot.api.visible",
		UtMockClass:             "org.utbot.api.mock.UtMock",
		UtOverrideMockClass:     "org.utbot.engine.overrides.UtOverrideMock",
		Wrappers:                DefaultWrappers(),
	}
}

// LoadOptions reads a YAML overlay on top of DefaultOptions.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, fmt.Errorf("failed to decode options: %w", err)
	}
	if err := opts.validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func (o Options) validate() error {
	if o.MaxNumDimensions < 1 {
		return fmt.Errorf("maxNumDimensions must be positive, got %d", o.MaxNumDimensions)
	}
	for name, w := range o.Wrappers {
		if w.Class == "" {
			return fmt.Errorf("wrapper for %s has no class", name)
		}
	}
	return nil
}

func (o Options) logger() Logger {
	if o.Logger != nil {
		return o.Logger
	}
	if o.LogLevel == "" {
		return NoopLogger()
	}
	return NewLogger(ParseLogLevel(o.LogLevel), o.LogWriter)
}
