// Package config loads pocotype.toml and merges command-line overrides.
//
//	packages   = ["./models"]
//	roots      = ["IOrder", "Money"]
//	exclude    = ["Audit"]
//	max_errors = 20
//	out        = "build/types"
//	formats    = ["json", "msgpack"]
//
// Relative package patterns and the output path are resolved against the
// directory holding the file.
package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/broady/pocotype/internal/errors"
)

// DefaultFile is the config file looked up when --config is not given.
const DefaultFile = "pocotype.toml"

var validate = validator.New()

// Config is the resolved configuration of a run.
type Config struct {
	Packages  []string `toml:"packages" validate:"required,min=1,dive,required"`
	Roots     []string `toml:"roots" validate:"dive,required"`
	Exclude   []string `toml:"exclude" validate:"dive,required"`
	MaxErrors int      `toml:"max_errors" validate:"gte=0"`
	Out       string   `toml:"out"`
	Formats   []string `toml:"formats" validate:"dive,oneof=json msgpack"`

	// Dir is the directory packages are resolved in.
	Dir string `toml:"-" validate:"-"`
}

// Flags are the options shared by every command.
type Flags struct {
	Config  string `help:"Path to the config file." default:"pocotype.toml" short:"c" type:"path"`
	Verbose bool   `help:"Log debug events to stderr." short:"v"`
	NoColor bool   `help:"Disable colored output." name:"no-color"`
}

// Logger returns a text logger writing to w, at Debug level when
// --verbose is set.
func (f *Flags) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if f.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Overrides are the command-line values that replace config file values.
// Zero values leave the file value in place.
type Overrides struct {
	Packages  []string `arg:"" optional:"" help:"Package patterns to load."`
	Roots     []string `help:"Root type names (default: every exported type)." short:"r" sep:","`
	Exclude   []string `help:"Type names excluded from exchange." short:"x" sep:","`
	MaxErrors int      `help:"Stop registration after this many errors; 0 means no limit." default:"-1" name:"max-errors"`
}

// Load reads the config file at path. A missing DefaultFile yields an
// empty config rooted at the working directory; any other missing path is
// an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolve config path")
	}

	cfg := &Config{Dir: filepath.Dir(abs)}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) && filepath.Base(abs) == DefaultFile {
			cfg.Dir = ""
			return cfg, nil
		}
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrInvalidConfig), "config %s", path)
	}

	md, err := toml.DecodeFile(abs, cfg)
	if err != nil {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrInvalidConfig), "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", ")),
			"supported keys are packages, roots, exclude, max_errors, out and formats")
	}
	if cfg.Out != "" && !filepath.IsAbs(cfg.Out) {
		cfg.Out = filepath.Join(cfg.Dir, cfg.Out)
	}
	return cfg, nil
}

// Apply replaces the values of c that o sets.
func (c *Config) Apply(o Overrides) {
	if len(o.Packages) > 0 {
		c.Packages = o.Packages
		// Command-line patterns are relative to the working directory.
		c.Dir = ""
	}
	if len(o.Roots) > 0 {
		c.Roots = o.Roots
	}
	if len(o.Exclude) > 0 {
		c.Exclude = o.Exclude
	}
	if o.MaxErrors >= 0 {
		c.MaxErrors = o.MaxErrors
	}
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Packages" {
			return errors.WithHintf(errors.Wrap(errors.ErrInvalidConfig, "no packages to load"),
				"pass package patterns as arguments or set packages in %s", DefaultFile)
		}
		return errors.Wrap(errors.Mark(err, errors.ErrInvalidConfig), "config")
	}
	return nil
}
