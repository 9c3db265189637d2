package snapshot

import (
	"context"
	"log/slog"
	"path"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/broady/pocotype/internal/errors"
	"github.com/broady/pocotype/typesystem"
)

var validate = validator.New()

// ExportOptions controls Export.
type ExportOptions struct {
	// Basename is the file name without extension, optionally below a
	// relative directory.
	Basename string `validate:"required"`

	// Formats lists the encodings to write. Each one produces a file.
	Formats []Format `validate:"required,min=1,dive,oneof=json msgpack"`

	// View selects the nodes. Nil exports every valid node.
	View *typesystem.TypeSetView `validate:"-"`

	// Logger receives one debug record per written file. Nil means
	// slog.Default().
	Logger *slog.Logger `validate:"-"`
}

// Export takes a snapshot of the locked builder and writes one file per
// format to sink. Formats are encoded and written concurrently; the first
// failure cancels the others.
func Export(ctx context.Context, b *typesystem.Builder, sink Sink, opts ExportOptions) (*Snapshot, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidConfig), "export options")
	}
	if err := ValidatePath(opts.Basename + FormatJSON.Ext()); err != nil {
		return nil, errors.Wrapf(err, "basename %q", opts.Basename)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s, err := Take(b, opts.View)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := Encode(s, format)
			if err != nil {
				return err
			}
			name := path.Clean(opts.Basename + format.Ext())
			if err := sink.WriteFile(ctx, name, data); err != nil {
				return errors.Wrapf(err, "write %s", name)
			}
			logger.Debug("wrote snapshot", "path", name, "format", string(format), "bytes", len(data), "nodes", len(s.Nodes))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}
