// Package pipeline loads Go packages and builds a locked type system from
// their declarations.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/broady/pocotype/cmd/pocotype/internal/config"
	"github.com/broady/pocotype/internal/errors"
	"github.com/broady/pocotype/ir"
	"github.com/broady/pocotype/provider"
	"github.com/broady/pocotype/typesystem"
)

// Result is the outcome of a build.
type Result struct {
	Schema  *ir.Schema
	Builder *typesystem.Builder

	// Registered maps the declared types that registered successfully,
	// by qualified name.
	Registered map[string]*typesystem.Node

	// Skipped counts the shared definer interfaces, which only contribute
	// properties to the Pocos that extend them.
	Skipped int
}

// Run loads cfg.Packages, registers every declared type and locks the
// builder. Registration diagnostics do not fail the run; they are in
// Result.Builder.Diagnostics.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	p := &provider.SourceProvider{}
	schema, err := p.BuildSchema(ctx, provider.SourceInputOptions{
		Packages:  cfg.Packages,
		RootTypes: cfg.Roots,
		Dir:       cfg.Dir,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range schema.Warnings {
		logger.Warn(w.Message, "code", w.Code, "type", w.TypeName)
	}
	if errs := schema.Validate(); len(errs) > 0 {
		for _, e := range errs[1:] {
			logger.Error("invalid descriptor", "err", e)
		}
		return nil, errors.WithHint(
			errors.Wrapf(errs[0], "%d invalid descriptors", len(errs)),
			"the provider produced a malformed schema; report it with the offending declaration")
	}

	b, err := typesystem.NewBuilder(typesystem.Config{
		Pocos:     schema.Pocos,
		MaxErrors: cfg.MaxErrors,
		Logger:    logger,
	})
	if err != nil {
		return nil, errors.Mark(err, errors.ErrInvalidConfig)
	}

	res := &Result{Schema: schema, Builder: b, Registered: make(map[string]*typesystem.Node)}
	for _, td := range schema.Types {
		if isShared(td) {
			res.Skipped++
			continue
		}
		n, err := b.RegisterType(ir.Ref(td))
		if errors.Is(err, typesystem.ErrTooManyErrors) {
			break
		}
		if err != nil {
			continue
		}
		res.Registered[td.TypeName().String()] = n
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, name := range cfg.Exclude {
		n := res.lookup(name)
		if n == nil {
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrNotFound, "exclude %s", name),
				"exclude names a registered type by its Go name or package-qualified name")
		}
		if err := b.SetNotExchangeable(n, "excluded by configuration"); err != nil {
			return nil, err
		}
	}

	b.Lock()
	return res, nil
}

// isShared reports whether td is a definer interface. Definers have no
// node of their own.
func isShared(td ir.TypeDescriptor) bool {
	d, ok := td.(*ir.InterfaceDescriptor)
	return ok && (d.Role == ir.RoleDefiner || d.Role == ir.RoleSuperDefiner)
}

// lookup finds a registered type by qualified name, then by bare name.
func (r *Result) lookup(name string) *typesystem.Node {
	if n, ok := r.Registered[name]; ok {
		return n
	}
	for _, td := range r.Schema.Types {
		if td.TypeName().Name == name {
			return r.Registered[td.TypeName().String()]
		}
	}
	return nil
}
