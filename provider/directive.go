package provider

import (
	"go/ast"
	"go/token"
	"slices"
	"strings"

	"github.com/broady/pocotype/internal/errors"
)

// Method directives carry poco options for Poco interface properties,
// which have no struct tag:
//
//	type IOrder interface {
//	    poco.Poco
//	    //poco:nullable,default=3
//	    Count() int
//	}
//
// The options are those of a poco struct tag. Several directive lines in
// one comment group are joined.
const directivePrefix = "//poco:"

// directive is the options attached to one interface method.
type directive struct {
	options string
	pos     token.Position
}

// parseDirectives returns the directives of the interface methods of files,
// keyed by the position of the method name. A directive that does not
// document an interface method is an error.
func parseDirectives(fset *token.FileSet, files []*ast.File) (map[token.Pos]directive, error) {
	result := make(map[token.Pos]directive)
	attached := make(map[token.Pos]bool)

	for _, f := range files {
		ast.Inspect(f, func(n ast.Node) bool {
			it, ok := n.(*ast.InterfaceType)
			if !ok || it.Methods == nil {
				return true
			}
			for _, field := range it.Methods.List {
				if len(field.Names) == 0 {
					continue
				}
				var opts []string
				var first token.Pos
				for _, cg := range []*ast.CommentGroup{field.Doc, field.Comment} {
					if cg == nil {
						continue
					}
					for _, c := range cg.List {
						text, ok := strings.CutPrefix(c.Text, directivePrefix)
						if !ok {
							continue
						}
						attached[c.Pos()] = true
						if first == token.NoPos {
							first = c.Pos()
						}
						opts = append(opts, strings.TrimSpace(text))
					}
				}
				if len(opts) > 0 {
					result[field.Names[0].Pos()] = directive{
						options: strings.Join(opts, ","),
						pos:     fset.Position(first),
					}
				}
			}
			return true
		})
	}

	var stray []token.Pos
	for _, f := range files {
		for _, cg := range f.Comments {
			for _, c := range cg.List {
				if strings.HasPrefix(c.Text, directivePrefix) && !attached[c.Pos()] {
					stray = append(stray, c.Pos())
				}
			}
		}
	}
	if len(stray) > 0 {
		slices.Sort(stray)
		return nil, errors.WithHint(
			errors.Newf("%s: %s directive must document an interface method", fset.Position(stray[0]), directivePrefix),
			"use a poco struct tag on struct fields")
	}
	return result, nil
}
