package extractor

import (
	"errors"
	"math"
	"strings"

	"github.com/allsafeASM/portgroup/internal/common"
	"github.com/allsafeASM/portgroup/internal/models"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

var errEmptyExpression = errors.New("empty expression")

// Filter is a compiled structural filter evaluated relative to a port
// element, e.g. `service[@name="https"]` or `service[@ostype="Windows"]`.
type Filter struct {
	raw  string
	expr *xpath.Expr
}

// CompileFilter compiles a filter expression.
// Syntax errors are reported as filter_syntax errors.
func CompileFilter(raw string) (*Filter, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, common.NewFilterSyntaxError(raw, errEmptyExpression)
	}

	expr, err := xpath.Compile(trimmed)
	if err != nil {
		return nil, common.NewFilterSyntaxError(raw, err)
	}
	return &Filter{raw: trimmed, expr: expr}, nil
}

// CompileFilters compiles every expression, stopping at the first error
func CompileFilters(raws []string) ([]*Filter, error) {
	filters := make([]*Filter, 0, len(raws))
	for _, raw := range raws {
		f, err := CompileFilter(raw)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// String returns the expression as given
func (f *Filter) String() string {
	return f.raw
}

// Matches reports whether the expression holds for the port element.
// Node-set expressions must select at least one node; boolean, number and
// string results follow XPath truthiness.
func (f *Filter) Matches(port *models.Port) bool {
	if port.Node == nil {
		return false
	}

	switch v := f.expr.Evaluate(xmlquery.CreateXPathNavigator(port.Node)).(type) {
	case *xpath.NodeIterator:
		return v.MoveNext()
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case string:
		return v != ""
	default:
		return false
	}
}
