// Package exprfmt pretty-prints constraint trees, breaking the arguments
// of selected operators onto their own lines.
package exprfmt

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/symtypes/expr"
)

// Config selects which operators Format breaks across lines.
type Config struct {
	// Ops lists the operators whose arguments go on separate lines.
	Ops []string
	// Indent is the number of spaces per level (default: 2).
	Indent int
}

var validOps = []struct {
	name string
	op   expr.Op
}{
	{"and", expr.OpAnd},
	{"or", expr.OpOr},
	{"not", expr.OpNot},
	{"eq", expr.OpEq},
	{"lt", expr.OpLt},
	{"le", expr.OpLe},
	{"gt", expr.OpGt},
	{"ge", expr.OpGe},
	{"select", expr.OpSelect},
	{"store", expr.OpStore},
}

// ValidateConfig normalizes operator names and rejects unknown ones.
func ValidateConfig(cfg Config) (Config, error) {
	ops := make([]string, len(cfg.Ops))
	for o, op := range cfg.Ops {
		valid := false
		for _, vop := range validOps {
			if strings.EqualFold(op, vop.name) {
				ops[o] = vop.name
				valid = true
			}
		}
		if !valid {
			names := make([]string, len(validOps))
			for i, vop := range validOps {
				names[i] = vop.name
			}
			return cfg, fmt.Errorf("invalid operator %q; valid operators: %s", op, strings.Join(names, ", "))
		}
	}
	cfg.Ops = ops

	if cfg.Indent < 0 {
		return cfg, fmt.Errorf("invalid indent %d", cfg.Indent)
	}
	if cfg.Indent == 0 {
		cfg.Indent = 2
	}
	return cfg, nil
}

// Format renders e. Operators not listed in cfg.Ops print on one line.
func Format(e expr.Expr, cfg Config) (string, error) {
	cfg, err := ValidateConfig(cfg)
	if err != nil {
		return "", err
	}

	p := &printer{
		breaks: make(map[expr.Op]bool, len(cfg.Ops)),
		indent: strings.Repeat(" ", cfg.Indent),
	}
	for _, name := range cfg.Ops {
		for _, vop := range validOps {
			if vop.name == name {
				p.breaks[vop.op] = true
			}
		}
	}
	p.print(e, 0)
	return p.b.String(), nil
}

type printer struct {
	b      strings.Builder
	breaks map[expr.Op]bool
	indent string
}

func (p *printer) print(e expr.Expr, depth int) {
	kids := expr.Children(e)
	if !p.breaks[e.Op()] || len(kids) == 0 {
		p.b.WriteString(e.String())
		return
	}
	p.b.WriteByte('(')
	p.b.WriteString(e.Op().String())
	for _, k := range kids {
		p.b.WriteByte('\n')
		p.b.WriteString(strings.Repeat(p.indent, depth+1))
		p.print(k, depth+1)
	}
	p.b.WriteByte(')')
}
