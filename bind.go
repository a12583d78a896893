package dbz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// binder replaces the placeholders of a statement with the bindvars of a
// driver, collecting the bound values in the order the bindvars appear.
// Quoted strings, quoted identifiers, comments and "::" casts are copied
// verbatim.
type binder struct {
	bindType int
	// backslash escapes the next character inside quotes (MySQL)
	backslash bool

	named      map[string]interface{}
	positional []interface{}

	out  strings.Builder
	args []interface{}
	next int
}

// bindQuery compiles query for a driver. ":name" placeholders are only
// recognized when named bindings are provided, "?" placeholders only when
// positional bindings are provided. A statement without bindings is
// returned untouched.
func bindQuery(driverName, query string, named map[string]interface{}, positional []interface{}) (string, []interface{}, error) {
	if len(named) == 0 && len(positional) == 0 {
		return query, nil, nil
	}

	b := &binder{
		bindType:   sqlx.BindType(driverName),
		backslash:  driverName == DriverMySQL,
		named:      named,
		positional: positional,
	}

	if err := b.scan(query); err != nil {
		return query, nil, err
	}

	if b.next < len(positional) {
		return query, nil, fmt.Errorf("got %d positional bindings for %d placeholders", len(positional), b.next)
	}

	return b.out.String(), b.args, nil
}

func (b *binder) scan(query string) error {
	for i := 0; i < len(query); i++ {
		c := query[i]

		switch {
		case c == '\'' || c == '"' || c == '`':
			i = b.copyQuoted(query, i)
		case c == '-' && strings.HasPrefix(query[i:], "--"):
			end := strings.IndexByte(query[i:], '\n')
			if end == -1 {
				end = len(query) - i - 1
			}
			b.out.WriteString(query[i : i+end+1])
			i += end
		case c == '/' && strings.HasPrefix(query[i:], "/*"):
			end := strings.Index(query[i+2:], "*/")
			if end == -1 {
				end = len(query) - i - 4
			}
			b.out.WriteString(query[i : i+end+4])
			i += end + 3
		case c == ':' && i+1 < len(query) && query[i+1] == ':':
			b.out.WriteString("::")
			i++
		case c == ':' && len(b.named) > 0 && i+1 < len(query) && isNameChar(query[i+1]):
			end := i + 1
			for end < len(query) && isNameChar(query[end]) {
				end++
			}

			name := query[i+1 : end]
			value, ok := b.named[name]
			if !ok {
				return fmt.Errorf("could not find name %s in named bindings", name)
			}

			b.bind(value)
			i = end - 1
		case c == '?' && len(b.positional) > 0:
			if b.next >= len(b.positional) {
				return fmt.Errorf("got %d positional bindings for more placeholders", len(b.positional))
			}

			b.bind(b.positional[b.next])
			b.next++
		default:
			b.out.WriteByte(c)
		}
	}

	return nil
}

// copyQuoted copies the quoted text starting at query[start] and returns the
// index of its closing quote. Doubled quotes need no special handling, they
// close one quoted run and open the next.
func (b *binder) copyQuoted(query string, start int) int {
	quote := query[start]

	i := start + 1
	for ; i < len(query); i++ {
		if b.backslash && query[i] == '\\' && quote != '`' {
			i++
			continue
		}
		if query[i] == quote {
			break
		}
	}

	if i >= len(query) {
		i = len(query) - 1
	}

	b.out.WriteString(query[start : i+1])
	return i
}

func (b *binder) bind(value interface{}) {
	b.args = append(b.args, value)

	switch b.bindType {
	case sqlx.DOLLAR:
		b.out.WriteString("$" + strconv.Itoa(len(b.args)))
	case sqlx.AT:
		b.out.WriteString("@p" + strconv.Itoa(len(b.args)))
	case sqlx.NAMED:
		b.out.WriteString(":arg" + strconv.Itoa(len(b.args)))
	default:
		b.out.WriteByte('?')
	}
}

func isNameChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
