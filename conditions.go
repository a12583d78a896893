package dbz

import "strings"

// Condition is an interface describing conditions that can be used inside
// an SQL WHERE clause. Its Parse function generates SQL with "?"
// placeholders from the condition(s) and returns the bindings for those
// placeholders (if any).
type Condition interface {
	Parse() (asSQL string, bindings []interface{})
}

// Where joins conditions with AND into a WHERE clause and its positional
// bindings, ready to be passed to Select, Update or Delete:
//
//	where, bind := dbz.Where(dbz.Eq("id", 3), dbz.IsNull("deleted_at"))
//	rows, err := db.Select("users", where, bind...)
//
// Unlike a hand-written WHERE clause, values never end up in the SQL text.
func Where(conds ...Condition) (asSQL string, bindings []interface{}) {
	if len(conds) == 1 {
		if group, ok := conds[0].(Group); ok {
			return group.join()
		}
		return conds[0].Parse()
	}

	return And(conds...).join()
}

// Comparison compares a left-value (usually a column) with a right-value
// using an operator (e.g. "=", "<>", ">=", ...)
type Comparison struct {
	Left     string
	Operator string
	Right    interface{}
}

// Group is a group of AND or OR conditions
type Group struct {
	Or         bool
	Conditions []Condition
}

// Membership is an IN or NOT IN condition
type Membership struct {
	Not    bool
	Left   string
	Values []interface{}
}

// RawCondition is a condition written directly in SQL, with "?"
// placeholders for its bindings
type RawCondition struct {
	SQL   string
	Binds []interface{}
}

// IndirectValue is a reference to a database name (e.g. column, function)
// that is used as-is in a condition rather than replaced with a placeholder
type IndirectValue struct {
	Reference string
}

// Indirect injects a string into a condition as-is rather than with a
// placeholder. Use this when comparing columns or calling database
// functions. Never use this with user-supplied input.
func Indirect(reference string) IndirectValue {
	return IndirectValue{reference}
}

// And joins conditions with AND
func And(conds ...Condition) Group {
	return Group{false, conds}
}

// Or joins conditions with OR
func Or(conds ...Condition) Group {
	return Group{true, conds}
}

// Eq is an equality condition ("=" operator)
func Eq(col string, value interface{}) Comparison {
	return Comparison{col, "=", value}
}

// Ne is a non-equality condition ("<>" operator)
func Ne(col string, value interface{}) Comparison {
	return Comparison{col, "<>", value}
}

// Gt is a greater-than condition (">" operator)
func Gt(col string, value interface{}) Comparison {
	return Comparison{col, ">", value}
}

// Gte is a greater-than-or-equals condition (">=" operator)
func Gte(col string, value interface{}) Comparison {
	return Comparison{col, ">=", value}
}

// Lt is a less-than condition ("<" operator)
func Lt(col string, value interface{}) Comparison {
	return Comparison{col, "<", value}
}

// Lte is a less-than-or-equals condition ("<=" operator)
func Lte(col string, value interface{}) Comparison {
	return Comparison{col, "<=", value}
}

// Like is a wildcard matching condition ("LIKE" operator)
func Like(col string, value interface{}) Comparison {
	return Comparison{col, "LIKE", value}
}

// NotLike is a wildcard non-matching condition ("NOT LIKE" operator)
func NotLike(col string, value interface{}) Comparison {
	return Comparison{col, "NOT LIKE", value}
}

// IsNull is a nullity condition ("IS NULL" operator)
func IsNull(col string) Comparison {
	return Comparison{col, "IS NULL", nil}
}

// IsNotNull is a non-nullity condition ("IS NOT NULL" operator)
func IsNotNull(col string) Comparison {
	return Comparison{col, "IS NOT NULL", nil}
}

// In matches a column against a list of possible values
func In(col string, values ...interface{}) Membership {
	return Membership{false, col, values}
}

// NotIn checks that a column is none of the provided values
func NotIn(col string, values ...interface{}) Membership {
	return Membership{true, col, values}
}

// SQLCond creates a condition from raw SQL. Question marks must be used
// for placeholders regardless of the database driver.
func SQLCond(condition string, binds ...interface{}) RawCondition {
	return RawCondition{condition, binds}
}

// Parse implements the Condition interface
func (c Comparison) Parse() (asSQL string, bindings []interface{}) {
	asSQL = c.Left + " " + c.Operator

	if c.Right == nil {
		return asSQL, nil
	}

	if indirect, ok := c.Right.(IndirectValue); ok {
		return asSQL + " " + indirect.Reference, nil
	}

	return asSQL + " ?", []interface{}{c.Right}
}

// Parse implements the Condition interface
func (g Group) Parse() (asSQL string, bindings []interface{}) {
	asSQL, bindings = g.join()
	return "(" + asSQL + ")", bindings
}

func (g Group) join() (asSQL string, bindings []interface{}) {
	sqls := make([]string, 0, len(g.Conditions))
	for _, cond := range g.Conditions {
		innerSQL, innerBindings := cond.Parse()
		sqls = append(sqls, innerSQL)
		bindings = append(bindings, innerBindings...)
	}

	op := " AND "
	if g.Or {
		op = " OR "
	}

	return strings.Join(sqls, op), bindings
}

// Parse implements the Condition interface
func (m Membership) Parse() (asSQL string, bindings []interface{}) {
	asSQL = m.Left
	if m.Not {
		asSQL += " NOT"
	}

	placeholders := make([]string, len(m.Values))
	for i, val := range m.Values {
		placeholders[i] = "?"
		bindings = append(bindings, val)
	}

	return asSQL + " IN (" + strings.Join(placeholders, ", ") + ")", bindings
}

// Parse implements the Condition interface
func (c RawCondition) Parse() (asSQL string, bindings []interface{}) {
	return c.SQL, c.Binds
}
