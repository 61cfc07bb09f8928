package graph

import "strings"

// Statement is a typed Cypher statement: clause fragments written by the
// repositories plus a bound parameter map. Caller input only ever enters a
// statement through Param, never through string concatenation.
type Statement struct {
	clauses []string
	params  map[string]any
}

func NewStatement() *Statement {
	return &Statement{params: make(map[string]any)}
}

func (s *Statement) add(keyword, body string) *Statement {
	s.clauses = append(s.clauses, keyword+" "+body)
	return s
}

func (s *Statement) Match(patterns ...string) *Statement {
	return s.add("MATCH", strings.Join(patterns, ", "))
}

func (s *Statement) OptionalMatch(pattern string) *Statement {
	return s.add("OPTIONAL MATCH", pattern)
}

func (s *Statement) Where(condition string) *Statement {
	return s.add("WHERE", condition)
}

func (s *Statement) Merge(pattern string) *Statement {
	return s.add("MERGE", pattern)
}

func (s *Statement) Create(pattern string) *Statement {
	return s.add("CREATE", pattern)
}

func (s *Statement) Set(expr string) *Statement {
	return s.add("SET", expr)
}

// OnCreateSet даёт merge-with-on-create семантику: свойства выставляются
// только если узел/ребро создаётся, иначе остаются как есть.
func (s *Statement) OnCreateSet(expr string) *Statement {
	return s.add("ON CREATE SET", expr)
}

func (s *Statement) Delete(expr string) *Statement {
	return s.add("DELETE", expr)
}

func (s *Statement) With(expr string) *Statement {
	return s.add("WITH", expr)
}

func (s *Statement) Return(expr string) *Statement {
	return s.add("RETURN", expr)
}

func (s *Statement) OrderBy(expr string) *Statement {
	return s.add("ORDER BY", expr)
}

// Param binds a named parameter. The last write for a name wins.
func (s *Statement) Param(name string, value any) *Statement {
	s.params[name] = value
	return s
}

func (s *Statement) Cypher() string {
	return strings.Join(s.clauses, "\n")
}

func (s *Statement) Parameters() map[string]any {
	return s.params
}
