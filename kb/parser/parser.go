// Package parser reads the text form of graph queries.
//
//	query    := pattern ( "_AND_" | ";" ) pattern ...
//	pattern  := term predicate term
//	term     := [Type ":"] ID | "?" Name [ "(" Type ")" ]
//	predicate:= word | "?" Name [ "(" SubjectType "," ObjectType ")" ]
//
// Tokens are split with shell quoting rules, so ids containing spaces can be
// quoted. A type prefix is only recognised for known entity types, which
// keeps ids such as MESH:D008687 intact.
package parser

import (
	"regexp"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/litgraph/kb/queryerr"
	"github.com/teranos/litgraph/kb/types"
)

// Separators between patterns
const (
	SeparatorAnd       = "_AND_"
	SeparatorSemicolon = ";"
)

var variablePattern = regexp.MustCompile(`^\?([A-Za-z_][A-Za-z0-9_]*)(?:\(([^()]*)\))?$`)

// Parse reads a graph query from its text form
func Parse(text string) (*types.GraphQuery, error) {
	return ParseArgs([]string{text})
}

// ParseArgs reads a graph query from command-line arguments. Each argument is
// tokenized separately, so an argument may hold one token or whole patterns.
func ParseArgs(args []string) (*types.GraphQuery, error) {
	var tokens []string
	for _, arg := range args {
		split, err := shellquote.Split(arg)
		if err != nil {
			return nil, queryerr.InvalidPattern(arg, err.Error())
		}
		tokens = append(tokens, split...)
	}

	var patterns []types.FactPattern
	for _, group := range splitPatterns(tokens) {
		p, err := parsePattern(group)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return types.NewGraphQuery(patterns...), nil
}

// splitPatterns groups tokens into patterns at separator tokens.
// A trailing ';' glued to a token also ends the pattern.
func splitPatterns(tokens []string) [][]string {
	var groups [][]string
	var current []string
	flush := func() {
		if len(current) > 0 {
			groups = append(groups, current)
			current = nil
		}
	}

	for _, tok := range tokens {
		switch {
		case tok == SeparatorAnd || tok == SeparatorSemicolon:
			flush()
		case len(tok) > 1 && strings.HasSuffix(tok, SeparatorSemicolon):
			current = append(current, strings.TrimSuffix(tok, SeparatorSemicolon))
			flush()
		default:
			current = append(current, tok)
		}
	}
	flush()
	return groups
}

func parsePattern(tokens []string) (types.FactPattern, error) {
	text := strings.Join(tokens, " ")
	if len(tokens) != 3 {
		return types.FactPattern{}, queryerr.InvalidPattern(text, "expected SUBJECT PREDICATE OBJECT")
	}

	subject, err := parseEntityTerm(tokens[0], text)
	if err != nil {
		return types.FactPattern{}, err
	}
	predicate, err := parsePredicateTerm(tokens[1], text)
	if err != nil {
		return types.FactPattern{}, err
	}
	object, err := parseEntityTerm(tokens[2], text)
	if err != nil {
		return types.FactPattern{}, err
	}
	return types.FactPattern{Subject: subject, Predicate: predicate, Object: object}, nil
}

func parseEntityTerm(tok, pattern string) (types.Term, error) {
	if strings.HasPrefix(tok, "?") {
		name, constraint, err := parseVariable(tok, pattern)
		if err != nil {
			return types.Term{}, err
		}
		if strings.Contains(constraint, ",") {
			return types.Term{}, queryerr.InvalidPattern(pattern, "type signature is only valid on predicate variables")
		}
		if constraint != "" && !types.IsEntityType(constraint) {
			return types.Term{}, queryerr.InvalidPattern(pattern, "unknown entity type "+constraint)
		}
		return types.Var(name, constraint), nil
	}

	if typ, id, found := strings.Cut(tok, ":"); found && types.IsEntityType(typ) {
		if id == "" {
			return types.Term{}, queryerr.InvalidPattern(pattern, "missing id after "+typ+":")
		}
		return types.Entity(id, typ), nil
	}
	return types.Entity(tok, ""), nil
}

func parsePredicateTerm(tok, pattern string) (types.Term, error) {
	if !strings.HasPrefix(tok, "?") {
		return types.Predicate(tok), nil
	}

	name, signature, err := parseVariable(tok, pattern)
	if err != nil {
		return types.Term{}, err
	}
	if signature == "" {
		return types.PredicateVar(name, "", ""), nil
	}

	subjectType, objectType, found := strings.Cut(signature, ",")
	if !found {
		return types.Term{}, queryerr.InvalidPattern(pattern, "predicate variable signature must be (SubjectType,ObjectType)")
	}
	subjectType, objectType = strings.TrimSpace(subjectType), strings.TrimSpace(objectType)
	for _, t := range []string{subjectType, objectType} {
		if t != "" && !types.IsEntityType(t) {
			return types.Term{}, queryerr.InvalidPattern(pattern, "unknown entity type "+t)
		}
	}
	return types.PredicateVar(name, subjectType, objectType), nil
}

func parseVariable(tok, pattern string) (name, constraint string, err error) {
	m := variablePattern.FindStringSubmatch(tok)
	if m == nil {
		return "", "", queryerr.InvalidPattern(pattern, "malformed variable "+tok)
	}
	return m[1], strings.TrimSpace(m[2]), nil
}
