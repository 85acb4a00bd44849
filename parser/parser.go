// Package parser parses YARA rule source text into ast records.
//
// The parser recognizes YARA's lexical grammar, including the
// context-sensitive parts (hex string bodies, regex literals, comments in
// both forms), and assembles one record per rule declaration. Conditions are
// kept as flat token sequences; no expression tree is built and no semantic
// validation is performed.
package parser

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yarahq/yarp/ast"
)

// Parser parses YARA rules. The zero value is ready to use and a single
// instance may be reused across inputs; every Parse call starts from a clean
// state.
type Parser struct {
	// StoreRawSections records the verbatim source text of each rule's
	// meta, strings and condition sections on the emitted records.
	StoreRawSections bool
}

// New creates a new YARA parser.
func New() *Parser {
	return &Parser{}
}

// Parse parses YARA rules from a string. Import and include directives
// accumulate across the input and attach to every subsequent rule. On error
// no records are returned.
func (p *Parser) Parse(input string) (*ast.RuleSet, error) {
	r := &parseRun{
		storeRaw: p.StoreRawSections,
		input:    input,
		lx:       newLexer(input),
	}
	return r.parse()
}

// ParseFile parses YARA rules from a file.
func (p *Parser) ParseFile(filename string) (*ast.RuleSet, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return p.Parse(string(content))
}

// parseRun holds the state of a single Parse call, so the Parser itself
// stays reusable.
type parseRun struct {
	storeRaw bool
	input    string
	lx       *yaraLexer
	cur      token

	imports  []string
	includes []string
}

func (r *parseRun) advance() error {
	t, err := r.lx.next()
	if err != nil {
		return err
	}
	r.cur = t
	return nil
}

func (r *parseRun) errf(t token, format string, args ...any) *ParseError {
	line, col := lineCol(r.input, t.off)
	return &ParseError{Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

func describe(t token) string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.kind, t.val)
}

func (r *parseRun) expectPunct(v string) (token, error) {
	if r.cur.kind != tokPunct || r.cur.val != v {
		return token{}, r.errf(r.cur, "expected %q, got %s", v, describe(r.cur))
	}
	t := r.cur
	return t, r.advance()
}

func (r *parseRun) parse() (*ast.RuleSet, error) {
	if err := r.advance(); err != nil {
		return nil, err
	}

	rs := &ast.RuleSet{}
	var scopes []string

	for r.cur.kind != tokEOF {
		if r.cur.kind != tokKeyword {
			return nil, r.errf(r.cur, "expected rule, import or include, got %s", describe(r.cur))
		}
		switch r.cur.val {
		case "import", "include":
			if len(scopes) > 0 {
				return nil, r.errf(r.cur, "%s directive not allowed between scope and rule", r.cur.val)
			}
			directive := r.cur.val
			if err := r.advance(); err != nil {
				return nil, err
			}
			if r.cur.kind != tokString {
				return nil, r.errf(r.cur, "expected quoted string after %s, got %s", directive, describe(r.cur))
			}
			if directive == "import" {
				r.imports = appendUnique(r.imports, r.cur.val)
			} else {
				r.includes = appendUnique(r.includes, r.cur.val)
			}
			if err := r.advance(); err != nil {
				return nil, err
			}
		case "global", "private":
			scopes = appendUnique(scopes, r.cur.val)
			if err := r.advance(); err != nil {
				return nil, err
			}
		case "rule":
			rule, err := r.parseRule(scopes)
			if err != nil {
				return nil, err
			}
			scopes = nil
			rs.Rules = append(rs.Rules, rule)
		default:
			return nil, r.errf(r.cur, "unexpected keyword %q at file scope", r.cur.val)
		}
	}

	if len(scopes) > 0 {
		return nil, r.errf(r.cur, "expected 'rule' after scope keyword")
	}
	return rs, nil
}

// Rule body sections must appear in meta, strings, condition order.
const (
	sectionNone = iota
	sectionMeta
	sectionStrings
	sectionCondition
)

func (r *parseRun) parseRule(scopes []string) (*ast.Rule, error) {
	// cur is the 'rule' keyword
	if err := r.advance(); err != nil {
		return nil, err
	}
	if r.cur.kind != tokIdent {
		return nil, r.errf(r.cur, "expected rule name, got %s", describe(r.cur))
	}

	rule := &ast.Rule{
		Name:     r.cur.val,
		Scopes:   scopes,
		Imports:  cloneNonEmpty(r.imports),
		Includes: cloneNonEmpty(r.includes),
	}
	if err := r.advance(); err != nil {
		return nil, err
	}

	if r.cur.kind == tokPunct && r.cur.val == ":" {
		if err := r.advance(); err != nil {
			return nil, err
		}
		for r.cur.kind == tokIdent {
			rule.Tags = append(rule.Tags, r.cur.val)
			if err := r.advance(); err != nil {
				return nil, err
			}
		}
		if len(rule.Tags) == 0 {
			return nil, r.errf(r.cur, "expected at least one tag after ':'")
		}
	}

	if _, err := r.expectPunct("{"); err != nil {
		return nil, err
	}

	stage := sectionNone
	for {
		switch {
		case r.cur.kind == tokKeyword && r.cur.val == "meta":
			if stage >= sectionMeta {
				return nil, r.errf(r.cur, "unexpected meta section")
			}
			stage = sectionMeta
			if err := r.parseMeta(rule); err != nil {
				return nil, err
			}
		case r.cur.kind == tokKeyword && r.cur.val == "strings":
			if stage >= sectionStrings {
				return nil, r.errf(r.cur, "unexpected strings section")
			}
			stage = sectionStrings
			if err := r.parseStrings(rule); err != nil {
				return nil, err
			}
		case r.cur.kind == tokKeyword && r.cur.val == "condition":
			if stage >= sectionCondition {
				return nil, r.errf(r.cur, "unexpected condition section")
			}
			stage = sectionCondition
			if err := r.parseCondition(rule); err != nil {
				return nil, err
			}
		case r.cur.kind == tokPunct && r.cur.val == "}":
			if stage < sectionCondition {
				return nil, r.errf(r.cur, "rule %q has no condition section", rule.Name)
			}
			if err := r.advance(); err != nil {
				return nil, err
			}
			return rule, nil
		case r.cur.kind == tokEOF:
			return nil, r.errf(r.cur, "unexpected end of input in rule %q", rule.Name)
		case r.cur.kind == tokIdent && (r.cur.val == "import" || r.cur.val == "include"):
			return nil, r.errf(r.cur, "%s directive not allowed inside a rule", r.cur.val)
		default:
			return nil, r.errf(r.cur, "unexpected %s in rule %q", describe(r.cur), rule.Name)
		}
	}
}

func (r *parseRun) parseMeta(rule *ast.Rule) error {
	if err := r.advance(); err != nil {
		return err
	}
	colon, err := r.expectPunct(":")
	if err != nil {
		return err
	}

	for r.cur.kind == tokIdent {
		key := r.cur.val
		if err := r.advance(); err != nil {
			return err
		}
		if _, err := r.expectPunct("="); err != nil {
			return err
		}

		var value any
		switch r.cur.kind {
		case tokString:
			value = unquoteString(r.cur.val)
		case tokInt:
			value = r.cur.num
		case tokIdent:
			switch r.cur.val {
			case "true":
				value = true
			case "false":
				value = false
			default:
				return r.errf(r.cur, "invalid meta value %q", r.cur.val)
			}
		default:
			return r.errf(r.cur, "expected meta value, got %s", describe(r.cur))
		}
		if err := r.advance(); err != nil {
			return err
		}
		rule.Meta = append(rule.Meta, &ast.MetaEntry{Key: key, Value: value})
	}

	if r.storeRaw {
		rule.RawMeta = r.input[colon.end:r.cur.off]
	}
	return nil
}

func (r *parseRun) parseStrings(rule *ast.Rule) error {
	if err := r.advance(); err != nil {
		return err
	}
	colon, err := r.expectPunct(":")
	if err != nil {
		return err
	}

	for r.cur.kind == tokStringID {
		def := &ast.StringDef{Name: r.cur.val}
		if err := r.advance(); err != nil {
			return err
		}
		if _, err := r.expectPunct("="); err != nil {
			return err
		}

		switch r.cur.kind {
		case tokString:
			def.Type = ast.TypeText
		case tokHex:
			def.Type = ast.TypeHex
		case tokRegex:
			def.Type = ast.TypeRegex
		default:
			return r.errf(r.cur, "expected text, hex or regex string value, got %s", describe(r.cur))
		}
		def.Value = r.cur.val
		if err := r.advance(); err != nil {
			return err
		}

		for r.cur.kind == tokModifier {
			def.Modifiers = append(def.Modifiers, r.cur.val)
			if err := r.advance(); err != nil {
				return err
			}
		}
		rule.Strings = append(rule.Strings, def)
	}

	if r.storeRaw {
		rule.RawStrings = r.input[colon.end:r.cur.off]
	}
	return nil
}

func (r *parseRun) parseCondition(rule *ast.Rule) error {
	if err := r.advance(); err != nil {
		return err
	}
	colon, err := r.expectPunct(":")
	if err != nil {
		return err
	}

	for r.cur.kind == tokCond {
		rule.Condition = append(rule.Condition, r.cur.val)
		if err := r.advance(); err != nil {
			return err
		}
	}
	if len(rule.Condition) == 0 {
		return r.errf(r.cur, "empty condition in rule %q", rule.Name)
	}

	if r.storeRaw {
		rule.RawCondition = r.input[colon.end:r.cur.off]
	}
	return nil
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

func cloneNonEmpty(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	return append([]string(nil), list...)
}

// unquoteString strips the surrounding quotes from a text literal and
// resolves its escape sequences. Used for metadata values; string
// definitions keep their source form.
func unquoteString(s string) string {
	if len(s) < 2 {
		return s
	}
	s = s[1 : len(s)-1]

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'x':
			if i+2 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
					b.WriteByte(byte(v))
					i += 2
					continue
				}
			}
			b.WriteByte('\\')
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
