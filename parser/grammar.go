package parser

// Struct-tag grammar for the participle parser. This is an alternative front
// end over the same mode-stack lexer; the hand-written assembler in
// parser.go is the primary one, and the two are cross-checked in tests.

import (
	"io"

	"github.com/alecthomas/participle/v2"
	plexer "github.com/alecthomas/participle/v2/lexer"
)

// File represents a complete YARA file: rules interleaved with import and
// include directives.
type File struct {
	Stmts []*Statement `parser:"@@*"`
}

// Statement is a single file-scope construct.
type Statement struct {
	Import  *string      `parser:"'import' @String"`
	Include *string      `parser:"| 'include' @String"`
	Rule    *RuleGrammar `parser:"| @@"`
}

// RuleGrammar represents a YARA rule in the grammar.
type RuleGrammar struct {
	Scopes    []string         `parser:"@('global' | 'private')*"`
	Name      string           `parser:"'rule' @Ident"`
	Tags      []string         `parser:"(':' @Ident+)?"`
	Meta      *MetaSection     `parser:"'{' @@?"`
	Strings   *StringsSection  `parser:"@@?"`
	Condition *ConditionClause `parser:"@@ '}'"`
}

// MetaSection represents the meta: section of a rule.
type MetaSection struct {
	Entries []*MetaEntryGrammar `parser:"'meta' ':' @@*"`
}

// MetaEntryGrammar represents a single meta entry.
type MetaEntryGrammar struct {
	Key         string  `parser:"@Ident '='"`
	StringValue *string `parser:"( @String"`
	IntValue    *int64  `parser:"| @Int"`
	BoolValue   *string `parser:"| @('true' | 'false') )"`
}

// StringsSection represents the strings: section of a rule.
type StringsSection struct {
	Defs []*StringDefGrammar `parser:"'strings' ':' @@+"`
}

// StringDefGrammar represents a string definition.
type StringDefGrammar struct {
	Name      string   `parser:"@StringID '='"`
	Value     string   `parser:"@(String | Hex | Regex)"`
	Modifiers []string `parser:"@Modifier*"`
}

// ConditionClause represents the condition: section as a flat token list.
type ConditionClause struct {
	Tokens []string `parser:"'condition' ':' @Cond+"`
}

// yaraDefinition adapts the mode-stack lexer to participle's lexer
// interface so both front ends tokenize identically.
type yaraDefinition struct{}

var grammarSymbols = map[string]plexer.TokenType{
	"EOF":      plexer.EOF,
	"Keyword":  -2,
	"Ident":    -3,
	"Punct":    -4,
	"Int":      -5,
	"String":   -6,
	"Hex":      -7,
	"Regex":    -8,
	"StringID": -9,
	"Modifier": -10,
	"Cond":     -11,
}

var kindTypes = map[tokenKind]plexer.TokenType{
	tokEOF:      plexer.EOF,
	tokKeyword:  -2,
	tokIdent:    -3,
	tokPunct:    -4,
	tokInt:      -5,
	tokString:   -6,
	tokHex:      -7,
	tokRegex:    -8,
	tokStringID: -9,
	tokModifier: -10,
	tokCond:     -11,
}

func (yaraDefinition) Symbols() map[string]plexer.TokenType {
	return grammarSymbols
}

func (d yaraDefinition) Lex(filename string, r io.Reader) (plexer.Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return d.LexString(filename, string(data))
}

func (yaraDefinition) LexString(filename, input string) (plexer.Lexer, error) {
	return &grammarLexer{filename: filename, input: input, lx: newLexer(input)}, nil
}

type grammarLexer struct {
	filename string
	input    string
	lx       *yaraLexer
}

func (g *grammarLexer) Next() (plexer.Token, error) {
	t, err := g.lx.next()
	if err != nil {
		return plexer.Token{}, err
	}
	line, col := lineCol(g.input, t.off)
	return plexer.Token{
		Type:  kindTypes[t.kind],
		Value: t.val,
		Pos: plexer.Position{
			Filename: g.filename,
			Offset:   t.off,
			Line:     line,
			Column:   col,
		},
	}, nil
}

var grammarParser = participle.MustBuild[File](
	participle.Lexer(yaraDefinition{}),
	participle.UseLookahead(2),
)

// parseGrammar runs the struct-tag grammar over input.
func parseGrammar(input string) (*File, error) {
	return grammarParser.ParseString("", input)
}
