package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var grammarInput = `
import "pe"
rule first : aTag {
	meta:
		author = "someone"
		score = 42
		active = true
	strings:
		$a = "text"
		$b = { FF ?? D8 }
		$c = /state: (on|off)/i nocase
	condition:
		any of them
}

include "shared.yar"
global private rule second {
	condition:
		uint32(0) == 0xE011CFD0
}
`

func TestGrammarParsesSameLanguage(t *testing.T) {
	file, err := parseGrammar(grammarInput)
	require.NoError(t, err)

	var imports, includes int
	var rules []*RuleGrammar
	for _, stmt := range file.Stmts {
		switch {
		case stmt.Import != nil:
			imports++
			require.Equal(t, `"pe"`, *stmt.Import)
		case stmt.Include != nil:
			includes++
			require.Equal(t, `"shared.yar"`, *stmt.Include)
		case stmt.Rule != nil:
			rules = append(rules, stmt.Rule)
		}
	}
	require.Equal(t, 1, imports)
	require.Equal(t, 1, includes)
	require.Len(t, rules, 2)

	first := rules[0]
	require.Equal(t, "first", first.Name)
	require.Equal(t, []string{"aTag"}, first.Tags)
	require.NotNil(t, first.Meta)
	require.Len(t, first.Meta.Entries, 3)
	require.Equal(t, "author", first.Meta.Entries[0].Key)
	require.NotNil(t, first.Meta.Entries[0].StringValue)
	require.Equal(t, `"someone"`, *first.Meta.Entries[0].StringValue)
	require.NotNil(t, first.Meta.Entries[1].IntValue)
	require.Equal(t, int64(42), *first.Meta.Entries[1].IntValue)
	require.NotNil(t, first.Meta.Entries[2].BoolValue)
	require.Equal(t, "true", *first.Meta.Entries[2].BoolValue)

	require.NotNil(t, first.Strings)
	require.Len(t, first.Strings.Defs, 3)
	require.Equal(t, "$b", first.Strings.Defs[1].Name)
	require.Equal(t, "{ FF ?? D8 }", first.Strings.Defs[1].Value)
	require.Equal(t, "/state: (on|off)/i", first.Strings.Defs[2].Value)
	require.Equal(t, []string{"nocase"}, first.Strings.Defs[2].Modifiers)

	second := rules[1]
	require.Equal(t, []string{"global", "private"}, second.Scopes)
	require.Nil(t, second.Meta)
	require.Nil(t, second.Strings)
	require.Equal(t, []string{"uint32", "(", "0", ")", "==", "0xE011CFD0"}, second.Condition.Tokens)
}

// Both front ends share one lexer, so they must agree rule by rule.
func TestGrammarMatchesAssembler(t *testing.T) {
	rs, err := New().Parse(grammarInput)
	require.NoError(t, err)

	file, err := parseGrammar(grammarInput)
	require.NoError(t, err)

	var rules []*RuleGrammar
	for _, stmt := range file.Stmts {
		if stmt.Rule != nil {
			rules = append(rules, stmt.Rule)
		}
	}
	require.Len(t, rules, len(rs.Rules))

	for i, want := range rs.Rules {
		got := rules[i]
		require.Equal(t, want.Name, got.Name)
		require.Equal(t, want.Tags, got.Tags)
		require.Equal(t, want.Condition, got.Condition.Tokens)

		var wantStrings, gotStrings int
		if want.Strings != nil {
			wantStrings = len(want.Strings)
		}
		if got.Strings != nil {
			gotStrings = len(got.Strings.Defs)
		}
		require.Equal(t, wantStrings, gotStrings)
		for j := 0; j < wantStrings; j++ {
			require.Equal(t, want.Strings[j].Name, got.Strings.Defs[j].Name)
			require.Equal(t, want.Strings[j].Value, got.Strings.Defs[j].Value)
			require.Equal(t, want.Strings[j].Modifiers, got.Strings.Defs[j].Modifiers)
		}
	}
}

func TestGrammarRejectsMissingCondition(t *testing.T) {
	_, err := parseGrammar(`rule broken { strings: $ = "x" }`)
	require.Error(t, err)
}
