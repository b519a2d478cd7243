package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_PlainText(t *testing.T) {
	input := "Hello {{ name }}, welcome"
	tokens := NewLexer(input, "test.md").Tokenize()

	require.Len(t, tokens, 2, "expected 2 tokens") // TEXT + EOF

	assert.Equal(t, TokenText, tokens[0].Type, "expected TEXT")
	assert.Equal(t, input, tokens[0].Raw, "interpolation markers stay in text")
	assert.Equal(t, TokenEOF, tokens[1].Type, "expected EOF")
}

func TestLexer_Conditional(t *testing.T) {
	input := "{{#if repo.url}}link{{#else}}none{{/if}}"
	tokens := NewLexer(input, "test.md").Tokenize()

	expected := []struct {
		typ TokenType
		val string
		raw string
	}{
		{TokenIf, "repo.url", "{{#if repo.url}}"},
		{TokenText, "link", "link"},
		{TokenElse, "", "{{#else}}"},
		{TokenText, "none", "none"},
		{TokenEndIf, "", "{{/if}}"},
		{TokenEOF, "", ""},
	}

	require.Len(t, tokens, len(expected), "wrong number of tokens")

	for i, exp := range expected {
		assert.Equal(t, exp.typ, tokens[i].Type, "token[%d] type", i)
		assert.Equal(t, exp.val, tokens[i].Value, "token[%d] value", i)
		assert.Equal(t, exp.raw, tokens[i].Raw, "token[%d] raw", i)
		assert.Equal(t, exp.raw, input[tokens[i].Offset:tokens[i].End()], "token[%d] offsets", i)
	}
}

func TestLexer_IfTagVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		isTag bool
		path  string
	}{
		{"plain", "{{#if a}}", true, "a"},
		{"dotted", "{{#if event.tags}}", true, "event.tags"},
		{"trailing space", "{{#if a  }}", true, "a"},
		{"newline before path", "{{#if\na}}", true, "a"},
		{"unicode path", "{{#if projet.été}}", true, "projet.été"},
		{"missing space", "{{#ifa}}", false, ""},
		{"missing path", "{{#if }}", false, ""},
		{"boolean operator", "{{#if a and b}}", false, ""},
		{"unclosed", "{{#if a", false, ""},
		{"space before hash", "{{ #if a}}", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := NewLexer(tt.input, "").Tokenize()
			if !tt.isTag {
				require.Len(t, tokens, 2)
				assert.Equal(t, TokenText, tokens[0].Type)
				assert.Equal(t, tt.input, tokens[0].Raw)
				return
			}
			require.Len(t, tokens, 2)
			assert.Equal(t, TokenIf, tokens[0].Type)
			assert.Equal(t, tt.path, tokens[0].Value)
		})
	}
}

func TestLexer_BraceRuns(t *testing.T) {
	tokens := NewLexer("{{{#if a}}x{{/if}}", "").Tokenize()

	expectedTypes := []TokenType{TokenText, TokenIf, TokenText, TokenEndIf, TokenEOF}
	require.Len(t, tokens, len(expectedTypes))
	for i, exp := range expectedTypes {
		assert.Equal(t, exp, tokens[i].Type, "token[%d] type", i)
	}
	assert.Equal(t, "{", tokens[0].Raw)
	assert.Equal(t, 1, tokens[1].Offset)
}

func TestLexer_ChannelMarkersAreText(t *testing.T) {
	input := "{{#channel mastodon}}hi{{/channel}}"
	tokens := NewLexer(input, "").Tokenize()

	require.Len(t, tokens, 2)
	assert.Equal(t, TokenText, tokens[0].Type)
	assert.Equal(t, input, tokens[0].Raw)
}

func TestLexer_PositionTracking(t *testing.T) {
	input := "line1\nline2 {{#if x}}\n{{/if}}"
	tokens := NewLexer(input, "post.md").Tokenize()

	require.Len(t, tokens, 5)

	ifTok := tokens[1]
	assert.Equal(t, TokenIf, ifTok.Type)
	assert.Equal(t, Position{File: "post.md", Line: 2, Column: 7}, ifTok.Pos)

	endTok := tokens[3]
	assert.Equal(t, TokenEndIf, endTok.Type)
	assert.Equal(t, 3, endTok.Pos.Line)
	assert.Equal(t, 1, endTok.Pos.Column)
}

func TestLexer_Empty(t *testing.T) {
	tokens := NewLexer("", "").Tokenize()
	require.Len(t, tokens, 1)
	assert.Equal(t, TokenEOF, tokens[0].Type)
}

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "IF", TokenIf.String())
	assert.Equal(t, "ELSE", TokenElse.String())
	assert.Equal(t, "ENDIF", TokenEndIf.String())
	assert.Equal(t, "UNKNOWN", TokenType(99).String())
}
