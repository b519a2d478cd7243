package template

import (
	"strings"

	"github.com/leapstack-labs/kerygma/pkg/core"
)

// MaxConditionalPasses bounds the number of resolution passes per render.
// Each pass removes at least one conditional from well-formed input, so the
// bound is only reached by pathological nesting depth.
const MaxConditionalPasses = 256

// ResolveConditionals replaces every complete {{#if}} construct with the
// trimmed branch selected by the truthiness of its path. Innermost constructs
// resolve first; passes repeat until the text stops changing.
// Unmatched tags are left in the text.
func ResolveConditionals(text string, ctx core.Value) (string, error) {
	return resolveConditionals(text, ctx, "")
}

func resolveConditionals(text string, ctx core.Value, templateID string) (string, error) {
	for pass := 0; pass < MaxConditionalPasses; pass++ {
		next, changed := resolvePass(text, ctx)
		if !changed {
			return text, nil
		}
		text = next
	}
	if _, changed := resolvePass(text, ctx); !changed {
		return text, nil
	}

	return "", NewLimitError(firstTagPosition(text), templateID, MaxConditionalPasses)
}

// resolvePass resolves every innermost IF...ENDIF pair in one scan.
// An IF opens a candidate; a later IF replaces it, so only pairs with no
// nested IF between them are resolved. The first ELSE after the open IF
// splits its branches.
func resolvePass(text string, ctx core.Value) (string, bool) {
	tokens := NewLexer(text, "").Tokenize()

	var b strings.Builder
	emitted := 0
	open, elseAt := -1, -1
	changed := false

	for i, tok := range tokens {
		switch tok.Type {
		case TokenIf:
			open, elseAt = i, -1
		case TokenElse:
			if open >= 0 && elseAt < 0 {
				elseAt = i
			}
		case TokenEndIf:
			if open < 0 {
				continue
			}
			ifTok := tokens[open]
			b.WriteString(text[emitted:ifTok.Offset])
			b.WriteString(selectBranch(text, ctx, ifTok, elseTokenAt(tokens, elseAt), tok))
			emitted = tok.End()
			open, elseAt = -1, -1
			changed = true
		}
	}

	if !changed {
		return text, false
	}
	b.WriteString(text[emitted:])
	return b.String(), true
}

func elseTokenAt(tokens []Token, i int) *Token {
	if i < 0 {
		return nil
	}
	return &tokens[i]
}

// selectBranch returns the trimmed branch of one construct.
func selectBranch(text string, ctx core.Value, ifTok Token, elseTok *Token, endTok Token) string {
	value, _ := core.Lookup(ctx, ifTok.Value)

	if core.Truthy(value) {
		end := endTok.Offset
		if elseTok != nil {
			end = elseTok.Offset
		}
		return strings.TrimSpace(text[ifTok.End():end])
	}

	if elseTok == nil {
		return ""
	}
	return strings.TrimSpace(text[elseTok.End():endTok.Offset])
}

func firstTagPosition(text string) Position {
	for _, tok := range NewLexer(text, "").Tokenize() {
		if tok.Type != TokenText {
			return tok.Pos
		}
	}
	return Position{Line: 1, Column: 1}
}
