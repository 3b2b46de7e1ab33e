// Package corpus generates random-but-valid Ash token streams for lexer
// benchmarks and fuzz seeding. Adapted from
// go.maqui.dev/internal/test.GetRandomTokens, regenerated for Ash's
// keyword/operator/literal set rather than Maqui's handful of C-like
// tokens.
package corpus

import (
	"math/rand"
	"strings"
)

const validLexemes = "func;main;(;);{;};export;mutable;const;if;else;loop;while;in;inline;break;continue;return;defer;match;case;true;false;null;unreachable;and;or;try;\"a string\";\"\";42;3.14;0xFF;1_000;'a';+;-;*;/;==;!=;<=;>=;->;=>;::;..;...;&&;||;x;y;Int32;// a comment\n;\n"

// GetRandomTokens returns size space-separated lexemes drawn from Ash's
// grammar, a valid (if semantically meaningless) token stream.
func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

// GetRandomTokensWithSep is GetRandomTokens with a caller-chosen separator,
// letting callers probe whitespace-insensitivity in the lexer.
func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validLexemes, ";")

	toks := make([]string, 0, size)
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}
