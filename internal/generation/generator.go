// internal/generation/generator.go

// Package generation adapts the external text-generation capability into the
// outreach pipeline. The capability is a narrow interface so tests can
// inject a fake; every failure of the live capability is absorbed locally by
// a deterministic fallback template, never surfaced to the caller.
package generation

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Generator is the external text-generation capability: prompt in, prose
// out, may fail or time out.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, system, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, system, prompt string) (string, error) {
	return f(ctx, system, prompt)
}

// MaxBodyLength caps generated bodies so a runaway model cannot produce an
// unbounded email.
const MaxBodyLength = 8000

// Sanitize strips control characters (newlines and tabs excepted) and
// enforces the body length cap.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	if len(out) > MaxBodyLength {
		// Back off to a rune boundary so the cap never splits a
		// multi-byte character.
		cut := MaxBodyLength
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return out
}
