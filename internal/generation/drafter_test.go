package generation_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spsmiles/outreach-backend/internal/generation"
	"github.com/spsmiles/outreach-backend/internal/model"
	"github.com/spsmiles/outreach-backend/internal/pricing"
)

func intPtr(n int) *int { return &n }

func int64Ptr(n int64) *int64 { return &n }

func fixtures() (*model.School, *model.Contact, *model.Campaign) {
	school := &model.School{
		Name:         "Acacia Primary",
		Address:      "14 Acacia Rd",
		Province:     "KwaZulu-Natal",
		StudentCount: intPtr(500),
	}
	contact := &model.Contact{Name: "Mrs. Dlamini", Email: "head@acacia.za", Position: model.PositionPrincipal}
	campaign := &model.Campaign{Name: "Term 2 Screening Drive"}
	return school, contact, campaign
}

func failingGen() generation.Generator {
	return generation.GeneratorFunc(func(ctx context.Context, system, prompt string) (string, error) {
		return "", fmt.Errorf("capability unavailable")
	})
}

func TestDraftUsesGeneratorOutput(t *testing.T) {
	var gotPrompt string
	gen := generation.GeneratorFunc(func(ctx context.Context, system, prompt string) (string, error) {
		gotPrompt = prompt
		return "Dear Mrs. Dlamini,\n\nWe would love to visit Acacia Primary.", nil
	})
	d := generation.NewDrafter(gen, "R", "S&P Smiles Co.", "team@spsmiles.example")

	school, contact, campaign := fixtures()
	quote := pricing.Quote{PricePerLearnerCents: 3600, TotalEstimateCents: int64Ptr(1800000)}

	draft := d.Draft(context.Background(), school, contact, campaign, quote)
	assert.False(t, draft.Fallback)
	assert.Equal(t, "Dental Screening Partnership Opportunity for Acacia Primary", draft.Subject)
	assert.Contains(t, draft.Body, "Acacia Primary")

	// The computed price is part of the prompt so the model never invents one.
	assert.Contains(t, gotPrompt, "R36 per learner")
	assert.Contains(t, gotPrompt, "R18000")
}

func TestDraftFallsBackWhenGeneratorFails(t *testing.T) {
	d := generation.NewDrafter(failingGen(), "R", "S&P Smiles Co.", "team@spsmiles.example")

	school, contact, campaign := fixtures()
	quote := pricing.Quote{PricePerLearnerCents: 3600, TotalEstimateCents: int64Ptr(1800000)}

	draft := d.Draft(context.Background(), school, contact, campaign, quote)
	require.True(t, draft.Fallback)
	assert.NotEmpty(t, draft.Subject)
	assert.NotEmpty(t, draft.Body)
	assert.Contains(t, draft.Body, "Dear Mrs. Dlamini")
	assert.Contains(t, draft.Body, "R36 per learner")
	assert.Contains(t, draft.Body, "R18000")
}

func TestDraftFallsBackOnEmptyCompletion(t *testing.T) {
	gen := generation.GeneratorFunc(func(ctx context.Context, system, prompt string) (string, error) {
		return " \x00\x01 ", nil
	})
	d := generation.NewDrafter(gen, "R", "S&P Smiles Co.", "team@spsmiles.example")

	school, contact, campaign := fixtures()
	draft := d.Draft(context.Background(), school, contact, campaign, pricing.Quote{PricePerLearnerCents: 5700})
	assert.True(t, draft.Fallback)
	assert.NotEmpty(t, draft.Body)
}

func TestDraftOmitsTotalWhenCountUnknown(t *testing.T) {
	d := generation.NewDrafter(failingGen(), "R", "S&P Smiles Co.", "team@spsmiles.example")

	school, contact, campaign := fixtures()
	school.StudentCount = nil

	draft := d.Draft(context.Background(), school, contact, campaign, pricing.Quote{PricePerLearnerCents: 5700})
	assert.Contains(t, draft.Body, "R57 per learner")
	assert.NotContains(t, draft.Body, "estimated total")
}

func TestSanitizeStripsControlCharacters(t *testing.T) {
	in := "Hello\x00 world\r\nnew line\tkept\x07"
	out := generation.Sanitize(in)
	assert.Equal(t, "Hello world\nnew line\tkept", out)
}

func TestSanitizeEnforcesLengthCap(t *testing.T) {
	out := generation.Sanitize(strings.Repeat("a", generation.MaxBodyLength+500))
	assert.Len(t, out, generation.MaxBodyLength)
}

func TestSanitizeCapLandsOnRuneBoundary(t *testing.T) {
	// Three-byte runes never divide the cap evenly, so a byte-boundary
	// truncation would split one.
	out := generation.Sanitize(strings.Repeat("ä½ ", generation.MaxBodyLength))
	assert.True(t, utf8.ValidString(out))
	assert.LessOrEqual(t, len(out), generation.MaxBodyLength)
	assert.NotEmpty(t, out)
}

func TestResponseFallbacksPerIntent(t *testing.T) {
	d := generation.NewDrafter(failingGen(), "R", "S&P Smiles Co.", "team@spsmiles.example")
	school := &model.School{Name: "Acacia Primary"}

	for _, intent := range []string{
		model.IntentInterested,
		model.IntentNeedsInfo,
		model.IntentNotInterested,
		model.IntentUnsubscribe,
	} {
		text := d.Response(context.Background(), intent, school)
		assert.NotEmpty(t, text, "intent %s must always yield a response", intent)
	}
}

func TestFormatCents(t *testing.T) {
	d := generation.NewDrafter(nil, "R", "", "")
	assert.Equal(t, "R36", d.FormatCents(3600))
	assert.Equal(t, "R36.50", d.FormatCents(3650))
	assert.Equal(t, "R0.05", d.FormatCents(5))
}
