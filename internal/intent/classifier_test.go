package intent_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spsmiles/outreach-backend/internal/generation"
	"github.com/spsmiles/outreach-backend/internal/intent"
	"github.com/spsmiles/outreach-backend/internal/model"
)

func fixedGen(label string) generation.Generator {
	return generation.GeneratorFunc(func(ctx context.Context, system, prompt string) (string, error) {
		return label, nil
	})
}

func TestClassifyDelegatesToGenerator(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"INTERESTED", model.IntentInterested},
		{"  interested \n", model.IntentInterested},
		{"NEEDS_INFO", model.IntentNeedsInfo},
		{"NEED_INFO", model.IntentNeedsInfo},
		{"NOT_INTERESTED", model.IntentNotInterested},
		{"UNSUBSCRIBE", model.IntentUnsubscribe},
	}
	for _, tt := range tests {
		c := intent.NewClassifier(fixedGen(tt.label))
		got := c.Classify(context.Background(), "Could you tell me more about the screenings?")
		assert.Equal(t, tt.want, got, "label %q", tt.label)
	}
}

func TestClassifyFailsClosedOnError(t *testing.T) {
	gen := generation.GeneratorFunc(func(ctx context.Context, system, prompt string) (string, error) {
		return "", fmt.Errorf("capability timeout")
	})
	c := intent.NewClassifier(gen)
	assert.Equal(t, model.IntentNeedsInfo, c.Classify(context.Background(), "We are delighted, sign us up!"))
}

func TestClassifyFailsClosedOnGarbageLabel(t *testing.T) {
	c := intent.NewClassifier(fixedGen("VERY_EXCITED, thanks for asking!"))
	assert.Equal(t, model.IntentNeedsInfo, c.Classify(context.Background(), "Hello"))
}

func TestLocalUnsubscribeOverridesClassifier(t *testing.T) {
	// Even a classifier that insists the sender is interested must not win
	// over explicit opt-out phrasing.
	c := intent.NewClassifier(fixedGen("INTERESTED"))

	got := c.Classify(context.Background(), "please unsubscribe, not interested")
	assert.Equal(t, model.IntentUnsubscribe, got)
}

func TestUnsubscribePhrasings(t *testing.T) {
	c := intent.NewClassifier(nil)
	for _, text := range []string{
		"Please remove me from your list.",
		"STOP CONTACTING us.",
		"I want to opt out of these emails",
		"Do not contact this address again",
		"no more emails please",
	} {
		assert.Equal(t, model.IntentUnsubscribe, c.Classify(context.Background(), text), "text %q", text)
	}
}

func TestSuppressingIntents(t *testing.T) {
	assert.True(t, intent.Suppressing(model.IntentUnsubscribe))
	assert.True(t, intent.Suppressing(model.IntentNotInterested))
	assert.False(t, intent.Suppressing(model.IntentInterested))
	assert.False(t, intent.Suppressing(model.IntentNeedsInfo))
}
