// Package wizard implements the ordered reservation step machine: the
// per-category step catalog and the engine that advances a session
// through it.
package wizard

import (
	"context"

	"github.com/kenpo-reserve/kenpo-bot/internal/session"
)

// Category identifies one reservation flow.
type Category string

const (
	CategoryResort Category = "resort_reserve"
	CategoryKaikan Category = "kaikan_reserve"
)

// StepConfirm is the terminal pseudo-step: a confirm-or-cancel button
// gate instead of a free-text prompt.
const StepConfirm = "confirm"

// Effect is a step side effect, run with the user's reply before the
// reply is persisted. Effects are attached to the step descriptor so
// adding a step never touches the dispatcher.
type Effect func(ctx context.Context, e *Engine, sess *session.Session, category Category, body string) error

// Step is one catalog entry. PromptKey is the i18n key of the question
// asked when the step becomes current.
type Step struct {
	Key       string
	PromptKey string
	Effect    Effect
}

func textStep(key string) Step {
	return Step{Key: key, PromptKey: "step." + key}
}

// Shared person/contact tail of both flows. The email and url steps
// carry the two side effects: requesting the reservation link and
// learning the input criteria from it.
func commonHead() []Step {
	return []Step{
		{Key: "email", PromptKey: "step.email", Effect: requestReservationLink},
		{Key: "url", PromptKey: "step.url", Effect: learnCriteria},
	}
}

var sequences = map[Category][]Step{
	CategoryResort: append(commonHead(), []Step{
		textStep("from_date"),
		textStep("nights"),
		textStep("headcount"),
		textStep("name"),
		textStep("kana"),
		textStep("birth_year"),
		textStep("birth_month"),
		textStep("birth_day"),
		textStep("postal_code"),
		textStep("state"),
		textStep("address"),
		textStep("tel"),
		textStep("emergency_tel"),
		textStep("join_year"),
		textStep("relation"),
		{Key: StepConfirm, PromptKey: "wizard.confirm_question"},
	}...),
	CategoryKaikan: append(commonHead(), []Step{
		textStep("use_date"),
		textStep("start_time"),
		textStep("end_time"),
		textStep("purpose"),
		textStep("headcount"),
		textStep("name"),
		textStep("kana"),
		textStep("birth_year"),
		textStep("birth_month"),
		textStep("birth_day"),
		textStep("postal_code"),
		textStep("state"),
		textStep("address"),
		textStep("tel"),
		textStep("join_year"),
		{Key: StepConfirm, PromptKey: "wizard.confirm_question"},
	}...),
}

// Implemented reports whether a category has a wizard flow.
func Implemented(category Category) bool {
	_, ok := sequences[category]
	return ok
}

// StepsFor returns the ordered step list of a category.
func StepsFor(category Category) []Step {
	return sequences[category]
}

// FirstStep returns the initial step of a category's flow.
func FirstStep(category Category) (Step, bool) {
	steps := sequences[category]
	if len(steps) == 0 {
		return Step{}, false
	}
	return steps[0], true
}

// FindStep returns the descriptor for a step key.
func FindStep(category Category, key string) (Step, bool) {
	for _, step := range sequences[category] {
		if step.Key == key {
			return step, true
		}
	}
	return Step{}, false
}

// NextStep returns the entry immediately following key. A missing or
// final key yields false, which is the sole completion signal.
func NextStep(category Category, key string) (Step, bool) {
	steps := sequences[category]
	for i, step := range steps {
		if step.Key == key {
			if i+1 >= len(steps) {
				return Step{}, false
			}
			return steps[i+1], true
		}
	}
	return Step{}, false
}
