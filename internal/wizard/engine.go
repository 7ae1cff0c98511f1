package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/kenpo-reserve/kenpo-bot/internal/apperr"
	"github.com/kenpo-reserve/kenpo-bot/internal/i18n"
	"github.com/kenpo-reserve/kenpo-bot/internal/kenpo"
	"github.com/kenpo-reserve/kenpo-bot/internal/session"
	"github.com/kenpo-reserve/kenpo-bot/internal/slack"
	"github.com/kenpo-reserve/kenpo-bot/pkg/metrics"
)

// Reply is the engine's output for one turn: a text prompt, an
// interactive attachment, or a completion acknowledgment.
type Reply struct {
	Text       string
	Attachment *slack.Attachment
	Done       bool
}

// Engine advances a session through its category's step catalog.
type Engine struct {
	store   session.Store
	gateway kenpo.Gateway
	t       i18n.Translator
	log     *slog.Logger
}

// NewEngine creates a step engine over the given store and gateway.
func NewEngine(store session.Store, gateway kenpo.Gateway, t i18n.Translator, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		store:   store,
		gateway: gateway,
		t:       t,
		log:     log,
	}
}

// Begin enters the first step of a category's flow and returns its prompt.
func (e *Engine) Begin(ctx context.Context, sess *session.Session, category Category) (*Reply, error) {
	first, ok := FirstStep(category)
	if !ok {
		return nil, apperr.NewNotImplementedError(string(category))
	}

	if err := e.store.Save(ctx, sess, session.FieldStep, first.Key); err != nil {
		return nil, err
	}

	metrics.RecordStepTransition(string(category), "start", first.Key)

	return &Reply{Text: e.prompt(first, nil)}, nil
}

// Advance runs one transition for a free-text reply: criteria check,
// side effect, persist, then the next prompt, button gate or completion.
// A side-effect or validation failure clears the session; the wizard
// never leaves a half-updated session behind.
func (e *Engine) Advance(ctx context.Context, sess *session.Session, body string) (*Reply, error) {
	stepKey, err := e.store.Get(ctx, sess, session.FieldStep)
	if err != nil {
		if errors.Is(err, session.ErrFieldNotFound) {
			// session exists but no flow entered yet; the menus are
			// interactive, so free text here gets the help reply
			return &Reply{Text: e.t.T("wizard.help")}, nil
		}
		return nil, err
	}

	rawCategory, err := e.store.Get(ctx, sess, session.FieldCategory)
	if err != nil {
		if errors.Is(err, session.ErrFieldNotFound) {
			return &Reply{Text: e.t.T("wizard.help")}, nil
		}
		return nil, err
	}
	category := Category(rawCategory)

	criteria, err := e.criteria(ctx, sess)
	if err != nil {
		return nil, err
	}

	if allowed, ok := criteria[stepKey]; ok && !slices.Contains(allowed, body) {
		if cerr := e.store.Clear(ctx, sess); cerr != nil {
			e.log.Error("failed to clear session after validation failure", "user_id", sess.UserID, "error", cerr)
		}
		return nil, apperr.NewValidationError(stepKey, body, allowed)
	}

	step, ok := FindStep(category, stepKey)
	if !ok {
		// unknown step key is treated as completion, keeping the engine total
		if cerr := e.store.Clear(ctx, sess); cerr != nil {
			return nil, cerr
		}
		return &Reply{Text: e.t.T("wizard.complete"), Done: true}, nil
	}

	if step.Effect != nil {
		if err := step.Effect(ctx, e, sess, category, body); err != nil {
			if cerr := e.store.Clear(ctx, sess); cerr != nil {
				e.log.Error("failed to clear session after effect failure", "user_id", sess.UserID, "error", cerr)
			}

			var appErr *apperr.AppError
			if errors.As(err, &appErr) {
				return nil, err
			}
			return nil, apperr.NewGatewayError(step.Key, err)
		}

		// the effect may have stored fresh criteria (the url step does);
		// the next prompt must advertise them
		if criteria, err = e.criteria(ctx, sess); err != nil {
			return nil, err
		}
	}

	if err := e.store.Save(ctx, sess, stepKey, body); err != nil {
		return nil, err
	}

	next, ok := NextStep(category, stepKey)
	if !ok {
		metrics.RecordStepTransition(string(category), stepKey, "complete")
		if err := e.store.Clear(ctx, sess); err != nil {
			return nil, err
		}
		return &Reply{Text: e.t.T("wizard.complete"), Done: true}, nil
	}

	if err := e.store.Save(ctx, sess, session.FieldStep, next.Key); err != nil {
		return nil, err
	}
	metrics.RecordStepTransition(string(category), stepKey, next.Key)

	if next.Key == StepConfirm {
		att := e.ConfirmGate()
		return &Reply{Attachment: &att}, nil
	}

	return &Reply{Text: e.prompt(next, criteria)}, nil
}

// ConfirmGate builds the terminal confirm-or-cancel button attachment.
func (e *Engine) ConfirmGate() slack.Attachment {
	return slack.ButtonAttachment(e.t.T("wizard.confirm_question"), slack.CallbackConfirm, []slack.Button{
		{Name: "confirm", Label: e.t.T("wizard.confirm_ok"), Value: "confirm", Style: "primary"},
		{Name: "confirm", Label: slack.CancelLabel, Value: slack.CancelValue, Style: "danger"},
	})
}

// prompt renders a step's question, appending learned choices and the
// prefecture reference hint where applicable.
func (e *Engine) prompt(step Step, criteria map[string][]string) string {
	text := e.t.T(step.PromptKey)

	if allowed, ok := criteria[step.Key]; ok && len(allowed) > 0 {
		text += "\n" + fmt.Sprintf(e.t.T("wizard.choices"), strings.Join(allowed, " / "))
	}
	if step.Key == "state" {
		text += "\n" + e.t.T("wizard.state_hint")
	}

	return text
}

func (e *Engine) criteria(ctx context.Context, sess *session.Session) (map[string][]string, error) {
	raw, err := e.store.Get(ctx, sess, session.FieldCriteria)
	if err != nil {
		if errors.Is(err, session.ErrFieldNotFound) {
			return map[string][]string{}, nil
		}
		return nil, err
	}

	return session.DecodeCriteria(raw)
}

// requestReservationLink asks the gateway to email a reservation link
// for the previously chosen service.
func requestReservationLink(ctx context.Context, e *Engine, sess *session.Session, category Category, body string) error {
	service, err := e.store.Get(ctx, sess, session.FieldService)
	if err != nil {
		return err
	}

	return e.gateway.RequestReservationURL(ctx, string(category), service, body)
}

// learnCriteria fetches the input constraints for the pasted reservation
// URL and persists them for validation of the remaining steps.
func learnCriteria(ctx context.Context, e *Engine, sess *session.Session, _ Category, body string) error {
	criteria, err := e.gateway.Criteria(ctx, body)
	if err != nil {
		return err
	}

	encoded, err := session.EncodeCriteria(criteria)
	if err != nil {
		return err
	}

	return e.store.Save(ctx, sess, session.FieldCriteria, encoded)
}
