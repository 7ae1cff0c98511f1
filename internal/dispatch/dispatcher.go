// Package dispatch routes inbound interactive actions and chat messages
// to the wizard engine and shapes the outgoing chat messages.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/kenpo-reserve/kenpo-bot/internal/apperr"
	"github.com/kenpo-reserve/kenpo-bot/internal/i18n"
	"github.com/kenpo-reserve/kenpo-bot/internal/kenpo"
	"github.com/kenpo-reserve/kenpo-bot/internal/session"
	"github.com/kenpo-reserve/kenpo-bot/internal/slack"
	"github.com/kenpo-reserve/kenpo-bot/internal/wizard"
	"github.com/kenpo-reserve/kenpo-bot/pkg/metrics"
)

// StartCommand begins a new wizard session, matched case-insensitively.
const StartCommand = "start"

// Dispatcher resolves inbound events to session mutations and replies.
// Every turn runs under the per-user advisory lock so the chat and
// webhook paths cannot interleave on one session.
type Dispatcher struct {
	store   session.Store
	locker  session.Locker
	engine  *wizard.Engine
	gateway kenpo.Gateway
	errs    *apperr.Handler
	t       i18n.Translator
	log     *slog.Logger
}

// NewDispatcher wires a Dispatcher from its collaborators.
func NewDispatcher(
	store session.Store,
	locker session.Locker,
	engine *wizard.Engine,
	gateway kenpo.Gateway,
	errs *apperr.Handler,
	t i18n.Translator,
	log *slog.Logger,
) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		store:   store,
		locker:  locker,
		engine:  engine,
		gateway: gateway,
		errs:    errs,
		t:       t,
		log:     log,
	}
}

// HandleAction processes one interactive-callback payload. It always
// returns a renderable message; failures never escape this boundary.
func (d *Dispatcher) HandleAction(ctx context.Context, p *slack.InteractivePayload) (msg *slack.Message) {
	defer d.recoverTurn(&msg, "action")

	if err := d.locker.Acquire(ctx, p.UserID); err != nil {
		if errors.Is(err, session.ErrSessionBusy) {
			return d.errorMessage(ctx, nil, apperr.NewBusyError())
		}
		return d.errorMessage(ctx, nil, err)
	}
	defer d.locker.Release(ctx, p.UserID)

	sess, err := d.store.Find(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			metrics.RecordWizardEvent("action", "expired")
			return &slack.Message{Text: d.t.T("error.session_expired")}
		}
		return d.errorMessage(ctx, nil, err)
	}

	if p.ActionValue == slack.CancelValue {
		if err := d.store.Clear(ctx, sess); err != nil {
			return d.errorMessage(ctx, nil, err)
		}
		metrics.RecordWizardEvent("cancel", "ok")
		return &slack.Message{Text: d.t.T("wizard.farewell")}
	}

	switch p.CallbackID {
	case slack.CallbackCategory:
		msg = d.handleCategory(ctx, sess, p.ActionValue)
	case slack.CallbackService:
		msg = d.handleService(ctx, sess, p.ActionValue)
	case slack.CallbackConfirm:
		msg = d.handleConfirm(ctx, sess)
	default:
		msg = d.errorMessage(ctx, sess, fmt.Errorf("unknown callback id %q", p.CallbackID))
	}

	return msg
}

// HandleMessage processes one freeform chat message: the start command,
// an in-flight wizard reply, or the help fallback.
func (d *Dispatcher) HandleMessage(ctx context.Context, userID, text string) (msg *slack.Message) {
	defer d.recoverTurn(&msg, "message")

	if err := d.locker.Acquire(ctx, userID); err != nil {
		if errors.Is(err, session.ErrSessionBusy) {
			return d.errorMessage(ctx, nil, apperr.NewBusyError())
		}
		return d.errorMessage(ctx, nil, err)
	}
	defer d.locker.Release(ctx, userID)

	if strings.EqualFold(strings.TrimSpace(text), StartCommand) {
		return d.handleStart(ctx, userID)
	}

	sess, err := d.store.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			metrics.RecordWizardEvent("message", "no_session")
			return &slack.Message{Text: d.t.T("wizard.help")}
		}
		return d.errorMessage(ctx, nil, err)
	}

	reply, err := d.engine.Advance(ctx, sess, text)
	if err != nil {
		// the engine already cleared the session where required
		return d.errorMessage(ctx, nil, err)
	}

	metrics.RecordWizardEvent("message", "ok")
	return replyMessage(reply)
}

func (d *Dispatcher) handleStart(ctx context.Context, userID string) *slack.Message {
	sess, err := d.store.Start(ctx, userID)
	if err != nil {
		return d.errorMessage(ctx, nil, err)
	}

	categories, err := d.gateway.Categories(ctx)
	if err != nil {
		return d.errorMessage(ctx, sess, apperr.NewGatewayError("categories", err))
	}

	options := make([]slack.Option, 0, len(categories))
	for _, category := range categories {
		options = append(options, slack.Option{Label: category.Name, Value: category.Code})
	}

	att := slack.MenuAttachment(d.t.T("wizard.category_question"), slack.CallbackCategory, session.FieldCategory, options)
	metrics.RecordWizardEvent("start", "ok")

	return &slack.Message{Text: d.t.T("wizard.started"), Attachments: []slack.Attachment{att}}
}

func (d *Dispatcher) handleCategory(ctx context.Context, sess *session.Session, code string) *slack.Message {
	if err := d.store.Save(ctx, sess, session.FieldCategory, code); err != nil {
		return d.errorMessage(ctx, nil, err)
	}

	if !wizard.Implemented(wizard.Category(code)) {
		return d.errorMessage(ctx, sess, apperr.NewNotImplementedError(code))
	}

	category, err := d.gateway.FindCategory(ctx, code)
	if err != nil {
		return d.errorMessage(ctx, sess, apperr.NewGatewayError("find_category", err))
	}

	options := make([]slack.Option, 0, len(category.Services))
	for _, group := range category.Services {
		options = append(options, slack.Option{Label: group.Name, Value: group.Name})
	}

	att := slack.MenuAttachment(d.t.T("wizard.service_question"), slack.CallbackService, session.FieldService, options)
	metrics.RecordWizardEvent("category", "ok")

	return &slack.Message{Attachments: []slack.Attachment{att}}
}

func (d *Dispatcher) handleService(ctx context.Context, sess *session.Session, service string) *slack.Message {
	if err := d.store.Save(ctx, sess, session.FieldService, service); err != nil {
		return d.errorMessage(ctx, nil, err)
	}

	code, err := d.store.Get(ctx, sess, session.FieldCategory)
	if err != nil {
		return d.errorMessage(ctx, sess, err)
	}

	available, err := d.gateway.ServiceAvailable(ctx, code, service)
	if err != nil {
		return d.errorMessage(ctx, sess, apperr.NewGatewayError("service_available", err))
	}
	if !available {
		return d.errorMessage(ctx, sess, apperr.NewUnavailableError(code, service))
	}

	reply, err := d.engine.Begin(ctx, sess, wizard.Category(code))
	if err != nil {
		return d.errorMessage(ctx, sess, err)
	}

	metrics.RecordWizardEvent("service", "ok")
	return replyMessage(reply)
}

func (d *Dispatcher) handleConfirm(ctx context.Context, sess *session.Session) *slack.Message {
	step, err := d.store.Get(ctx, sess, session.FieldStep)
	if err != nil || step != wizard.StepConfirm {
		// a confirm callback is only valid once the flow reached the gate
		return d.errorMessage(ctx, sess, fmt.Errorf("confirm callback outside confirm step (step %q)", step))
	}

	fields, err := d.store.All(ctx, sess)
	if err != nil {
		return d.errorMessage(ctx, sess, err)
	}

	code := fields[session.FieldCategory]
	reservationURL := fields["url"]

	var data any
	switch wizard.Category(code) {
	case wizard.CategoryResort:
		data = kenpo.BuildResortReservation(fields)
	case wizard.CategoryKaikan:
		data = kenpo.BuildKaikanReservation(fields)
	default:
		return d.errorMessage(ctx, sess, apperr.NewNotImplementedError(code))
	}

	if err := d.gateway.Submit(ctx, code, reservationURL, data); err != nil {
		return d.errorMessage(ctx, sess, apperr.NewGatewayError("submit", err))
	}

	if err := d.store.Clear(ctx, sess); err != nil {
		return d.errorMessage(ctx, nil, err)
	}

	metrics.RecordWizardEvent("confirm", "ok")
	return &slack.Message{Text: d.t.T("wizard.submitted")}
}

// errorMessage reports err and renders its user-facing text. When the
// error kind aborts the flow the session is cleared first.
func (d *Dispatcher) errorMessage(ctx context.Context, sess *session.Session, err error) *slack.Message {
	var appErr *apperr.AppError
	if sess != nil && errors.As(err, &appErr) && appErr.ClearsFlow {
		if cerr := d.store.Clear(ctx, sess); cerr != nil {
			d.log.Error("failed to clear session on error", "user_id", sess.UserID, "error", cerr)
		}
	}

	key, detail := d.errs.Handle(ctx, err)
	metrics.RecordWizardEvent("turn", "error")

	text := d.t.T(key)
	if detail != "" {
		if strings.Contains(text, "%s") {
			text = fmt.Sprintf(text, detail)
		} else {
			text = text + " " + detail
		}
	}

	return &slack.Message{Text: text}
}

func (d *Dispatcher) recoverTurn(msg **slack.Message, event string) {
	if r := recover(); r != nil {
		d.log.Error("panic recovered in dispatcher",
			slog.Any("panic", r),
			slog.String("stack", string(debug.Stack())),
		)
		metrics.RecordWizardEvent(event, "panic")
		*msg = &slack.Message{Text: d.t.T("error.generic")}
	}
}

func replyMessage(reply *wizard.Reply) *slack.Message {
	msg := &slack.Message{Text: reply.Text}
	if reply.Attachment != nil {
		msg.Attachments = []slack.Attachment{*reply.Attachment}
	}
	return msg
}
