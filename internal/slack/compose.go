package slack

const (
	attachmentColor = "#3AA3E3"

	// CancelValue is the universal cancel sentinel; every menu and every
	// button gate carries an action with this value.
	CancelValue = "cancel"
	// CancelLabel is the rendered text of the cancel action.
	CancelLabel = "Cancel"
)

// MenuAttachment builds a select-menu attachment for one session field.
// A cancel option is always appended after the provided options. Empty
// option lists are allowed and render a menu with only the cancel entry.
func MenuAttachment(question, callbackID, name string, options []Option) Attachment {
	opts := make([]Option, 0, len(options)+1)
	opts = append(opts, options...)
	opts = append(opts, Option{Label: CancelLabel, Value: CancelValue})

	return Attachment{
		Text:       question,
		Fallback:   question,
		Color:      attachmentColor,
		CallbackID: callbackID,
		Actions: []Action{
			{
				Name:    name,
				Text:    question,
				Type:    "select",
				Options: opts,
			},
		},
	}
}

// ButtonAttachment builds a button-gate attachment from an ordered list
// of buttons. Composing never fails; an empty list renders no actions.
func ButtonAttachment(question, callbackID string, buttons []Button) Attachment {
	actions := make([]Action, 0, len(buttons))
	for _, b := range buttons {
		actions = append(actions, Action{
			Name:  b.Name,
			Text:  b.Label,
			Type:  "button",
			Value: b.Value,
			Style: b.Style,
		})
	}

	return Attachment{
		Text:       question,
		Fallback:   question,
		Color:      attachmentColor,
		CallbackID: callbackID,
		Actions:    actions,
	}
}
