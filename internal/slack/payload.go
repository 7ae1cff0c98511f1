package slack

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoAction indicates an interactive payload without any action entry.
var ErrNoAction = errors.New("interactive payload carries no action")

// InteractivePayload is the parsed, read-only view of one inbound
// interactive-callback event.
type InteractivePayload struct {
	CallbackID  string
	ResponseURL string
	TeamID      string
	UserID      string
	ChannelID   string
	ActionName  string
	ActionValue string
}

type wirePayload struct {
	CallbackID  string `json:"callback_id"`
	ResponseURL string `json:"response_url"`
	Team        struct {
		ID string `json:"id"`
	} `json:"team"`
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	Channel struct {
		ID string `json:"id"`
	} `json:"channel"`
	Actions []struct {
		Name            string `json:"name"`
		Value           string `json:"value"`
		SelectedOptions []struct {
			Value string `json:"value"`
		} `json:"selected_options"`
	} `json:"actions"`
}

// ParsePayload decodes the JSON body of the webhook's payload field. The
// selected value is the first action's literal button value, or the
// first selected option of a menu action.
func ParsePayload(raw []byte) (*InteractivePayload, error) {
	var wire wirePayload
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("parse interactive payload: %w", err)
	}

	if len(wire.Actions) == 0 {
		return nil, ErrNoAction
	}

	action := wire.Actions[0]
	value := action.Value
	if value == "" && len(action.SelectedOptions) > 0 {
		value = action.SelectedOptions[0].Value
	}

	return &InteractivePayload{
		CallbackID:  wire.CallbackID,
		ResponseURL: wire.ResponseURL,
		TeamID:      wire.Team.ID,
		UserID:      wire.User.ID,
		ChannelID:   wire.Channel.ID,
		ActionName:  action.Name,
		ActionValue: value,
	}, nil
}
