// Package slack holds the chat-platform wire types, the interactive
// message composer and the delivery adapter.
package slack

// Callback identifiers issued with every interactive attachment; the
// inbound payload routes on them.
const (
	CallbackCategory = "kenpo_category"
	CallbackService  = "kenpo_service"
	CallbackConfirm  = "kenpo_confirm"
)

// Option is one selectable entry of a menu action.
type Option struct {
	Label string `json:"text"`
	Value string `json:"value"`
}

// Button describes one button of a button-gate attachment.
type Button struct {
	Name  string
	Label string
	Value string
	Style string
}

// Action is one interactive element inside an attachment.
type Action struct {
	Name    string   `json:"name"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Value   string   `json:"value,omitempty"`
	Style   string   `json:"style,omitempty"`
	Options []Option `json:"options,omitempty"`
}

// Attachment is the canonical interactive attachment shape the platform renders.
type Attachment struct {
	Text       string   `json:"text"`
	Fallback   string   `json:"fallback"`
	Color      string   `json:"color"`
	CallbackID string   `json:"callback_id"`
	Actions    []Action `json:"actions"`
}

// Message is the outbound payload posted to a response URL or returned
// synchronously on the events path.
type Message struct {
	Text            string       `json:"text"`
	Attachments     []Attachment `json:"attachments,omitempty"`
	ResponseType    string       `json:"response_type,omitempty"`
	ReplaceOriginal bool         `json:"replace_original,omitempty"`
}
