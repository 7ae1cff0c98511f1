package slack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuAttachment_AppendsCancel(t *testing.T) {
	options := []Option{
		{Label: "Resort A", Value: "Resort A"},
		{Label: "Resort B", Value: "Resort B"},
	}

	att := MenuAttachment("Which resort?", "kenpo_service", "service", options)

	assert.Equal(t, "Which resort?", att.Text)
	assert.Equal(t, "Which resort?", att.Fallback)
	assert.Equal(t, "kenpo_service", att.CallbackID)
	require.Len(t, att.Actions, 1)

	action := att.Actions[0]
	assert.Equal(t, "service", action.Name)
	assert.Equal(t, "select", action.Type)
	require.Len(t, action.Options, 3)
	assert.Equal(t, "Resort A", action.Options[0].Value)
	assert.Equal(t, CancelValue, action.Options[2].Value)
}

func TestMenuAttachment_EmptyOptions(t *testing.T) {
	att := MenuAttachment("Pick one", "cb", "field", nil)

	require.Len(t, att.Actions, 1)
	require.Len(t, att.Actions[0].Options, 1)
	assert.Equal(t, CancelValue, att.Actions[0].Options[0].Value)
}

func TestButtonAttachment(t *testing.T) {
	buttons := []Button{
		{Name: "confirm", Label: "OK", Value: "confirm", Style: "primary"},
		{Name: "confirm", Label: "Cancel", Value: CancelValue, Style: "danger"},
	}

	att := ButtonAttachment("Submit the reservation?", "kenpo_confirm", buttons)

	assert.Equal(t, "kenpo_confirm", att.CallbackID)
	require.Len(t, att.Actions, 2)
	assert.Equal(t, "button", att.Actions[0].Type)
	assert.Equal(t, "confirm", att.Actions[0].Value)
	assert.Equal(t, "primary", att.Actions[0].Style)
	assert.Equal(t, CancelValue, att.Actions[1].Value)
}

func TestButtonAttachment_EmptyButtons(t *testing.T) {
	att := ButtonAttachment("q", "cb", nil)
	assert.Empty(t, att.Actions)
}
