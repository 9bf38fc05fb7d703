package render

import "strings"

type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message renders the transient #message element as an out-of-band swap.
// The stylesheet hides it five seconds after it is inserted.
func Message(text string, kind MessageKind) string {
	if kind != MessageError {
		kind = MessageSuccess
	}
	var b strings.Builder
	b.WriteString(`<div id="message" class="message `)
	b.WriteString(string(kind))
	b.WriteString(`" role="status" hx-swap-oob="true">`)
	b.WriteString(EscapeText(text))
	b.WriteString(`</div>`)
	return b.String()
}

// ErrorMessage prefixes text the way every failed action reports itself.
func ErrorMessage(text string) string {
	return Message("Error: "+text, MessageError)
}
