package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with struct-level validation for
// webhook updates registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterStructValidation(updateStructValidation, Update{})
	return v
}

// updateStructValidation enforces what field tags cannot: a real chat id and
// non-blank text. Updates without either carry nothing the bot can act on.
func updateStructValidation(sl validatorv10.StructLevel) {
	update := sl.Current().Interface().(Update)
	if update.Message == nil {
		return
	}
	if update.Message.Chat.ID == 0 {
		sl.ReportError(update.Message.Chat.ID, "message.chat.id", "ID", "required_chat_id", "")
	}
	if update.Message.TrimmedText() == "" {
		sl.ReportError(update.Message.Text, "message.text", "Text", "required_text", "")
	}
}
