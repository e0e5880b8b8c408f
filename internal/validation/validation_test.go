package validation

import (
	"testing"
)

func validUpdate() Update {
	return Update{
		UpdateID: 7,
		Message: &Message{
			MessageID: 1001,
			From:      &User{ID: 1, Username: "rishi"},
			Chat:      Chat{ID: 42},
			Text:      "spent 500 on dinner",
		},
	}
}

func TestValidUpdate(t *testing.T) {
	v := New()
	u := validUpdate()
	if err := v.Struct(u); err != nil {
		t.Fatalf("expected valid update, got %v", err)
	}
}

func TestUpdateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Update)
	}{
		{"missing message", func(u *Update) { u.Message = nil }},
		{"missing message id", func(u *Update) { u.Message.MessageID = 0 }},
		{"missing chat id", func(u *Update) { u.Message.Chat.ID = 0 }},
		{"empty text", func(u *Update) { u.Message.Text = "" }},
		{"whitespace text", func(u *Update) { u.Message.Text = "   \n\t" }},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUpdate()
			tt.mutate(&u)
			if err := v.Struct(u); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestSenderName(t *testing.T) {
	tests := []struct {
		name string
		from *User
		want string
	}{
		{"handle", &User{Username: "rishi", FirstName: "Rishikesh"}, "rishi"},
		{"first name fallback", &User{FirstName: "Rishikesh"}, "Rishikesh"},
		{"anonymous", &User{}, "User"},
		{"no sender", nil, "User"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Message{From: tt.from}
			if got := m.SenderName(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
