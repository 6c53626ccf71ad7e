package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the timestamp layout used by the export's "date" field.
const DateLayout = "2006-01-02T15:04:05"

// Message is a single exported chat message. Only date and photo are
// interpreted; the original JSON object is kept so every field survives
// re-serialization in its original order.
type Message struct {
	Date  time.Time
	Photo string
	raw   json.RawMessage
}

// ParseMessage decodes one message object.
func ParseMessage(data []byte) (Message, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Message{}, errors.New("message is not a JSON object")
	}
	var fields struct {
		Date  *string         `json:"date"`
		Photo json.RawMessage `json:"photo"`
	}
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Message{}, err
	}
	if fields.Date == nil {
		return Message{}, errors.New("missing date")
	}
	date, err := time.Parse(DateLayout, *fields.Date)
	if err != nil {
		return Message{}, fmt.Errorf("invalid date %q: %w", *fields.Date, err)
	}
	msg := Message{Date: date, raw: append(json.RawMessage(nil), trimmed...)}
	if len(fields.Photo) > 0 && string(fields.Photo) != "null" {
		if err := json.Unmarshal(fields.Photo, &msg.Photo); err != nil {
			return Message{}, fmt.Errorf("photo must be a string: %w", err)
		}
	}
	return msg, nil
}

// Day returns the message date truncated to its calendar day.
func (m Message) Day() time.Time {
	y, mo, d := m.Date.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// HasPhoto reports whether the message references a photo attachment.
func (m Message) HasPhoto() bool {
	return m.Photo != ""
}

// Raw returns the original JSON object.
func (m Message) Raw() json.RawMessage {
	return m.raw
}

func (m Message) MarshalJSON() ([]byte, error) {
	if len(m.raw) == 0 {
		return nil, errors.New("message has no source object")
	}
	return m.raw, nil
}

func (m *Message) UnmarshalJSON(data []byte) error {
	msg, err := ParseMessage(data)
	if err != nil {
		return err
	}
	*m = msg
	return nil
}
