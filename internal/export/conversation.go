package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/avivsinai/chatsplit/internal/fsq"
)

// Sentinel errors for loading an export.
var (
	ErrMissingInput   = errors.New("missing input")
	ErrMalformedInput = errors.New("malformed input")
)

// Header holds the conversation fields copied into every bucket file.
type Header struct {
	Name string          `json:"name"`
	Type string          `json:"type"`
	ID   json.RawMessage `json:"id"`
}

// Conversation is the in-memory form of result.json and of each bucket file.
// Field order on output is name, type, id, messages.
type Conversation struct {
	Header
	Messages []Message `json:"messages"`
}

// ResolveRoot checks that path names an existing directory.
func ResolveRoot(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: root folder is required", ErrMissingInput)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s does not exist", ErrMissingInput, path)
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a folder", ErrMissingInput, path)
	}
	return path, nil
}

// Load reads and validates <root>/result.json.
func Load(root string) (Conversation, error) {
	path := fsq.InputPath(root)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Conversation{}, fmt.Errorf("%w: %s does not contain %s", ErrMissingInput, root, fsq.InputName)
		}
		return Conversation{}, err
	}
	if info.IsDir() {
		return Conversation{}, fmt.Errorf("%w: %s is a directory", ErrMalformedInput, path)
	}
	return ReadFile(path)
}

// ReadFile parses a conversation document from path.
func ReadFile(path string) (Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Conversation{}, err
	}
	conv, err := Parse(data)
	if err != nil {
		return Conversation{}, fmt.Errorf("%s: %w", path, err)
	}
	return conv, nil
}

// Parse decodes a conversation document. Every message date is validated
// here so a bad record fails before any output is written.
func Parse(data []byte) (Conversation, error) {
	var doc struct {
		Name     *string           `json:"name"`
		Type     *string           `json:"type"`
		ID       json.RawMessage   `json:"id"`
		Messages []json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Conversation{}, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedInput, err)
	}
	switch {
	case doc.Name == nil:
		return Conversation{}, fmt.Errorf("%w: missing name", ErrMalformedInput)
	case doc.Type == nil:
		return Conversation{}, fmt.Errorf("%w: missing type", ErrMalformedInput)
	case len(doc.ID) == 0:
		return Conversation{}, fmt.Errorf("%w: missing id", ErrMalformedInput)
	case doc.Messages == nil:
		return Conversation{}, fmt.Errorf("%w: missing messages array", ErrMalformedInput)
	}

	conv := Conversation{
		Header: Header{
			Name: *doc.Name,
			Type: *doc.Type,
			ID:   bytes.Clone(doc.ID),
		},
		Messages: make([]Message, 0, len(doc.Messages)),
	}
	for i, raw := range doc.Messages {
		msg, err := ParseMessage(raw)
		if err != nil {
			return Conversation{}, fmt.Errorf("%w: message %d: %v", ErrMalformedInput, i, err)
		}
		conv.Messages = append(conv.Messages, msg)
	}
	return conv, nil
}

// Marshal renders a conversation as 2-space indented JSON with a trailing
// newline. HTML characters are left unescaped.
func Marshal(conv Conversation) ([]byte, error) {
	if conv.Messages == nil {
		conv.Messages = []Message{}
	}
	if len(conv.ID) == 0 {
		conv.ID = json.RawMessage("null")
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(conv); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
