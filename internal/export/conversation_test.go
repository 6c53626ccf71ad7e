package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleExport = `{
  "name": "Family",
  "type": "private_group",
  "id": 4242,
  "messages": [
    {"id": 1, "type": "message", "date": "2021-01-01T09:30:00", "from": "Ann", "text": "a <b> & c"},
    {"id": 2, "type": "message", "date": "2021-01-03T23:59:59", "photo": "photos/photo_1.jpg", "width": 1280, "height": 720, "text": ""},
    {"id": 3, "type": "service", "date": "2021-01-10T00:00:00", "actor": "Bob", "action": "pin_message", "text": ["x", {"type": "bold", "text": "y"}]}
  ]
}`

func TestParse(t *testing.T) {
	conv, err := Parse([]byte(sampleExport))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if conv.Name != "Family" || conv.Type != "private_group" || string(conv.ID) != "4242" {
		t.Fatalf("unexpected header: %+v", conv.Header)
	}
	if len(conv.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(conv.Messages))
	}
	if conv.Messages[1].Photo != "photos/photo_1.jpg" {
		t.Errorf("photo = %q", conv.Messages[1].Photo)
	}
	if conv.Messages[0].HasPhoto() {
		t.Error("message 0 should have no photo")
	}
	want := time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC)
	if !conv.Messages[1].Day().Equal(want) {
		t.Errorf("Day() = %v, want %v", conv.Messages[1].Day(), want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errStr string
	}{
		{"invalid json", `{"name":`, "invalid JSON"},
		{"missing name", `{"type":"t","id":1,"messages":[]}`, "missing name"},
		{"missing type", `{"name":"n","id":1,"messages":[]}`, "missing type"},
		{"missing id", `{"name":"n","type":"t","messages":[]}`, "missing id"},
		{"missing messages", `{"name":"n","type":"t","id":1}`, "missing messages"},
		{"name not string", `{"name":5,"type":"t","id":1,"messages":[]}`, "invalid JSON"},
		{"message not object", `{"name":"n","type":"t","id":1,"messages":[1]}`, "message 0"},
		{"message without date", `{"name":"n","type":"t","id":1,"messages":[{"text":"hi"}]}`, "missing date"},
		{"bad date", `{"name":"n","type":"t","id":1,"messages":[{"date":"2021-01-01"}]}`, "invalid date"},
		{"photo not string", `{"name":"n","type":"t","id":1,"messages":[{"date":"2021-01-01T00:00:00","photo":3}]}`, "photo must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.errStr)
			}
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("expected ErrMalformedInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.errStr) {
				t.Errorf("error %q does not contain %q", err, tt.errStr)
			}
		})
	}
}

func TestParseNullPhoto(t *testing.T) {
	conv, err := Parse([]byte(`{"name":"n","type":"t","id":"x","messages":[{"date":"2021-01-01T00:00:00","photo":null}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if conv.Messages[0].HasPhoto() {
		t.Fatal("null photo should mean no photo")
	}
}

func TestMarshalPreservesFieldOrder(t *testing.T) {
	conv, err := Parse([]byte(sampleExport))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	data, err := Marshal(conv)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out := string(data)

	order := []string{`"name": "Family"`, `"type": "private_group"`, `"id": 4242`, `"messages": [`}
	last := -1
	for _, key := range order {
		idx := strings.Index(out, key)
		if idx < 0 {
			t.Fatalf("output missing %s:\n%s", key, out)
		}
		if idx < last {
			t.Fatalf("%s out of order:\n%s", key, out)
		}
		last = idx
	}

	second := out[strings.Index(out, `"id": 2`):]
	msgOrder := []string{`"id": 2`, `"type": "message"`, `"date": "2021-01-03T23:59:59"`, `"photo": "photos/photo_1.jpg"`, `"width": 1280`, `"height": 720`}
	last = -1
	for _, key := range msgOrder {
		idx := strings.Index(second, key)
		if idx < last || idx < 0 {
			t.Fatalf("message field %s missing or out of order:\n%s", key, out)
		}
		last = idx
	}

	if !strings.Contains(out, `"text": "a <b> & c"`) {
		t.Errorf("HTML characters should not be escaped:\n%s", out)
	}
	if !strings.HasPrefix(out, "{\n  \"name\"") {
		t.Errorf("expected 2-space indentation:\n%s", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("expected trailing newline")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	conv, err := Parse([]byte(sampleExport))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	first, err := Marshal(conv)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	again, err := Parse(first)
	if err != nil {
		t.Fatalf("Parse output: %v", err)
	}
	second, err := Marshal(again)
	if err != nil {
		t.Fatalf("Marshal again: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("output not stable:\n%s\n---\n%s", first, second)
	}
}

func TestResolveRoot(t *testing.T) {
	root := t.TempDir()
	if _, err := ResolveRoot(root); err != nil {
		t.Fatalf("ResolveRoot: %v", err)
	}

	file := filepath.Join(root, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, path := range []string{"", file, filepath.Join(root, "missing")} {
		if _, err := ResolveRoot(path); !errors.Is(err, ErrMissingInput) {
			t.Errorf("ResolveRoot(%q) = %v, want ErrMissingInput", path, err)
		}
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	if _, err := Load(root); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(root, "result.json"), []byte(sampleExport), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	conv, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(conv.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(conv.Messages))
	}

	if err := os.WriteFile(filepath.Join(root, "result.json"), []byte("not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(root); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}
