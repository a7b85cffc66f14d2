package protocol_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/Tyrowin/lobby-server/internal/protocol"
)

// TestDecode verifies frame parsing, including protocol-level failures.
func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    protocol.Message
		wantErr bool
	}{
		{
			name:  "login",
			input: `{"mode":"LOGIN","user":"alice"}`,
			want:  protocol.Message{Mode: protocol.ModeLogin, User: "alice"},
		},
		{
			name:  "chat with text",
			input: `{"mode":"CHAT","user":"bob","text":"hi there"}`,
			want:  protocol.Message{Mode: protocol.ModeChat, User: "bob", Text: "hi there"},
		},
		{
			name:  "unknown mode still decodes",
			input: `{"mode":"DANCE","user":"bob"}`,
			want:  protocol.Message{Mode: "DANCE", User: "bob"},
		},
		{
			name:    "missing mode",
			input:   `{"user":"bob"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			input:   `{"mode":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := protocol.Decode([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Decode(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Decode(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeMissingModeSentinel(t *testing.T) {
	_, err := protocol.Decode([]byte(`{"user":"x","text":"y"}`))
	if !errors.Is(err, protocol.ErrMissingMode) {
		t.Errorf("expected ErrMissingMode, got %v", err)
	}
}

// TestEncodeOmitsEmptyText checks that messages without a payload carry no text field.
func TestEncodeOmitsEmptyText(t *testing.T) {
	data, err := protocol.Encode(protocol.FromServer(protocol.ModeLoginOK, ""))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.Contains(string(data), "text") {
		t.Errorf("expected no text field, got %s", data)
	}
	if !strings.Contains(string(data), `"user":"SERVER"`) {
		t.Errorf("expected server user, got %s", data)
	}
}

func TestModeKnown(t *testing.T) {
	known := []protocol.Mode{
		protocol.ModeLogin, protocol.ModeLoginOK, protocol.ModeRoomList,
		protocol.ModeRoomCreate, protocol.ModeRoomEnter, protocol.ModeRoomLeave,
		protocol.ModeRoomUpdate, protocol.ModeChat, protocol.ModeGameStart,
	}
	for _, m := range known {
		if !m.Known() {
			t.Errorf("%s should be known", m)
		}
	}
	if protocol.Mode("login").Known() {
		t.Error("mode tags are case sensitive")
	}
}

// TestListing covers the delimiter-joined encoding, including the empty case.
func TestListing(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		listing string
	}{
		{name: "empty", names: []string{}, listing: ""},
		{name: "single", names: []string{"lobby1"}, listing: "lobby1"},
		{name: "several", names: []string{"alice", "bob", "carol"}, listing: "alice|bob|carol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := protocol.JoinListing(tt.names); got != tt.listing {
				t.Errorf("JoinListing(%v) = %q, want %q", tt.names, got, tt.listing)
			}
			split := protocol.SplitListing(tt.listing)
			if len(split) != len(tt.names) {
				t.Fatalf("SplitListing(%q) = %q, want %q", tt.listing, split, tt.names)
			}
			for i := range split {
				if split[i] != tt.names[i] {
					t.Errorf("SplitListing(%q)[%d] = %q, want %q", tt.listing, i, split[i], tt.names[i])
				}
			}
		})
	}

	if got := protocol.JoinListing(nil); got != "" {
		t.Errorf("JoinListing(nil) = %q, want empty", got)
	}
}
