package relay_test

import (
	"testing"

	"github.com/cojovi/chat-relay/relay"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name string
		body string
		want relay.Event
	}{
		{
			name: "added to space",
			body: `{"type": "ADDED_TO_SPACE", "user": {"displayName": "Ada"}, "space": {"name": "spaces/AAA"}}`,
			want: relay.Event{Kind: relay.KindJoined, UserDisplayName: "Ada", ConversationID: "spaces/AAA"},
		},
		{
			name: "added to space without display name",
			body: `{"type": "ADDED_TO_SPACE", "space": {"name": "spaces/AAA"}}`,
			want: relay.Event{Kind: relay.KindJoined, ConversationID: "spaces/AAA"},
		},
		{
			name: "removed from space",
			body: `{"type": "REMOVED_FROM_SPACE", "space": {"name": "spaces/AAA"}}`,
			want: relay.Event{Kind: relay.KindLeft, ConversationID: "spaces/AAA"},
		},
		{
			name: "message",
			body: `{"type": "MESSAGE", "space": {"name": "spaces/AAA"}, "message": {"text": "hello"}}`,
			want: relay.Event{Kind: relay.KindMessage, ConversationID: "spaces/AAA", Text: "hello"},
		},
		{
			name: "unknown type",
			body: `{"type": "CARD_CLICKED", "space": {"name": "spaces/AAA"}}`,
			want: relay.Event{Kind: relay.KindIgnored},
		},
		{
			name: "missing type",
			body: `{"space": {"name": "spaces/AAA"}}`,
			want: relay.Event{Kind: relay.KindIgnored},
		},
		{
			name: "malformed json",
			body: `{"type": "MESSAGE"`,
			want: relay.Event{Kind: relay.KindIgnored},
		},
		{
			name: "empty body",
			body: ``,
			want: relay.Event{Kind: relay.KindIgnored},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, relay.ParseEvent([]byte(tc.body)))
		})
	}
}
