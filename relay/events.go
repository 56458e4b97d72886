package relay

import "encoding/json"

// EventKind enumerates the webhook event variants the relay acts on.
type EventKind string

const (
	KindJoined  EventKind = "joined"
	KindLeft    EventKind = "left"
	KindMessage EventKind = "message"
	// KindIgnored covers unknown event types and undecodable bodies.
	// Both get an empty acknowledgement, never an error.
	KindIgnored EventKind = "ignored"
)

// Google Chat event type strings.
const (
	typeAddedToSpace     = "ADDED_TO_SPACE"
	typeRemovedFromSpace = "REMOVED_FROM_SPACE"
	typeMessage          = "MESSAGE"
)

// Event is the parsed form of an inbound webhook body. The raw JSON is
// decoded exactly once, here; downstream logic switches on Kind and
// never compares type strings again.
type Event struct {
	Kind            EventKind
	UserDisplayName string
	ConversationID  string
	Text            string
}

// inboundPayload mirrors the subset of the Google Chat event schema the
// relay consumes.
type inboundPayload struct {
	Type string `json:"type"`
	User struct {
		DisplayName string `json:"displayName"`
	} `json:"user"`
	Space struct {
		Name string `json:"name"`
	} `json:"space"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

// ParseEvent converts a raw webhook body into an Event. Malformed or
// unrecognised bodies parse as KindIgnored.
func ParseEvent(raw []byte) Event {
	var p inboundPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Event{Kind: KindIgnored}
	}

	switch p.Type {
	case typeAddedToSpace:
		return Event{
			Kind:            KindJoined,
			UserDisplayName: p.User.DisplayName,
			ConversationID:  p.Space.Name,
		}
	case typeRemovedFromSpace:
		return Event{
			Kind:           KindLeft,
			ConversationID: p.Space.Name,
		}
	case typeMessage:
		return Event{
			Kind:           KindMessage,
			ConversationID: p.Space.Name,
			Text:           p.Message.Text,
		}
	default:
		return Event{Kind: KindIgnored}
	}
}
