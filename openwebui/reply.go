package openwebui

import "encoding/json"

// NoResponseReply is the sentinel returned when no extractor finds
// assistant text in a message-send response.
const NoResponseReply = "*(No response from AI)*"

// replyEnvelope covers the reply shapes observed across OpenWebUI
// versions: the most recent chat turn under "chat", a flat "assistant"
// object, or a bare top-level "content" field.
type replyEnvelope struct {
	Chat *struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"chat"`
	Assistant *struct {
		Content string `json:"content"`
	} `json:"assistant"`
	Content string `json:"content"`
}

// replyExtractors are tried in order; the first non-empty result wins.
// Each known API shape gets its own entry so the version-drift concern
// stays in one place.
var replyExtractors = []func(replyEnvelope) string{
	func(e replyEnvelope) string {
		if e.Chat != nil && e.Chat.Role == "assistant" {
			return e.Chat.Content
		}
		return ""
	},
	func(e replyEnvelope) string {
		if e.Assistant != nil {
			return e.Assistant.Content
		}
		return ""
	},
	func(e replyEnvelope) string {
		return e.Content
	},
}

// ExtractReply pulls the assistant's reply text out of a message-send
// response body. An unrecognised or empty shape degrades to
// NoResponseReply; the backend's response contract is deliberately
// loose, so absence of content is not an error.
func ExtractReply(raw []byte) string {
	var env replyEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return NoResponseReply
	}
	for _, extract := range replyExtractors {
		if text := extract(env); text != "" {
			return text
		}
	}
	return NoResponseReply
}
