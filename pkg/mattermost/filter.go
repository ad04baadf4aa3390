package mattermost

import (
	"slices"
	"strings"

	"github.com/tinyland-inc/boardroom/pkg/bus"
)

// Filter decides whether the bot should respond to a message and strips
// addressing artifacts from the text.
type Filter struct {
	// replyToMentionsOnly suppresses responses to ambient channel chatter,
	// leaving only direct messages and explicit mentions.
	replyToMentionsOnly bool
	// configuredBotName is the static fallback checked alongside the live
	// display name, since the two may differ.
	configuredBotName string
}

func NewFilter(replyToMentionsOnly bool, configuredBotName string) *Filter {
	return &Filter{
		replyToMentionsOnly: replyToMentionsOnly,
		configuredBotName:   configuredBotName,
	}
}

// Apply returns the cleaned message text and whether processing should
// continue. selfID and selfName come from connection state resolved at
// connect time.
func (f *Filter) Apply(msg bus.InboundMessage, selfID, selfName string) (string, bool) {
	// Self-loop prevention is unconditional, independent of policy.
	if msg.UserID == selfID {
		return "", false
	}

	isMentioned := (selfID != "" && slices.Contains(msg.MentionedIDs, selfID)) ||
		(selfName != "" && strings.Contains(msg.Content, "@"+selfName)) ||
		(f.configuredBotName != "" && strings.Contains(msg.Content, "@"+f.configuredBotName))

	if f.replyToMentionsOnly && !msg.IsDirect && !isMentioned {
		return "", false
	}

	cleaned := msg.Content
	if selfName != "" {
		cleaned = strings.ReplaceAll(cleaned, "@"+selfName, "")
	}
	if f.configuredBotName != "" {
		cleaned = strings.ReplaceAll(cleaned, "@"+f.configuredBotName, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}
