package mattermost

import (
	"fmt"

	"github.com/tinyland-inc/boardroom/pkg/bus"
)

// SessionKey derives the stable conversation-scoped identifier shared by
// repeated turns in the same thread. Stream and webhook messages scope by
// thread; slash commands have no thread concept and scope by invoking
// user instead. Pure function: identical inputs always yield the same key.
func SessionKey(source bus.Source, channelID, scopeID string) string {
	return fmt.Sprintf("%s_%s_%s", source, channelID, scopeID)
}
