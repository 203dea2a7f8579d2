// Package policy implements the static user allow-list.
package policy

import (
	"strconv"
	"strings"
)

// List is the set of user IDs permitted to use the bot. An empty list
// means the bot is open to everyone.
type List struct {
	ids map[string]struct{}
}

// NewList builds a List from raw config entries. Entries may themselves be
// comma-separated (the ALLOWED_USERS env var is one comma-joined string);
// blanks are dropped.
func NewList(entries []string) *List {
	ids := make(map[string]struct{})
	for _, entry := range entries {
		for _, id := range strings.Split(entry, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			ids[id] = struct{}{}
		}
	}
	return &List{ids: ids}
}

// Allowed reports whether the user may use the bot.
func (l *List) Allowed(userID int64) bool {
	if len(l.ids) == 0 {
		return true
	}
	_, ok := l.ids[strconv.FormatInt(userID, 10)]
	return ok
}

// Size returns the number of configured IDs. Zero means unrestricted.
func (l *List) Size() int { return len(l.ids) }
