package preference

import "github.com/dmitrymomot/notifykit/pkg/notification"

// defaults is the single source of truth for the "no stored row" behavior.
// Absence of a stored preference row, or of one type's entry within it, is
// semantically equivalent to the matching entry here.
var defaults = map[notification.Type][]notification.Channel{
	notification.TypeTaskAssigned:      {notification.ChannelInApp},
	notification.TypeTaskStatusChanged: {notification.ChannelInApp},
	notification.TypeCommentAdded:      {notification.ChannelInApp},
	notification.TypeProjectInvited:    {notification.ChannelInApp, notification.ChannelEmail},
	notification.TypeTaskDueSoon:       {notification.ChannelInApp, notification.ChannelEmail},
}

// DefaultChannels returns the hard-coded default channel list for a type.
// The returned slice is a copy; callers may mutate it freely.
func DefaultChannels(t notification.Type) []notification.Channel {
	chs, ok := defaults[t]
	if !ok {
		return nil
	}
	out := make([]notification.Channel, len(chs))
	copy(out, chs)
	return out
}

// Defaults returns the full default preference table as a fresh copy.
func Defaults() map[notification.Type][]notification.Channel {
	out := make(map[notification.Type][]notification.Channel, len(defaults))
	for t := range defaults {
		out[t] = DefaultChannels(t)
	}
	return out
}
