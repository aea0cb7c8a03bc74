// Package preference decides which channels a notification goes out on.
//
// The hard-coded default table is the single source of truth for users with
// no stored row. Stored rows keep each type's channel list as raw JSON so a
// corrupt entry for one type degrades to that type's default without
// disturbing the other four. The Resolver never returns an empty channel set.
package preference
