// Package ux manages the user's workspace preferences.
//
// Preferences are a small flat record persisted under a single storage key:
//
//   - theme: light, dark or cyberpunk
//   - context: the workspace mode (writing, coding, brainstorming, researching, default)
//   - sidebarCollapsed: whether the sidebar is folded
//   - apiKey: the generation credential
//
// Loading is tolerant. A missing or unreadable record yields the defaults, and
// each known field of a readable record is taken on its own, so one bad value
// never discards the others. Saving always writes the whole record.
package ux
