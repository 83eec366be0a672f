// Package ui holds the [lipgloss] styles used for human-readable CLI output.
//
// Only interactive commands (setup, oauth, status) render through a [Palette]; machine
// output such as `ytproxy api get` stays plain JSON so it can be piped.
package ui
