// Package osascript is the local automation backend. It drives apps with
// AppleScript run through /usr/bin/osascript, reads windows and the
// accessibility tree through System Events, and captures the screen with
// screencapture.
//
// osascript reports failures on stderr as "execution error: ... (-1728)".
// The trailing number decides the mapping: -600 and -609 mean the app
// cannot be reached, -1712 is an Apple event timeout, -1719 and -1728 mean
// the referenced window does not exist. Anything else is a ScriptError with
// the raw text.
package osascript
