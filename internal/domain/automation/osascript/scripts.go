package osascript

import (
	"fmt"
	"net/url"
	"strings"
)

// Applications with their own URL terminology.
const (
	appFinder = "Finder"
	appSafari = "Safari"
)

var chromiumApps = map[string]bool{
	"Google Chrome":  true,
	"Chromium":       true,
	"Brave Browser":  true,
	"Microsoft Edge": true,
	"Vivaldi":        true,
}

// quote renders s as an AppleScript string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// windowRef addresses a named window or the front window of a process.
func windowRef(window string) string {
	if window == "" {
		return "front window"
	}
	return "window " + quote(window)
}

func finderWindowRef(window string) string {
	if window == "" {
		return "front Finder window"
	}
	return "Finder window " + quote(window)
}

func probeScript(app string) string {
	return fmt.Sprintf(`tell application %s to launch
tell application "System Events" to return (exists process %s)`, quote(app), quote(app))
}

func locationScript(app, window string) string {
	switch {
	case app == appFinder:
		return fmt.Sprintf(`tell application "Finder"
	if (count of Finder windows) is 0 then return URL of desktop
	return URL of target of %s
end tell`, finderWindowRef(window))
	case app == appSafari:
		return fmt.Sprintf(`tell application "Safari" to return URL of current tab of %s`, windowRef(window))
	case chromiumApps[app]:
		return fmt.Sprintf(`tell application %s to return URL of active tab of %s`, quote(app), windowRef(window))
	default:
		return titleScript(app, window)
	}
}

func navigateScript(app, window, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return "", fmt.Errorf("invalid url %q", rawURL)
	}

	switch {
	case app == appFinder && u.Scheme == "file":
		return fmt.Sprintf(`tell application "Finder"
	set dest to (POSIX file %s) as alias
	if (count of Finder windows) is 0 then
		make new Finder window to dest
	else
		set target of %s to dest
	end if
end tell`, quote(u.Path), finderWindowRef(window)), nil
	case app == appSafari:
		return fmt.Sprintf(`tell application "Safari"
	if (count of windows) is 0 then
		make new document with properties {URL:%s}
	else
		set URL of current tab of %s to %s
	end if
end tell`, quote(rawURL), windowRef(window), quote(rawURL)), nil
	case chromiumApps[app]:
		return fmt.Sprintf(`tell application %s
	if (count of windows) is 0 then make new window
	set URL of active tab of %s to %s
end tell`, quote(app), windowRef(window), quote(rawURL)), nil
	default:
		return fmt.Sprintf(`tell application %s to open location %s`, quote(app), quote(rawURL)), nil
	}
}

func titleScript(app, window string) string {
	return fmt.Sprintf(`tell application "System Events" to tell process %s
	if (count of windows) is 0 then return ""
	return name of %s
end tell`, quote(app), windowRef(window))
}

func windowsScript(app string) string {
	return fmt.Sprintf(`set AppleScript's text item delimiters to linefeed
tell application "System Events" to tell process %s
	return (name of every window) as text
end tell`, quote(app))
}

func frontWindowScript(app string) string {
	return titleScript(app, "")
}

func focusWindowScript(app, window string) string {
	return fmt.Sprintf(`tell application "System Events" to tell process %s
	if not (exists window %s) then error "window not found" number -1728
	perform action "AXRaise" of window %s
	set frontmost to true
end tell`, quote(app), quote(window), quote(window))
}

func closeWindowScript(app, window string) string {
	return fmt.Sprintf(`tell application "System Events" to tell process %s
	if not (exists window %s) then error "window not found" number -1728
	click (first button of window %s whose subrole is "AXCloseButton")
end tell`, quote(app), quote(window), quote(window))
}

func hierarchyScript(app string) string {
	return fmt.Sprintf(`set out to ""
tell application "System Events" to tell process %s
	repeat with w in windows
		set out to out & "AXWindow " & quote & (name of w) & quote & linefeed
		repeat with e in (entire contents of w)
			set line_ to "  " & (role of e)
			try
				set n to name of e
				if n is not missing value then set line_ to line_ & " " & quote & n & quote
			end try
			set out to out & line_ & linefeed
		end repeat
	end repeat
end tell
return out`, quote(app))
}
