package http

import (
	"net/http"

	"github.com/GriffinCanCode/AppleDriver/internal/api/router"
)

const (
	get  = http.MethodGet
	post = http.MethodPost
	del  = http.MethodDelete
)

// Routes is the full JSON wire command table. Commands without a handler
// answer UnknownCommand.
func Routes() []router.Route {
	return []router.Route{
		// Server
		{Method: get, Pattern: "/status", Name: "getStatus"},
		{Method: post, Pattern: "/session", Name: "postSession"},
		{Method: get, Pattern: "/sessions", Name: "getSessions"},

		// Session
		{Method: get, Pattern: "/session/:sessionId", Name: "getSession"},
		{Method: del, Pattern: "/session/:sessionId", Name: "deleteSession"},
		{Method: get, Pattern: "/session/:sessionId/timeouts", Name: "getTimeouts"},
		{Method: post, Pattern: "/session/:sessionId/timeouts", Name: "postTimeouts"},
		{Method: post, Pattern: "/session/:sessionId/timeouts/async_script", Name: "postAsyncScriptTimeout"},
		{Method: post, Pattern: "/session/:sessionId/timeouts/implicit_wait", Name: "postImplicitWait"},

		// Navigation
		{Method: get, Pattern: "/session/:sessionId/url", Name: "getUrl"},
		{Method: post, Pattern: "/session/:sessionId/url", Name: "postUrl", Deadline: router.DeadlinePageLoad},
		{Method: post, Pattern: "/session/:sessionId/forward", Name: "postForward", Deadline: router.DeadlinePageLoad},
		{Method: post, Pattern: "/session/:sessionId/back", Name: "postBack", Deadline: router.DeadlinePageLoad},
		{Method: post, Pattern: "/session/:sessionId/refresh", Name: "postRefresh", Deadline: router.DeadlinePageLoad},
		{Method: get, Pattern: "/session/:sessionId/title", Name: "getTitle"},

		// Scripts
		{Method: post, Pattern: "/session/:sessionId/execute", Name: "postExecute"},
		{Method: post, Pattern: "/session/:sessionId/execute_async", Name: "postExecuteAsync", Deadline: router.DeadlineAsyncScript},

		// Introspection
		{Method: get, Pattern: "/session/:sessionId/screenshot", Name: "getScreenshot"},
		{Method: get, Pattern: "/session/:sessionId/source", Name: "getSource"},

		// IME
		{Method: get, Pattern: "/session/:sessionId/ime/available_engines", Name: "getImeAvailableEngines"},
		{Method: get, Pattern: "/session/:sessionId/ime/active_engine", Name: "getImeActiveEngine"},
		{Method: get, Pattern: "/session/:sessionId/ime/activated", Name: "getImeActivated"},
		{Method: post, Pattern: "/session/:sessionId/ime/deactivate", Name: "postImeDeactivate"},
		{Method: post, Pattern: "/session/:sessionId/ime/activate", Name: "postImeActivate"},

		// Windows
		{Method: post, Pattern: "/session/:sessionId/frame", Name: "postFrame"},
		{Method: get, Pattern: "/session/:sessionId/window", Name: "getWindow"},
		{Method: post, Pattern: "/session/:sessionId/window", Name: "postWindow"},
		{Method: del, Pattern: "/session/:sessionId/window", Name: "deleteWindow"},
		{Method: get, Pattern: "/session/:sessionId/window_handle", Name: "getWindowHandle"},
		{Method: get, Pattern: "/session/:sessionId/window_handles", Name: "getWindowHandles"},
		{Method: get, Pattern: "/session/:sessionId/window/:windowHandle/size", Name: "getWindowSize"},
		{Method: post, Pattern: "/session/:sessionId/window/:windowHandle/size", Name: "postWindowSize"},
		{Method: get, Pattern: "/session/:sessionId/window/:windowHandle/position", Name: "getWindowPosition"},
		{Method: post, Pattern: "/session/:sessionId/window/:windowHandle/position", Name: "postWindowPosition"},
		{Method: post, Pattern: "/session/:sessionId/window/:windowHandle/maximize", Name: "postWindowMaximize"},

		// Cookies
		{Method: get, Pattern: "/session/:sessionId/cookie", Name: "getCookies"},
		{Method: post, Pattern: "/session/:sessionId/cookie", Name: "postCookie"},
		{Method: del, Pattern: "/session/:sessionId/cookie", Name: "deleteCookies"},
		{Method: del, Pattern: "/session/:sessionId/cookie/:name", Name: "deleteCookie"},

		// Elements
		{Method: post, Pattern: "/session/:sessionId/element", Name: "postElement"},
		{Method: post, Pattern: "/session/:sessionId/elements", Name: "postElements"},
		{Method: post, Pattern: "/session/:sessionId/element/active", Name: "postActiveElement"},
		{Method: get, Pattern: "/session/:sessionId/element/:id", Name: "getElement"},
		{Method: post, Pattern: "/session/:sessionId/element/:id/element", Name: "postElementElement"},
		{Method: post, Pattern: "/session/:sessionId/element/:id/elements", Name: "postElementElements"},
		{Method: post, Pattern: "/session/:sessionId/element/:id/click", Name: "postElementClick"},
		{Method: post, Pattern: "/session/:sessionId/element/:id/submit", Name: "postElementSubmit"},
		{Method: get, Pattern: "/session/:sessionId/element/:id/text", Name: "getElementText"},
		{Method: post, Pattern: "/session/:sessionId/element/:id/value", Name: "postElementValue"},
		{Method: post, Pattern: "/session/:sessionId/keys", Name: "postKeys"},
		{Method: get, Pattern: "/session/:sessionId/element/:id/name", Name: "getElementName"},
		{Method: post, Pattern: "/session/:sessionId/element/:id/clear", Name: "postElementClear"},
		{Method: get, Pattern: "/session/:sessionId/element/:id/selected", Name: "getElementSelected"},
		{Method: get, Pattern: "/session/:sessionId/element/:id/enabled", Name: "getElementEnabled"},
		{Method: get, Pattern: "/session/:sessionId/element/:id/attribute/:name", Name: "getElementAttribute"},
		{Method: get, Pattern: "/session/:sessionId/element/:id/equals/:other", Name: "getElementEquals"},
		{Method: get, Pattern: "/session/:sessionId/element/:id/displayed", Name: "getElementDisplayed"},
		{Method: get, Pattern: "/session/:sessionId/element/:id/location", Name: "getElementLocation"},
		{Method: get, Pattern: "/session/:sessionId/element/:id/location_in_view", Name: "getElementLocationInView"},
		{Method: get, Pattern: "/session/:sessionId/element/:id/size", Name: "getElementSize"},
		{Method: get, Pattern: "/session/:sessionId/element/:id/css/:propertyName", Name: "getElementCSS"},

		// Alerts and orientation
		{Method: get, Pattern: "/session/:sessionId/orientation", Name: "getOrientation"},
		{Method: post, Pattern: "/session/:sessionId/orientation", Name: "postOrientation"},
		{Method: get, Pattern: "/session/:sessionId/alert_text", Name: "getAlertText"},
		{Method: post, Pattern: "/session/:sessionId/alert_text", Name: "postAlertText"},
		{Method: post, Pattern: "/session/:sessionId/accept_alert", Name: "postAcceptAlert"},
		{Method: post, Pattern: "/session/:sessionId/dismiss_alert", Name: "postDismissAlert"},

		// Mouse
		{Method: post, Pattern: "/session/:sessionId/moveto", Name: "postMoveTo"},
		{Method: post, Pattern: "/session/:sessionId/click", Name: "postClick"},
		{Method: post, Pattern: "/session/:sessionId/buttondown", Name: "postButtonDown"},
		{Method: post, Pattern: "/session/:sessionId/buttonup", Name: "postButtonUp"},
		{Method: post, Pattern: "/session/:sessionId/doubleclick", Name: "postDoubleClick"},

		// Touch
		{Method: post, Pattern: "/session/:sessionId/touch/click", Name: "postTouchClick"},
		{Method: post, Pattern: "/session/:sessionId/touch/down", Name: "postTouchDown"},
		{Method: post, Pattern: "/session/:sessionId/touch/up", Name: "postTouchUp"},
		{Method: post, Pattern: "/session/:sessionId/touch/move", Name: "postTouchMove"},
		{Method: post, Pattern: "/session/:sessionId/touch/scroll", Name: "postTouchScroll"},
		{Method: post, Pattern: "/session/:sessionId/touch/doubleclick", Name: "postTouchDoubleClick"},
		{Method: post, Pattern: "/session/:sessionId/touch/longclick", Name: "postTouchLongClick"},
		{Method: post, Pattern: "/session/:sessionId/touch/flick", Name: "postTouchFlick"},

		// Geolocation
		{Method: get, Pattern: "/session/:sessionId/location", Name: "getLocation"},
		{Method: post, Pattern: "/session/:sessionId/location", Name: "postLocation"},

		// Storage
		{Method: get, Pattern: "/session/:sessionId/local_storage", Name: "getLocalStorage"},
		{Method: post, Pattern: "/session/:sessionId/local_storage", Name: "postLocalStorage"},
		{Method: del, Pattern: "/session/:sessionId/local_storage", Name: "deleteLocalStorage"},
		{Method: get, Pattern: "/session/:sessionId/local_storage/key/:key", Name: "getLocalStorageKey"},
		{Method: del, Pattern: "/session/:sessionId/local_storage/key/:key", Name: "deleteLocalStorageKey"},
		{Method: get, Pattern: "/session/:sessionId/local_storage/size", Name: "getLocalStorageSize"},
		{Method: get, Pattern: "/session/:sessionId/session_storage", Name: "getSessionStorage"},
		{Method: post, Pattern: "/session/:sessionId/session_storage", Name: "postSessionStorage"},
		{Method: del, Pattern: "/session/:sessionId/session_storage", Name: "deleteSessionStorage"},
		{Method: get, Pattern: "/session/:sessionId/session_storage/key/:key", Name: "getSessionStorageKey"},
		{Method: del, Pattern: "/session/:sessionId/session_storage/key/:key", Name: "deleteSessionStorageKey"},
		{Method: get, Pattern: "/session/:sessionId/session_storage/size", Name: "getSessionStorageSize"},

		// Logs
		{Method: post, Pattern: "/session/:sessionId/log", Name: "postLog"},
		{Method: get, Pattern: "/session/:sessionId/log/types", Name: "getLogTypes"},
		{Method: get, Pattern: "/session/:sessionId/application_cache/status", Name: "getApplicationCacheStatus"},
	}
}

// NewTable builds the command table under basePath.
func NewTable(basePath string) (*router.Table, error) {
	return router.New(basePath, Routes()...)
}
