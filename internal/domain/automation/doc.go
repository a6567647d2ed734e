/*
Package automation drives the macOS scripting host on behalf of protocol
handlers.

# Components

  - Executor, Capturer, Serializer: the backend contract. The osascript
    subpackage implements it locally; the remote subpackage forwards it to
    an automation host over HTTP.
  - Queue: a single-consumer FIFO. The scripting host cannot interleave
    commands, so at most one backend execution is ever in flight. Callers
    block until their job has run or their deadline passes.
  - Driver: typed operations (location, navigate, window handles, screenshot,
    source, script execution) built on the queue.

# Errors

Backends report ErrUnreachable, ErrTimeout, ErrNoSuchWindow,
ErrCaptureUnavailable or *ScriptError. A circuit breaker around the worker
opens after consecutive ErrUnreachable failures and fails work fast until
the cooldown passes; script errors never trip it.

# Usage

	queue := automation.NewQueue(automation.QueueConfig{Size: 64, Logger: logger})
	defer queue.Close()

	driver := automation.NewDriver(osascript.New(osascript.Config{}), queue)
	url, err := driver.Location(ctx, "Finder", "")
*/
package automation
