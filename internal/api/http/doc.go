/*
Package http implements the JSON wire protocol command layer.

The Dispatcher is installed as gin's NoRoute handler and resolves every
request against the command table itself:

  - unknown paths answer 404 and methods the path does not accept answer
    405, both with an empty body
  - commands without a handler answer 501 with an UnknownCommand envelope
  - session-scoped commands whose session is missing answer SessionNotFound
    before the handler runs

Handlers run under a deadline taken from the session's timeouts and return
a value or an error; the dispatcher classifies errors into protocol status
codes and writes the {sessionId, status, value} envelope.
*/
package http
