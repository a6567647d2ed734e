// Package protocol defines the JSON wire protocol response model: status
// codes, the {sessionId, status, value} envelope and the typed Error that
// handlers return for protocol-level failures.
//
// Every handled request produces exactly one envelope. Errors carry the HTTP
// status they are answered with; most protocol failures use 200, unknown
// commands use 501 and undecodable bodies use 400.
package protocol
