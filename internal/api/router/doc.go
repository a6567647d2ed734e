/*
Package router resolves JSON wire protocol paths to named commands.

Templates mix literal and ":param" segments. A path matches a template with
the same number of segments whose literals agree; when several templates of
one method match, the first differing position decides and a literal beats a
parameter, so "/session/:sessionId/element/active" wins over
"/session/:sessionId/element/:id".

Tables are validated when built: two templates of the same method that
accept exactly the same paths are rejected.
*/
package router
