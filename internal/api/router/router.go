package router

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Deadline names the session timeout that bounds a command.
type Deadline string

const (
	DeadlineScript      Deadline = "script"
	DeadlineAsyncScript Deadline = "asyncScript"
	DeadlinePageLoad    Deadline = "pageLoad"
	// DeadlineServer uses the server-wide command timeout. Session-less
	// routes always use it.
	DeadlineServer Deadline = "server"
)

// SessionParam is the path parameter that carries a session id.
const SessionParam = "sessionId"

// Route declares one command.
type Route struct {
	Method   string
	Pattern  string
	Name     string
	Deadline Deadline

	segments []segment
}

type segment struct {
	literal string
	param   string
}

func (s segment) isParam() bool { return s.param != "" }

// Session reports whether the route is scoped to a session.
func (r *Route) Session() bool {
	for _, s := range r.segments {
		if s.param == SessionParam {
			return true
		}
	}
	return false
}

// shape identifies routes that would match the same paths.
func (r *Route) shape() string {
	var b strings.Builder
	for _, s := range r.segments {
		b.WriteByte('/')
		if s.isParam() {
			b.WriteByte(':')
		} else {
			b.WriteString(s.literal)
		}
	}
	return b.String()
}

// bind matches path segments against the route, returning the bound params.
func (r *Route) bind(parts []string) (Params, bool) {
	if len(parts) != len(r.segments) {
		return nil, false
	}
	var params Params
	for i, s := range r.segments {
		if s.isParam() {
			if parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(Params, 2)
			}
			params[s.param] = parts[i]
			continue
		}
		if parts[i] != s.literal {
			return nil, false
		}
	}
	return params, true
}

// moreSpecific reports whether a beats b: at the first position where one
// has a literal and the other a parameter, the literal wins.
func moreSpecific(a, b *Route) bool {
	for i := range a.segments {
		al, bl := !a.segments[i].isParam(), !b.segments[i].isParam()
		if al != bl {
			return al
		}
	}
	return false
}

func parsePattern(pattern string) ([]segment, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("pattern %q must start with /", pattern)
	}
	parts := split(pattern)
	segs := make([]segment, 0, len(parts))
	for _, p := range parts {
		switch {
		case p == "":
			return nil, fmt.Errorf("pattern %q has an empty segment", pattern)
		case strings.HasPrefix(p, ":"):
			if len(p) == 1 {
				return nil, fmt.Errorf("pattern %q has an unnamed parameter", pattern)
			}
			segs = append(segs, segment{param: p[1:]})
		default:
			segs = append(segs, segment{literal: p})
		}
	}
	return segs, nil
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Params holds the values bound to a route's parameters.
type Params map[string]string

// Get returns the named parameter or "".
func (p Params) Get(name string) string {
	return p[name]
}

// Outcome classifies a lookup.
type Outcome int

const (
	Matched Outcome = iota
	NotFound
	MethodNotAllowed
)

// Match is the result of resolving a request.
type Match struct {
	Outcome Outcome
	Route   *Route
	Params  Params
	// Allow lists the methods accepted for the path when Outcome is
	// MethodNotAllowed.
	Allow []string
}

// Table is an immutable set of routes.
type Table struct {
	basePath string
	routes   []*Route
	byName   map[string]*Route
}

// New builds a table and validates it. basePath, if set, is an optional
// prefix stripped from request paths before matching.
func New(basePath string, routes ...Route) (*Table, error) {
	t := &Table{
		basePath: strings.TrimRight(basePath, "/"),
		byName:   make(map[string]*Route, len(routes)),
	}
	for i := range routes {
		r := routes[i]
		segs, err := parsePattern(r.Pattern)
		if err != nil {
			return nil, err
		}
		r.segments = segs
		if r.Method == "" {
			return nil, fmt.Errorf("route %q has no method", r.Pattern)
		}
		if r.Name == "" {
			return nil, fmt.Errorf("route %s %s has no name", r.Method, r.Pattern)
		}
		if r.Deadline == "" {
			r.Deadline = DeadlineScript
		}
		if !r.Session() {
			r.Deadline = DeadlineServer
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("duplicate route name %q", r.Name)
		}
		t.byName[r.Name] = &r
		t.routes = append(t.routes, &r)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustBuild is New that panics on an invalid table.
func MustBuild(basePath string, routes ...Route) *Table {
	t, err := New(basePath, routes...)
	if err != nil {
		panic(fmt.Sprintf("router: %v", err))
	}
	return t
}

// Validate fails when two routes with the same method match exactly the
// same set of paths. Templates that only overlap, such as /a/:x/c and
// /a/b/:y, are accepted: a path matching both goes to the route with a
// literal at the leftmost position where the two differ.
func (t *Table) Validate() error {
	seen := make(map[string]*Route, len(t.routes))
	for _, r := range t.routes {
		key := r.Method + " " + r.shape()
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("ambiguous routes: %s %s and %s %s", prev.Method, prev.Pattern, r.Method, r.Pattern)
		}
		seen[key] = r
	}
	return nil
}

// Routes returns the routes in declaration order.
func (t *Table) Routes() []*Route {
	out := make([]*Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup returns the route with the given name.
func (t *Table) Lookup(name string) (*Route, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// StripBase removes the base path prefix, if present.
func (t *Table) StripBase(path string) string {
	if t.basePath == "" || !strings.HasPrefix(path, t.basePath) {
		return path
	}
	rest := path[len(t.basePath):]
	if rest == "" {
		return "/"
	}
	if rest[0] != '/' {
		return path
	}
	return rest
}

// Match resolves method and path. Among routes of the request method the
// most specific one wins. When only other methods match the path the
// outcome is MethodNotAllowed.
func (t *Table) Match(method, path string) Match {
	parts := split(t.StripBase(path))

	var (
		best       *Route
		bestParams Params
		allowed    map[string]struct{}
	)
	for _, r := range t.routes {
		params, ok := r.bind(parts)
		if !ok {
			continue
		}
		if r.Method != method {
			if allowed == nil {
				allowed = make(map[string]struct{})
			}
			allowed[r.Method] = struct{}{}
			continue
		}
		if best == nil || moreSpecific(r, best) {
			best, bestParams = r, params
		}
	}

	if best != nil {
		if bestParams == nil {
			bestParams = Params{}
		}
		return Match{Outcome: Matched, Route: best, Params: bestParams}
	}
	if len(allowed) == 0 {
		return Match{Outcome: NotFound}
	}

	allow := make([]string, 0, len(allowed))
	for m := range allowed {
		allow = append(allow, m)
	}
	sort.Strings(allow)
	return Match{Outcome: MethodNotAllowed, Allow: allow}
}

// HTTPStatus maps a non-matched outcome to its transport status.
func (o Outcome) HTTPStatus() int {
	switch o {
	case NotFound:
		return http.StatusNotFound
	case MethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusOK
	}
}
