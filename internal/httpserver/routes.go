package httpserver

import (
	"net/http"
	"sort"
	"strings"
)

type route struct {
	method   string
	segments []string
}

// routeTable remembers every pattern registered on the mux so CORS preflight
// can answer with the methods a path really serves.
type routeTable struct {
	routes []route
}

func (t *routeTable) add(pattern string) {
	method, path, found := strings.Cut(pattern, " ")
	if !found {
		// без метода в паттерне: такие хендлеры сами отвечают только на GET
		method, path = http.MethodGet, pattern
	}
	t.routes = append(t.routes, route{method: method, segments: splitPath(path)})
}

// methodsFor returns the sorted methods registered for path plus OPTIONS,
// or nil when no route matches.
func (t *routeTable) methodsFor(path string) []string {
	segments := splitPath(path)
	set := make(map[string]struct{})
	for _, rt := range t.routes {
		if rt.matches(segments) {
			set[rt.method] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}

	set[http.MethodOptions] = struct{}{}
	methods := make([]string, 0, len(set))
	for m := range set {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

func (rt route) matches(segments []string) bool {
	if len(rt.segments) != len(segments) {
		return false
	}
	for i, seg := range rt.segments {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if seg != segments[i] {
			return false
		}
	}
	return true
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

func (s *Server) handle(pattern string, h http.Handler) {
	s.routeTable.add(pattern)
	s.mux.Handle(pattern, h)
}

func (s *Server) handleFunc(pattern string, h http.HandlerFunc) {
	s.handle(pattern, h)
}
