package handlers

import "net/http"

// SessionRouter dispatches the /sessions subtree to the session, event and
// risk handlers. The server mounts it once and all nested routes flow
// through here.
type SessionRouter struct {
	Sessions *SessionHandler
	Events   *EventHandler
	Risk     *RiskHandler
}

// ServeHTTP routes /sessions, /sessions/{id}, /sessions/{id}/events and
// /sessions/{id}/risk.
func (sr *SessionRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path, "/api/v1")
	// segments[0] == "sessions"
	switch {
	case len(segments) == 1 && r.Method == http.MethodGet:
		sr.Sessions.List(w, r)
	case len(segments) == 2 && r.Method == http.MethodGet:
		sr.Sessions.Get(w, r, segments[1])
	case len(segments) == 3 && segments[2] == "events" && r.Method == http.MethodPost:
		sr.Events.Ingest(w, r, segments[1])
	case len(segments) == 3 && segments[2] == "events" && r.Method == http.MethodGet:
		sr.Events.List(w, r, segments[1])
	case len(segments) == 3 && segments[2] == "risk" && r.Method == http.MethodPost:
		sr.Risk.Evaluate(w, r, segments[1])
	default:
		methodNotAllowed(w, r)
	}
}
