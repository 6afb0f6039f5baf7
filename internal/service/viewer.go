package service

// ViewerKind discriminates the three identity cases for like tracking.
type ViewerKind int

const (
	// ViewerUnidentified is a caller with no identity at all, e.g. a
	// browser that has not bootstrapped a session identifier yet.
	ViewerUnidentified ViewerKind = iota
	// ViewerAuthenticated is a logged-in user.
	ViewerAuthenticated
	// ViewerAnonymous is an anonymous browser tracked by an opaque
	// session identifier.
	ViewerAnonymous
)

// Viewer is the identity a like belongs to. It is a tagged value rather
// than a pair of nullable fields, so "both set" and "neither set" are
// unrepresentable. The zero value is unidentified.
type Viewer struct {
	kind      ViewerKind
	userID    int64
	sessionID string
}

// AuthenticatedViewer identifies a logged-in user.
func AuthenticatedViewer(userID int64) Viewer {
	return Viewer{kind: ViewerAuthenticated, userID: userID}
}

// AnonymousViewer identifies an anonymous browser by its session
// identifier. An empty identifier yields an unidentified viewer.
func AnonymousViewer(sessionID string) Viewer {
	if sessionID == "" {
		return Viewer{}
	}
	return Viewer{kind: ViewerAnonymous, sessionID: sessionID}
}

// UnidentifiedViewer is a caller with no usable identity.
func UnidentifiedViewer() Viewer {
	return Viewer{}
}

// ResolveViewer applies the resolution order: an authenticated user id
// always wins, the session identifier (even if present) is ignored;
// otherwise a non-empty session identifier; otherwise unidentified.
func ResolveViewer(userID *int64, sessionID string) Viewer {
	if userID != nil {
		return AuthenticatedViewer(*userID)
	}
	return AnonymousViewer(sessionID)
}

// Kind reports which identity case this viewer is.
func (v Viewer) Kind() ViewerKind { return v.kind }

// UserID returns the user id of an authenticated viewer.
func (v Viewer) UserID() int64 { return v.userID }

// SessionID returns the session identifier of an anonymous viewer.
func (v Viewer) SessionID() string { return v.sessionID }
