package domain

// NoticeKind selects how the view layer styles a flash message.
type NoticeKind string

const (
	NoticeInfo  NoticeKind = "notice"
	NoticeError NoticeKind = "error"
)

// Notice is a one-shot message queued for the next rendered page.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Session is the server-side record keyed by the sid cookie. Identity is a
// mirror of the last verified bearer token: a read cache, never a trust
// boundary. The token stays authoritative on every request.
type Session struct {
	ID       string    `json:"id"`
	Identity *Identity `json:"identity,omitempty"`
	Flash    []Notice  `json:"flash,omitempty"`
}
