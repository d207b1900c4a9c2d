package session

// DestinationKind tags a navigation target.
type DestinationKind int

const (
	// DestPublic destinations render for everyone.
	DestPublic DestinationKind = iota
	// DestProtected destinations require an authenticated session.
	DestProtected
)

// Decision is the route guard's verdict for a navigation attempt.
type Decision int

const (
	// Render the destination.
	Render Decision = iota
	// RedirectLogin sends the caller to the login entry point.
	RedirectLogin
	// Pending means the session is still verifying; show a neutral
	// loading state rather than flashing protected content.
	Pending
)

func (d Decision) String() string {
	switch d {
	case RedirectLogin:
		return "redirect(login)"
	case Pending:
		return "pending"
	default:
		return "render"
	}
}

// Decide resolves whether a destination is reachable for the given
// session status. Pure: same inputs, same verdict, no side effects.
func Decide(status Status, dest DestinationKind) Decision {
	if dest == DestPublic {
		return Render
	}
	switch status {
	case StatusVerifying:
		return Pending
	case StatusAuthenticated:
		return Render
	default:
		return RedirectLogin
	}
}
