package auth

// Page is a client landing location.
type Page string

const (
	PageLogin     Page = "/login"
	PageDashboard Page = "/dashboard"
	PageSubmit    Page = "/submit"
	PageAdmin     Page = "/admin"
	PageSuperuser Page = "/superuser"
)

// Decision is the outcome of a guard: either allow, or go to Redirect.
// The caller performs the navigation.
type Decision struct {
	Allow    bool
	Redirect Page
}

// Allowed returns an allowing decision.
func Allowed() Decision {
	return Decision{Allow: true}
}

// RedirectTo returns a decision that sends the user to p.
func RedirectTo(p Page) Decision {
	return Decision{Redirect: p}
}

// RequireAuth allows any signed-in session.
func RequireAuth(s Session) Decision {
	if !s.Authenticated() {
		return RedirectTo(PageLogin)
	}
	return Allowed()
}

// RequireAdmin allows admins and superusers.
func RequireAdmin(s Session) Decision {
	if !s.Authenticated() {
		return RedirectTo(PageLogin)
	}
	if s.Role != RoleAdmin && s.Role != RoleSuperuser {
		return RedirectTo(PageDashboard)
	}
	return Allowed()
}

// RequireSuperuser allows superusers only; everyone else is sent to
// their own landing page.
func RequireSuperuser(s Session) Decision {
	if !s.Authenticated() {
		return RedirectTo(PageLogin)
	}
	if s.Role != RoleSuperuser {
		return RedirectTo(LandingPage(s.Role))
	}
	return Allowed()
}

// LandingPage is where a role goes after login.
func LandingPage(r Role) Page {
	switch r {
	case RoleSuperuser:
		return PageSuperuser
	case RoleAdmin:
		return PageAdmin
	default:
		return PageDashboard
	}
}
