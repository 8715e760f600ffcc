package model

// Session is the authenticated caller of an operation. It is resolved from
// the bearer token by the transport layer and passed explicitly to services.
type Session struct {
	UserID string
	Email  string
	Role   Role
}

// Validate returns ErrUnauthenticated if the session has no user.
func (s Session) Validate() error {
	if s.UserID == "" || !s.Role.Valid() {
		return ErrUnauthenticated
	}
	return nil
}

// IsTherapist reports whether the caller acts as a therapist.
func (s Session) IsTherapist() bool {
	return s.Role == RoleTherapist
}
