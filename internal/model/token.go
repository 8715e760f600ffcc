package model

// TokenManager issues and validates access tokens carrying a Session.
type TokenManager interface {
	GenerateAccessToken(session Session) (string, error)
	ParseAccessToken(token string) (Session, error)
}
