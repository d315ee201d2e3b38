package enums

// TokenUse mirrors the Cognito token_use claim.
type TokenUse string

const (
	TokenUseID     TokenUse = "id"
	TokenUseAccess TokenUse = "access"
)

// String implements fmt.Stringer.
func (t TokenUse) String() string {
	return string(t)
}

// IsID reports whether the token is an identity token.
func (t TokenUse) IsID() bool {
	return t == TokenUseID
}
