package identity

import (
	"strings"

	"github.com/biddergod/users-service/pkg/enums"
	pkgerrors "github.com/biddergod/users-service/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
)

// ClaimsProfile is the typed view of a verified Cognito token. It is
// populated once during extraction; absent claims stay zero-valued rather
// than being re-fetched by name at call sites.
type ClaimsProfile struct {
	Subject  string
	TokenUse enums.TokenUse

	// Username comes from cognito:username on identity tokens and from
	// username on access tokens; for most pools both equal the subject.
	Username string
	Email    string

	EmailVerified *bool
	GivenName     string
	FamilyName    string
	Name          string
	Groups        []string
	ClientID      string
}

// IsIDToken reports whether the profile came from an identity token.
func (p ClaimsProfile) IsIDToken() bool {
	return p.TokenUse.IsID()
}

// InGroup reports whether the token listed the given Cognito group.
func (p ClaimsProfile) InGroup(group string) bool {
	for _, g := range p.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// ExtractProfile normalizes a verified token's claims into a ClaimsProfile.
// Access tokens and identity tokens disagree about where the username lives;
// everything else is optional. The subject is mandatory.
func ExtractProfile(claims jwt.MapClaims) (ClaimsProfile, error) {
	sub := stringClaim(claims, "sub")
	if sub == "" {
		return ClaimsProfile{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "token missing subject")
	}

	profile := ClaimsProfile{
		Subject:    sub,
		TokenUse:   enums.TokenUse(stringClaim(claims, "token_use")),
		Email:      stringClaim(claims, "email"),
		GivenName:  stringClaim(claims, "given_name"),
		FamilyName: stringClaim(claims, "family_name"),
		Name:       stringClaim(claims, "name"),
		ClientID:   stringClaim(claims, "client_id"),
		Groups:     groupsClaim(claims),
	}

	if profile.TokenUse.IsID() {
		profile.Username = stringClaim(claims, "cognito:username")
	} else {
		profile.Username = stringClaim(claims, "username")
	}

	if verified, ok := boolClaim(claims, "email_verified"); ok {
		profile.EmailVerified = &verified
	}

	return profile, nil
}

func stringClaim(claims jwt.MapClaims, name string) string {
	if v, ok := claims[name].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// boolClaim tolerates the string forms Cognito sometimes emits.
func boolClaim(claims jwt.MapClaims, name string) (bool, bool) {
	switch v := claims[name].(type) {
	case bool:
		return v, true
	case string:
		if v == "true" {
			return true, true
		}
		if v == "false" {
			return false, true
		}
	}
	return false, false
}

func groupsClaim(claims jwt.MapClaims) []string {
	groups := []string{}
	raw, ok := claims["cognito:groups"].([]any)
	if !ok {
		return groups
	}
	for _, entry := range raw {
		if g, ok := entry.(string); ok && g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}
