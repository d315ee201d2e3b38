package enums

// TrustLevel buckets a reputation score for display. It is derived, never
// stored: TrustLevelFor is a pure function of the score alone. The stricter
// advisory classification that also weighs review counts and ratings lives
// in the reputation service and must not be conflated with this one.
type TrustLevel string

const (
	TrustLevelExcellent TrustLevel = "EXCELLENT"
	TrustLevelGood      TrustLevel = "GOOD"
	TrustLevelFair      TrustLevel = "FAIR"
	TrustLevelBasic     TrustLevel = "BASIC"
	TrustLevelNew       TrustLevel = "NEW"
)

// String implements fmt.Stringer.
func (t TrustLevel) String() string {
	return string(t)
}

// TrustLevelFor maps a reputation score to its trust level.
func TrustLevelFor(score int) TrustLevel {
	switch {
	case score >= 1000:
		return TrustLevelExcellent
	case score >= 500:
		return TrustLevelGood
	case score >= 100:
		return TrustLevelFair
	default:
		return TrustLevelNew
	}
}
