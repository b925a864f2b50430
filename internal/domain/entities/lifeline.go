package entities

// Lifeline is a one-shot aid a player can use once per game.
type Lifeline string

const (
	LifelineFiftyFifty  Lifeline = "fifty_fifty"
	LifelineAudience    Lifeline = "audience"
	LifelinePhoneFriend Lifeline = "phone_friend"
)

// ParseLifeline converts a raw string into a known lifeline.
func ParseLifeline(s string) (Lifeline, error) {
	switch l := Lifeline(s); l {
	case LifelineFiftyFifty, LifelineAudience, LifelinePhoneFriend:
		return l, nil
	default:
		return "", ErrUnknownLifeline
	}
}
