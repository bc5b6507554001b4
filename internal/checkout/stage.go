package checkout

// Stage is where a shopper is in the purchase flow.
type Stage string

const (
	StageBrowsing       Stage = "BROWSING"
	StageCartHasItems   Stage = "CART_HAS_ITEMS"
	StageCheckoutFilled Stage = "CHECKOUT_FILLED"
	StageSubmitted      Stage = "SUBMITTED"
	StageConfirmed      Stage = "CONFIRMED"
)

var validNext = map[Stage]map[Stage]bool{
	StageBrowsing:       {StageCartHasItems: true},
	StageCartHasItems:   {StageBrowsing: true, StageCheckoutFilled: true},
	StageCheckoutFilled: {StageCartHasItems: true, StageSubmitted: true},
	StageSubmitted:      {StageConfirmed: true},
	StageConfirmed:      {StageBrowsing: true},
}

func CanTransition(from, to Stage) bool {
	return validNext[from][to]
}
