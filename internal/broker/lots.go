package broker

// lotSizes maps index instruments to their contract multiplier. Any symbol
// not listed trades 1:1.
var lotSizes = map[string]int64{
	"NIFTY":     65,
	"SENSEX":    20,
	"BANKNIFTY": 15,
	"FINNIFTY":  25,
}

// expandedQtyThreshold separates raw quantities treated as lot counts from
// ones treated as already-expanded share/contract counts.
const expandedQtyThreshold = 10

// RealQuantity converts a broker-reported quantity to the actual traded
// quantity.
//
// Heuristic (inherited from the reference product, preserved as-is): a raw
// quantity of 10 or more is assumed to already be an expanded share/contract
// count and is returned unchanged; anything below 10 is assumed to be a lot
// count and is multiplied by the instrument's lot size (1 for unlisted
// symbols). The threshold is arbitrary and can misclassify legitimate small
// lot counts (e.g. 9 NIFTY lots); do not treat this as a recommended pattern.
func RealQuantity(symbol string, rawQty int64) int64 {
	if rawQty >= expandedQtyThreshold {
		return rawQty
	}
	if lot, ok := lotSizes[symbol]; ok {
		return rawQty * lot
	}
	return rawQty
}
