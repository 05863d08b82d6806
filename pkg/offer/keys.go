package offer

import (
	"fmt"
	"strconv"
)

// DedupKey identifies offers that are indistinguishable to a buyer: same
// probability, stock, delivery day, return terms and price.
func DedupKey(r *Result) string {
	return fmt.Sprintf("%s|%s|%d|%d%d|%s",
		formatFloat(r.DeliveryProbability),
		r.Availability.String(),
		r.DeliveryEpoch(),
		boolToInt(r.Returnable),
		boolToInt(r.AllowReturn),
		formatFloat(r.Price),
	)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
