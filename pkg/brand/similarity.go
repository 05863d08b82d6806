package brand

// Similarity is the Dice coefficient over character bigram multisets:
// 2*|shared| / (|bigrams(a)| + |bigrams(b)|). Inputs are expected to be
// standardized tokens.
func Similarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	grams := make(map[string]int, len(a)-1)
	for i := 0; i < len(a)-1; i++ {
		grams[a[i:i+2]]++
	}

	shared := 0
	for i := 0; i < len(b)-1; i++ {
		g := b[i : i+2]
		if grams[g] > 0 {
			grams[g]--
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(a)-1+len(b)-1)
}
