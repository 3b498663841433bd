package dedupe

// NearDuplicatePair names two source files whose extracted text landed
// within maxDistance bits of each other under SimHash. The orchestrator
// runs this check once a batch is processed and reports each pair as an
// info-level log line; no report file records it.
type NearDuplicatePair struct {
	FileA    string
	FileB    string
	Distance int
}

// DefaultNearDuplicateKGram and DefaultNearDuplicateMaxDistance mirror the
// SimHash parameters the teacher's chunk-level dedup uses, retuned for
// whole-document comparison instead of paragraph chunks.
const (
	DefaultNearDuplicateKGram       = 5
	DefaultNearDuplicateMaxDistance = 3
)

// BatchNearDuplicates compares every pair of documents in texts (keyed by
// source file name) and reports those whose SimHash signatures are within
// maxDistance bits, repurposing the teacher's simhash64/hammingDistance
// machinery for whole-PDF near-duplicate detection across a batch.
func BatchNearDuplicates(texts map[string]string, maxDistance int) []NearDuplicatePair {
	if maxDistance <= 0 {
		maxDistance = DefaultNearDuplicateMaxDistance
	}

	names := make([]string, 0, len(texts))
	signatures := make(map[string]uint64, len(texts))
	for name, text := range texts {
		names = append(names, name)
		signatures[name] = simhash64(text, DefaultNearDuplicateKGram)
	}

	var pairs []NearDuplicatePair
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := names[i], names[j]
			dist := hammingDistance(signatures[a], signatures[b])
			if dist <= maxDistance {
				pairs = append(pairs, NearDuplicatePair{FileA: a, FileB: b, Distance: dist})
			}
		}
	}
	return pairs
}
