package keyterms

import "context"

// fallbackTier is one strategy in the escalation chain. Tiers run in
// order; the first tier returning a non-empty result wins. Keeping the
// chain as an explicit list makes the escalation policy auditable and
// testable per tier.
type fallbackTier struct {
	name string
	run  func(ctx context.Context) ([]Keyword, error)
}

// runTiers executes the chain and returns the first non-empty result along
// with the name of the tier that produced it.
func runTiers(ctx context.Context, tiers []fallbackTier) ([]Keyword, string, error) {
	for _, t := range tiers {
		kws, err := t.run(ctx)
		if err != nil {
			return nil, t.name, err
		}
		if len(kws) > 0 {
			return kws, t.name, nil
		}
	}
	return nil, "", nil
}

// vocabularyCandidates builds the last-resort candidate set: the distinct
// raw tokens of the normalized document in order of appearance, bypassing
// phrase candidates entirely. Stopwords are kept here on purpose so that a
// document consisting solely of function words still yields something.
func vocabularyCandidates(normalized string) []string {
	tokens := tokenize(normalized)
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
