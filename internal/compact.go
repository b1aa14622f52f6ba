package internal

// Compact collapses adjacent turns that share a role and each carry exactly
// one text fragment, concatenating their text. Every other turn is kept as an
// independent entry. Compact is pure and idempotent.
func Compact(turns []Turn) []Turn {
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if n := len(out); n > 0 {
			if merged, ok := mergeTurns(out[n-1], t); ok {
				out[n-1] = merged
				continue
			}
		}
		out = append(out, t.clone())
	}
	return out
}

func mergeTurns(last, next Turn) (Turn, bool) {
	if last.Role != next.Role {
		return Turn{}, false
	}
	if len(last.Fragments) != 1 || len(next.Fragments) != 1 {
		return Turn{}, false
	}
	a, ok := last.Fragments[0].(Text)
	if !ok {
		return Turn{}, false
	}
	b, ok := next.Fragments[0].(Text)
	if !ok {
		return Turn{}, false
	}
	return NewTextTurn(last.Role, a.Content+b.Content), true
}
