package achievement

// CheckAll evaluates every achievement against ctx and returns the ones
// earned by this call, in list order. Evaluation stops at the first
// misconfigured achievement.
func CheckAll(list []*Achievement, ctx any, n Notifier) ([]*Achievement, error) {
	var earned []*Achievement
	for _, a := range list {
		ok, err := a.Check(ctx, n)
		if err != nil {
			return earned, err
		}
		if ok {
			earned = append(earned, a)
		}
	}
	return earned, nil
}

// Earned snapshots the completion state of list, keyed by name
func Earned(list []*Achievement) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, a := range list {
		out[a.Name] = a.Completed
	}
	return out
}

// Restore re-applies a snapshot taken with Earned. Achievement definitions
// carry trigger functions and so live in code; only completion is persisted.
func Restore(list []*Achievement, earned map[string]bool) {
	for _, a := range list {
		if earned[a.Name] {
			a.Achieve()
		}
	}
}
