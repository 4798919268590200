package training

// Catalog navigation over the training forest. All functions are pure and
// tolerate dangling parent references.

// ChildrenOf returns the trainings whose parent is parentID, in insertion
// order. An empty parentID selects the roots.
func ChildrenOf(all []Training, parentID string) []Training {
	out := []Training{}
	for _, t := range all {
		if t.ParentTrainingID == parentID {
			out = append(out, t)
		}
	}
	return out
}

// IsFolder reports whether t is a grouping node: it has at least one child,
// or it has no price.
func IsFolder(all []Training, t Training) bool {
	if t.Price == 0 {
		return true
	}
	for _, c := range all {
		if c.ParentTrainingID == t.ID {
			return true
		}
	}
	return false
}

// Breadcrumbs walks parent references upward from id and returns the path
// root-first, ending with the node itself. A dangling parent reference
// terminates the walk silently; the path covers what could be resolved.
func Breadcrumbs(all []Training, id string) []Training {
	byID := make(map[string]Training, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}

	var path []Training
	seen := map[string]bool{}
	cur := id
	for cur != "" && !seen[cur] {
		seen[cur] = true
		t, ok := byID[cur]
		if !ok {
			break
		}
		path = append([]Training{t}, path...)
		cur = t.ParentTrainingID
	}
	return path
}

// Flat status views. These ignore the hierarchy entirely and only consider
// real trainings (price > 0).

func ActiveView(all []Training) []Training {
	return filterReal(all, func(t Training) bool {
		return t.Status == StatusRegistrationOpen || t.Status == StatusRegistrationPrep
	})
}

func CompletedView(all []Training) []Training {
	return filterReal(all, func(t Training) bool { return t.Status == StatusCompleted })
}

func PlannedView(all []Training) []Training {
	return filterReal(all, func(t Training) bool { return t.Status == StatusPlanning })
}

func filterReal(all []Training, keep func(Training) bool) []Training {
	out := []Training{}
	for _, t := range all {
		if t.Price > 0 && keep(t) {
			out = append(out, t)
		}
	}
	return out
}
