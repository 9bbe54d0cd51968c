package rules

import "strings"

// Selection describes which rules to run.
type Selection struct {
	// Select lists rule codes or categories. When SelectSet is false the
	// default set (every rule enabled by default) is used.
	Select []string
	// SelectSet distinguishes an explicit empty list, which selects
	// nothing, from an absent one.
	SelectSet bool
	// Ignore removes rule codes or categories from the selection.
	Ignore []string
}

// Resolve returns the selected rules in code order, plus any selection
// entries that matched neither a rule nor a category.
func (reg *Registry) Resolve(sel Selection) (selected []Rule, unknown []string) {
	all := reg.All()

	chosen := make(map[string]bool, len(all))
	if !sel.SelectSet {
		for _, r := range all {
			if r.Metadata().EnabledByDefault {
				chosen[r.Metadata().Code] = true
			}
		}
	} else {
		for _, entry := range sel.Select {
			codes := expand(all, entry)
			if len(codes) == 0 {
				unknown = append(unknown, entry)
			}
			for _, c := range codes {
				chosen[c] = true
			}
		}
	}

	for _, entry := range sel.Ignore {
		codes := expand(all, entry)
		if len(codes) == 0 {
			unknown = append(unknown, entry)
		}
		for _, c := range codes {
			delete(chosen, c)
		}
	}

	for _, r := range all {
		if chosen[r.Metadata().Code] {
			selected = append(selected, r)
		}
	}
	return selected, unknown
}

// expand maps a selection entry to rule codes. "ALL" matches every rule,
// an upper-case category name matches its members.
func expand(all []Rule, entry string) []string {
	entry = strings.TrimSpace(entry)
	var codes []string
	for _, r := range all {
		meta := r.Metadata()
		if entry == "ALL" || meta.Code == entry || meta.Category == entry {
			codes = append(codes, meta.Code)
		}
	}
	return codes
}
