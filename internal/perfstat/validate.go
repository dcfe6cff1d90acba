package perfstat

import (
	"fmt"
	"sort"
)

// ValidateOperations checks one requested operations list before any
// process is launched. The list must be duplicate-free and every name must
// match a registry short label exactly. An empty list is valid and means
// "report the default set". Each batch entry's list is validated
// independently: entries are independent test definitions, so the same
// operation may legitimately appear in more than one entry.
func ValidateOperations(operations []string) error {
	seen := make(map[string]struct{}, len(operations))
	for _, op := range operations {
		if _, dup := seen[op]; dup {
			return fmt.Errorf("list of operations %v contains duplicates", operations)
		}
		seen[op] = struct{}{}
	}

	var labels []string
	known := make(map[string]struct{})
	for _, def := range allStats() {
		labels = append(labels, def.ShortLabel)
		known[def.ShortLabel] = struct{}{}
	}
	sort.Strings(labels)

	for _, op := range operations {
		if _, ok := known[op]; !ok {
			return fmt.Errorf("operation %q does not match any known statistic; possible names are: %v", op, labels)
		}
	}
	return nil
}
