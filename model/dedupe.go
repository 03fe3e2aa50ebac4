package model

import "fmt"

// MergeReferences folds references to the same module on the same line into one,
// keeping first-seen order of both references and names.
func MergeReferences(refs []DependencyReference) []DependencyReference {
	index := make(map[string]int)
	var result []DependencyReference

	for _, ref := range refs {
		key := fmt.Sprintf("%s|%d", ref.Source, ref.Line)
		if i, ok := index[key]; ok {
			result[i].Names = DeduplicateStrings(append(result[i].Names, ref.Names...))
			continue
		}
		index[key] = len(result)
		ref.Names = DeduplicateStrings(ref.Names)
		result = append(result, ref)
	}

	return result
}

// DeduplicateStrings removes duplicate strings from a slice while preserving order
func DeduplicateStrings(strs []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, s := range strs {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	return result
}
