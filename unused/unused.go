// Package unused finds exports that no file in the project imports by name.
//
// Matching is by name across the whole project: an export counts as used when
// any reference anywhere binds a name equal to it, whichever module the
// reference points at.
package unused

import (
	"sort"

	"github.com/hannajonsd/structural-analysis/model"
)

// Detect returns one warning per declaration site of an export whose name is
// never bound by any reference. Default exports are never reported.
func Detect(exports []model.ExportRecord, refs []model.DependencyReference) []model.StructuralIssue {
	sites := declarationSites(exports)
	bound := BoundNames(refs)

	var unused []model.ExportRecord
	for name, records := range sites {
		if _, ok := bound[name]; ok {
			continue
		}
		for _, exp := range records {
			if exp.Kind == model.ExportDefault {
				continue
			}
			unused = append(unused, exp)
		}
	}

	sort.Slice(unused, func(i, j int) bool {
		a, b := unused[i], unused[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Name < b.Name
	})

	issues := make([]model.StructuralIssue, 0, len(unused))
	for _, exp := range unused {
		issues = append(issues, model.NewUnusedExportIssue(exp))
	}
	return issues
}

// declarationSites groups export records by exported name
func declarationSites(exports []model.ExportRecord) map[string][]model.ExportRecord {
	sites := make(map[string][]model.ExportRecord)
	for _, exp := range exports {
		sites[exp.Name] = append(sites[exp.Name], exp)
	}
	return sites
}

// BoundNames is the set of names bound by any reference, relative or not
func BoundNames(refs []model.DependencyReference) map[string]struct{} {
	bound := make(map[string]struct{})
	for _, ref := range refs {
		for _, name := range ref.Names {
			bound[name] = struct{}{}
		}
	}
	return bound
}
