package scan

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/hannajonsd/structural-analysis/model"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	quotedPattern     = regexp.MustCompile(`['"]([^'"]+)['"]`)
)

// Scan extracts declarations line by line. It never fails: lines that match
// no rule are skipped. File and Path are left for the caller to fill in.
func (ps *PatternSet) Scan(content string) model.Declarations {
	if ps.StripComments {
		content = removeCComments(content)
	}

	var (
		authoritative []model.ExportRecord
		regular       []model.ExportRecord
		refs          []model.DependencyReference
		hasAuthority  bool
	)

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		line := scanner.Text()
		lineNo++

		for _, rule := range ps.Exports {
			m := rule.Regex.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			exports := rule.exports(m, lineNo)
			if rule.Authoritative {
				hasAuthority = true
				authoritative = append(authoritative, exports...)
			} else {
				regular = append(regular, exports...)
			}
		}

		for _, rule := range ps.Imports {
			m := rule.Regex.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			source := strings.TrimSpace(m[rule.Source])
			if source == "" {
				continue
			}

			var names []string
			if rule.Names > 0 {
				names = extractNames(m[rule.Names], rule.Mode, false)
			}

			refs = append(refs, model.DependencyReference{
				Source:   source,
				Names:    names,
				Line:     lineNo,
				Relative: model.IsRelativeSource(source),
			})
		}
	}

	decls := model.Declarations{References: model.MergeReferences(refs)}
	if hasAuthority {
		decls.Exports = authoritative
	} else {
		decls.Exports = regular
	}
	return decls
}

func (r ExportRule) exports(m []string, line int) []model.ExportRecord {
	if r.Mode == ModeFixed {
		return []model.ExportRecord{{Name: model.DefaultExportName, Line: line, Kind: r.Kind}}
	}

	var exports []model.ExportRecord
	for _, name := range extractNames(m[r.Group], r.Mode, r.TakeAlias) {
		if r.SkipPrivate && strings.HasPrefix(name, "_") {
			continue
		}

		kind := r.Kind
		if name == model.DefaultExportName {
			kind = model.ExportDefault
		}
		exports = append(exports, model.ExportRecord{Name: name, Line: line, Kind: kind})
	}
	return exports
}

func extractNames(group string, mode Mode, takeAlias bool) []string {
	switch mode {
	case ModeList:
		return splitNameList(group, takeAlias)
	case ModeQuotedList:
		var names []string
		for _, m := range quotedPattern.FindAllStringSubmatch(group, -1) {
			names = append(names, m[1])
		}
		return names
	case ModeHead:
		head := strings.SplitN(strings.TrimSpace(group), ".", 2)[0]
		if identifierPattern.MatchString(head) {
			return []string{head}
		}
		return nil
	default:
		name := strings.TrimSpace(group)
		if identifierPattern.MatchString(name) {
			return []string{name}
		}
		return nil
	}
}

// splitNameList parses "a, b as c, type D" and "{ a: b, c = 1 }" style lists
func splitNameList(list string, takeAlias bool) []string {
	if i := strings.Index(list, "#"); i >= 0 {
		list = list[:i]
	}
	list = strings.Trim(strings.TrimSpace(list), "(){}")

	var names []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "type ")
		if part == "" || part == "*" {
			continue
		}

		name, alias := part, ""
		if i := strings.Index(part, " as "); i >= 0 {
			name, alias = part[:i], part[i+len(" as "):]
		} else if i := strings.Index(part, ":"); i >= 0 {
			name, alias = part[:i], part[i+1:]
		}
		if i := strings.Index(name, "="); i >= 0 {
			name = name[:i]
		}

		chosen := strings.TrimSpace(name)
		if takeAlias && strings.TrimSpace(alias) != "" {
			chosen = strings.TrimSpace(alias)
		}
		chosen = strings.Trim(chosen, `"'`)

		if identifierPattern.MatchString(chosen) {
			names = append(names, chosen)
		}
	}

	return names
}
