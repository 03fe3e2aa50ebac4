package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannajonsd/structural-analysis/model"
)

func names(exports []model.ExportRecord) []string {
	out := make([]string, 0, len(exports))
	for _, exp := range exports {
		out = append(out, exp.Name)
	}
	return out
}

func bySource(refs []model.DependencyReference) map[string]model.DependencyReference {
	m := make(map[string]model.DependencyReference, len(refs))
	for _, ref := range refs {
		m[ref.Source] = ref
	}
	return m
}

func TestLoadPatterns(t *testing.T) {
	for _, lang := range []string{"javascript", "typescript", "python"} {
		ps, err := LoadPatterns(lang)
		require.NoError(t, err, lang)
		assert.Equal(t, lang, ps.Name)
		assert.NotEmpty(t, ps.Exports)
		assert.NotEmpty(t, ps.Imports)
	}

	_, err := LoadPatterns("cobol")
	assert.Error(t, err)
}

func TestParsePatternsValidation(t *testing.T) {
	tests := map[string]string{
		"no name":        "exports: []\n",
		"unknown kind":   "name: x\nexports:\n  - kind: macro\n    pattern: 'a(b)'\n    group: 1\n",
		"bad regex":      "name: x\nexports:\n  - kind: function\n    pattern: 'a(b'\n    group: 1\n",
		"group range":    "name: x\nexports:\n  - kind: function\n    pattern: 'a(b)'\n    group: 2\n",
		"unknown mode":   "name: x\nexports:\n  - kind: function\n    pattern: 'a(b)'\n    group: 1\n    mode: fuzzy\n",
		"unknown take":   "name: x\nexports:\n  - kind: function\n    pattern: 'a(b)'\n    group: 1\n    take: both\n",
		"source missing": "name: x\nimports:\n  - pattern: 'import (a)'\n",
		"invalid yaml":   "name: [x\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePatterns([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParsePatternsCustomLanguage(t *testing.T) {
	doc := `name: lua
exports:
  - kind: function
    pattern: '^function\s+M\.(\w+)'
    group: 1
imports:
  - pattern: '^local\s+(\w+)\s*=\s*require\s*\(?\s*"([^"]+)"'
    source: 2
    names: 1
`
	ps, err := ParsePatterns([]byte(doc))
	require.NoError(t, err)

	decls := ps.Scan("local util = require \"./util\"\nfunction M.run()\nend\n")
	assert.Equal(t, []string{"run"}, names(decls.Exports))
	require.Len(t, decls.References, 1)
	assert.Equal(t, "./util", decls.References[0].Source)
	assert.Equal(t, []string{"util"}, decls.References[0].Names)
	assert.True(t, decls.References[0].Relative)
}

func TestScanJavaScript(t *testing.T) {
	src := `import React, { useState } from 'react';
import * as api from './api';
import { a, b as c } from "./lib";
import './polyfill';
/* export function commented() {}
   export const alsoCommented = 1; */
// export class Hidden {}
export async function load() {}
export class Store {
export const LIMIT = 10;
export { a as alpha, b };
export default Store;
const { get, set: put } = require('./cache');
exports.helper = () => {};
module.exports = { one, two: 2 };
`
	ps := MustLoadPatterns("javascript")
	decls := ps.Scan(src)

	assert.Equal(t, []string{"load", "Store", "LIMIT", "alpha", "b", "default", "helper", "one", "two"}, names(decls.Exports))

	exports := map[string]model.ExportRecord{}
	for _, exp := range decls.Exports {
		exports[exp.Name] = exp
	}
	assert.Equal(t, model.ExportRecord{Name: "load", Line: 8, Kind: model.ExportFunction}, exports["load"])
	assert.Equal(t, model.ExportReexport, exports["alpha"].Kind)
	assert.Equal(t, model.ExportDefault, exports["default"].Kind)

	refs := bySource(decls.References)
	require.Len(t, decls.References, 5)
	assert.ElementsMatch(t, []string{"React", "useState"}, refs["react"].Names)
	assert.Equal(t, []string{"api"}, refs["./api"].Names)
	assert.Equal(t, []string{"a", "b"}, refs["./lib"].Names)
	assert.Empty(t, refs["./polyfill"].Names)
	assert.Equal(t, []string{"get", "set"}, refs["./cache"].Names)
	assert.Equal(t, 13, refs["./cache"].Line)
}

func TestScanTypeScript(t *testing.T) {
	src := `import type { Props } from './types';
export interface Config {}
export type Id = string;
export declare const VERSION: string;
export abstract class Base {}
export type { Props as P } from './types';
`
	decls := MustLoadPatterns("typescript").Scan(src)

	kinds := map[string]model.ExportKind{}
	for _, exp := range decls.Exports {
		kinds[exp.Name] = exp.Kind
	}
	assert.Equal(t, model.ExportType, kinds["Config"])
	assert.Equal(t, model.ExportType, kinds["Id"])
	assert.Equal(t, model.ExportVariable, kinds["VERSION"])
	assert.Equal(t, model.ExportClass, kinds["Base"])
	assert.Equal(t, model.ExportReexport, kinds["P"])

	refs := decls.References
	require.Len(t, refs, 2)
	assert.Equal(t, []string{"Props"}, refs[0].Names)
	assert.Equal(t, 1, refs[0].Line)
	assert.Equal(t, []string{"Props"}, refs[1].Names)
	assert.Equal(t, 6, refs[1].Line)
}

func TestScanPython(t *testing.T) {
	src := `import os
import numpy as np
from .models import User, Group as G  # trailing comment
from .. import settings

def public(:
    pass

def _private():
    pass

class Service:
    def method(self):
        pass
`
	decls := MustLoadPatterns("python").Scan(src)

	assert.Equal(t, []string{"public", "Service"}, names(decls.Exports))

	refs := bySource(decls.References)
	require.Len(t, decls.References, 4)
	assert.Equal(t, []string{"os"}, refs["os"].Names)
	assert.Equal(t, []string{"np"}, refs["numpy"].Names)
	assert.Equal(t, []string{"User", "Group"}, refs[".models"].Names)
	assert.True(t, refs[".models"].Relative)
	assert.Equal(t, []string{"settings"}, refs[".."].Names)
}

func TestScanPythonPublicList(t *testing.T) {
	src := `__all__ = ["api", 'Client']

def api():
    pass

def internal():
    pass
`
	decls := MustLoadPatterns("python").Scan(src)
	require.Len(t, decls.Exports, 2)
	assert.Equal(t, model.ExportRecord{Name: "api", Line: 1, Kind: model.ExportPublic}, decls.Exports[0])
	assert.Equal(t, "Client", decls.Exports[1].Name)
}

func TestRemoveCCommentsKeepsLines(t *testing.T) {
	src := "a\n/* one\ntwo\nthree */b\nconst url = 'http://x' // note\n"
	out := removeCComments(src)

	assert.Equal(t, 5, len(splitLines(out)))
	assert.Contains(t, out, "const url = 'http://x'")
	assert.NotContains(t, out, "note")
	assert.NotContains(t, out, "two")
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return lines
}

func TestSplitNameList(t *testing.T) {
	tests := []struct {
		list      string
		takeAlias bool
		want      []string
	}{
		{" a, b as c, type D ", false, []string{"a", "b", "D"}},
		{" a, b as c ", true, []string{"a", "c"}},
		{"{ get, set: put, x = 1 }", false, []string{"get", "set", "x"}},
		{"(User, Group as G)  # comment", false, []string{"User", "Group"}},
		{"*", false, nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, splitNameList(tt.list, tt.takeAlias), tt.list)
	}
}
