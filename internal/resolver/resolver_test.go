package resolver

import (
	"testing"

	"github.com/ludo-technologies/jstrace/domain"
	"github.com/ludo-technologies/jstrace/internal/testutil"
)

func newTestResolver(t *testing.T, files map[string]string) *Resolver {
	t.Helper()
	root := testutil.CreateTestProject(t, files)
	res, err := New(root, nil)
	if err != nil {
		t.Fatalf("Failed to create resolver: %v", err)
	}
	return res
}

func TestResolveRelativeSpecifier(t *testing.T) {
	res := newTestResolver(t, map[string]string{
		"src/a.js": "export const x = 1;",
		"src/b.js": "import { x } from './a';",
	})

	got, err := res.Resolve("src/b.js", "./a")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "src/a.js" {
		t.Errorf("Expected src/a.js, got %q", got)
	}
}

func TestResolveParentDirectory(t *testing.T) {
	res := newTestResolver(t, map[string]string{
		"shared.ts":    "export const s = 1;",
		"src/deep.js":  "import { s } from '../shared';",
	})

	got, err := res.Resolve("src/deep.js", "../shared")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "shared.ts" {
		t.Errorf("Expected shared.ts, got %q", got)
	}
}

func TestResolveRootRelativeSpecifier(t *testing.T) {
	res := newTestResolver(t, map[string]string{
		"lib/util.js": "export const u = 1;",
		"src/a.js":    "import { u } from 'lib/util';",
	})

	got, err := res.Resolve("src/a.js", "lib/util")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "lib/util.js" {
		t.Errorf("Expected lib/util.js, got %q", got)
	}
}

func TestResolveExtensionProbing(t *testing.T) {
	res := newTestResolver(t, map[string]string{
		"a.tsx":  "export const x = 1;",
		"b.d.ts": "export declare const y: number;",
		"c.js":   "",
	})

	cases := []struct {
		specifier string
		want      string
	}{
		{"./a", "a.tsx"},
		{"./b", "b.d.ts"},
		{"./c", "c.js"},
		{"./c.js", "c.js"},
	}
	for _, tc := range cases {
		t.Run(tc.specifier, func(t *testing.T) {
			got, err := res.Resolve("entry.js", tc.specifier)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tc.specifier, err)
			}
			if got != tc.want {
				t.Errorf("Resolve(%q) = %q, want %q", tc.specifier, got, tc.want)
			}
		})
	}
}

func TestResolveDirectoryIndex(t *testing.T) {
	res := newTestResolver(t, map[string]string{
		"components/index.ts": "export const c = 1;",
		"app.js":              "import { c } from './components';",
	})

	got, err := res.Resolve("app.js", "./components")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != "components/index.ts" {
		t.Errorf("Expected components/index.ts, got %q", got)
	}
}

func TestResolveBareSpecifierFails(t *testing.T) {
	res := newTestResolver(t, map[string]string{
		"a.js": "import React from 'react';",
	})

	_, err := res.Resolve("a.js", "react")
	if err == nil {
		t.Fatal("Expected bare specifier to fail")
	}
	if domain.CodeOf(err) != domain.ErrResolve {
		t.Errorf("Expected resolve_error, got %v", domain.CodeOf(err))
	}
}

func TestResolveMissingFileFails(t *testing.T) {
	res := newTestResolver(t, map[string]string{
		"a.js": "import X from './missing';",
	})

	_, err := res.Resolve("a.js", "./missing")
	if err == nil {
		t.Fatal("Expected missing file to fail")
	}
	if domain.CodeOf(err) != domain.ErrResolve {
		t.Errorf("Expected resolve_error, got %v", domain.CodeOf(err))
	}
}

func TestResolveRejectsRootEscape(t *testing.T) {
	res := newTestResolver(t, map[string]string{
		"a.js": "",
	})

	_, err := res.Resolve("a.js", "../../etc/passwd")
	if err == nil {
		t.Fatal("Expected escape to fail")
	}
}

func TestResolveRoundTrip(t *testing.T) {
	// Every specifier spelling pointing at the same file yields the
	// same canonical path, from any importing module
	res := newTestResolver(t, map[string]string{
		"src/lib/a.js":  "export const x = 1;",
		"src/b.js":      "",
		"src/lib/c.js":  "",
		"entry.js":      "",
	})

	want := "src/lib/a.js"
	cases := []struct {
		current   string
		specifier string
	}{
		{"src/b.js", "./lib/a"},
		{"src/b.js", "./lib/a.js"},
		{"src/lib/c.js", "./a"},
		{"src/lib/c.js", "../lib/a"},
		{"entry.js", "./src/lib/a"},
		{"entry.js", "src/lib/a"},
	}
	for _, tc := range cases {
		got, err := res.Resolve(tc.current, tc.specifier)
		if err != nil {
			t.Fatalf("Resolve(%q from %q) failed: %v", tc.specifier, tc.current, err)
		}
		if got != want {
			t.Errorf("Resolve(%q from %q) = %q, want %q", tc.specifier, tc.current, got, want)
		}
	}
}
