package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/parenfmt/pkg/dialect"
)

func TestFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected dialect.Dialect
		ok       bool
	}{
		{"src/main.scm", dialect.Scheme, true},
		{"lib/LIST.SLD", dialect.Scheme, true},
		{"app.rkt", dialect.Racket, true},
		{"system.asd", dialect.CommonLisp, true},
		{"init.el", dialect.EmacsLisp, true},
		{"core.cljc", dialect.Clojure, true},
		{"deps.edn", dialect.Clojure, true},
		{"main.fnl", dialect.Fennel, true},
		{"project.janet", dialect.Janet, true},
		{"README.md", dialect.Unknown, false},
		{"noext", dialect.Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, ok := dialect.FromPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFromDirective(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		line     string
		expected dialect.Dialect
		ok       bool
	}{
		{"lang pragma", "#lang racket/base", dialect.Racket, true},
		{"racket shebang", "#!/usr/bin/env racket", dialect.Racket, true},
		{"guile shebang", "#!/usr/bin/guile", dialect.Scheme, true},
		{"shell shebang", "#!/bin/sh", dialect.Unknown, false},
		{"not a directive", "(define x 1)", dialect.Unknown, false},
		{"empty", "", dialect.Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := dialect.FromDirective(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFromAlias(t *testing.T) {
	t.Parallel()

	tests := []struct {
		info     string
		expected dialect.Dialect
		ok       bool
	}{
		{"scheme", dialect.Scheme, true},
		{"Clojure title=core.clj", dialect.Clojure, true},
		{"{.racket}", dialect.Racket, true},
		{"elisp", dialect.EmacsLisp, true},
		{"common-lisp", dialect.CommonLisp, true},
		{"python", dialect.Unknown, false},
		{"", dialect.Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.info, func(t *testing.T) {
			t.Parallel()

			got, ok := dialect.FromAlias(tt.info)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, dialect.IsSupported("Scheme"))
	assert.True(t, dialect.IsSupported("common lisp"))
	assert.True(t, dialect.IsSupported("ELISP"))
	assert.False(t, dialect.IsSupported("python"))
	assert.False(t, dialect.IsSupported(""))
	assert.Len(t, dialect.Supported(), 7)
}

func TestDetect(t *testing.T) {
	t.Parallel()

	got, ok := dialect.Detect("notes.txt", []byte("#lang racket\n(displayln 1)\n"))
	assert.True(t, ok)
	assert.Equal(t, dialect.Racket, got)

	got, ok = dialect.Detect("lib.scm", []byte("(define x 1)\n"))
	assert.True(t, ok)
	assert.Equal(t, dialect.Scheme, got)

	got, ok = dialect.Detect("", []byte("(ns app.core)\n(defn f [x] x)\n"))
	assert.True(t, ok)
	assert.Equal(t, dialect.Clojure, got)
}

func TestGuess_Empty(t *testing.T) {
	t.Parallel()

	_, ok := dialect.Guess([]byte("  \n"))
	assert.False(t, ok)
}
