package dialect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Detect names the dialect of a file. The leading header line is the
// strongest signal, then the file name, then the content itself.
func Detect(path string, content []byte) (Dialect, bool) {
	if d, ok := FromDirective(firstLine(content)); ok {
		return d, true
	}
	if path != "" {
		if d, ok := FromPath(path); ok {
			return d, true
		}
	}
	return Guess(content)
}

// Guess classifies an unnamed snippet, such as stdin input. It tries
// telltale forms first and falls back to the enry classifier restricted
// to supported dialects.
func Guess(content []byte) (Dialect, bool) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return Unknown, false
	}

	if d, ok := FromDirective(firstLine(trimmed)); ok {
		return d, true
	}
	if d := detectByPattern(string(trimmed)); d != Unknown {
		return d, true
	}
	if lang, safe := enry.GetLanguageByClassifier(trimmed, supportedNames()); safe {
		return supported(lang)
	}
	return Unknown, false
}

func firstLine(content []byte) string {
	line, _, _ := bytes.Cut(content, []byte("\n"))
	return string(line)
}

// detectByPattern checks forms that only one dialect uses.
func detectByPattern(src string) Dialect {
	switch {
	case strings.Contains(src, "(ns ") || strings.Contains(src, "(defn "):
		return Clojure
	case strings.Contains(src, "(interactive") || strings.Contains(src, "(defcustom "):
		return EmacsLisp
	case strings.Contains(src, "(in-package ") || strings.Contains(src, "(defpackage "):
		return CommonLisp
	case strings.Contains(src, "(local ") && strings.Contains(src, "(fn "):
		return Fennel
	case strings.Contains(src, "(import ") && strings.Contains(src, "(defn- "):
		return Janet
	case strings.Contains(src, "(define-library ") || strings.Contains(src, "(define-record-type "):
		return Scheme
	}
	return Unknown
}
