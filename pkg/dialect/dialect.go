// Package dialect decides which Lisp dialect a file or snippet is written
// in. Names follow the go-enry (linguist) language names so they line up
// with what other tooling reports.
package dialect

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Dialect is a linguist language name.
type Dialect string

const (
	Scheme     Dialect = "Scheme"
	Racket     Dialect = "Racket"
	CommonLisp Dialect = "Common Lisp"
	EmacsLisp  Dialect = "Emacs Lisp"
	Clojure    Dialect = "Clojure"
	Fennel     Dialect = "Fennel"
	Janet      Dialect = "Janet"
)

// Unknown is returned alongside false when no dialect matched.
const Unknown Dialect = ""

func (d Dialect) String() string { return string(d) }

// Supported lists every dialect the formatter accepts, in a stable order.
func Supported() []Dialect {
	return []Dialect{Scheme, Racket, CommonLisp, EmacsLisp, Clojure, Fennel, Janet}
}

// supportedNames is the candidate set handed to the enry classifier.
func supportedNames() []string {
	names := make([]string, 0, len(Supported()))
	for _, d := range Supported() {
		names = append(names, string(d))
	}
	return names
}

//nolint:gochecknoglobals // read-only lookup table
var extensions = map[string]Dialect{
	".scm":   Scheme,
	".ss":    Scheme,
	".sld":   Scheme,
	".sls":   Scheme,
	".rkt":   Racket,
	".rktl":  Racket,
	".lisp":  CommonLisp,
	".lsp":   CommonLisp,
	".cl":    CommonLisp,
	".asd":   CommonLisp,
	".el":    EmacsLisp,
	".clj":   Clojure,
	".cljs":  Clojure,
	".cljc":  Clojure,
	".edn":   Clojure,
	".fnl":   Fennel,
	".janet": Janet,
}

//nolint:gochecknoglobals // read-only lookup table
var aliases = map[string]Dialect{
	"scheme":      Scheme,
	"scm":         Scheme,
	"guile":       Scheme,
	"chicken":     Scheme,
	"racket":      Racket,
	"rkt":         Racket,
	"lisp":        CommonLisp,
	"common-lisp": CommonLisp,
	"commonlisp":  CommonLisp,
	"cl":          CommonLisp,
	"elisp":       EmacsLisp,
	"emacs-lisp":  EmacsLisp,
	"clojure":     Clojure,
	"clj":         Clojure,
	"cljs":        Clojure,
	"edn":         Clojure,
	"fennel":      Fennel,
	"fnl":         Fennel,
	"janet":       Janet,
}

// Lookup resolves a dialect name or alias, case-insensitively.
func Lookup(name string) (Dialect, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Unknown, false
	}
	if d, ok := aliases[key]; ok {
		return d, true
	}
	for _, d := range Supported() {
		if strings.EqualFold(string(d), key) {
			return d, true
		}
	}
	return Unknown, false
}

// IsSupported reports whether name resolves to a supported dialect.
func IsSupported(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// supported narrows an enry result to the dialects we format.
func supported(lang string) (Dialect, bool) {
	d := Dialect(lang)
	if slices.Contains(Supported(), d) {
		return d, true
	}
	return Unknown, false
}

// FromPath picks a dialect from the file name. The built-in extension
// table wins; enry's linguist data covers the rest.
func FromPath(path string) (Dialect, bool) {
	if d, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return d, true
	}
	if lang, safe := enry.GetLanguageByExtension(path); safe {
		return supported(lang)
	}
	if lang, safe := enry.GetLanguageByFilename(filepath.Base(path)); safe {
		return supported(lang)
	}
	return Unknown, false
}

// FromDirective recognizes a header line: "#lang ..." means Racket, and
// "#!" lines are resolved through enry's interpreter table.
func FromDirective(line string) (Dialect, bool) {
	line = strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(line, "#lang ") || strings.HasPrefix(line, "#reader"):
		return Racket, true
	case strings.HasPrefix(line, "#!"):
		lang, safe := enry.GetLanguageByShebang([]byte(line + "\n"))
		if !safe {
			return Unknown, false
		}
		return supported(lang)
	default:
		return Unknown, false
	}
}

// FromAlias resolves a Markdown fence info string such as "scheme" or
// "clojure title=core.clj". Only the first word counts.
func FromAlias(info string) (Dialect, bool) {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return Unknown, false
	}
	word := strings.Trim(fields[0], "{}.")
	if d, ok := Lookup(word); ok {
		return d, true
	}
	if lang, ok := enry.GetLanguageByAlias(word); ok {
		return supported(lang)
	}
	return Unknown, false
}
