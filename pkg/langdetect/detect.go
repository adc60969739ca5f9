// Package langdetect guesses the language of a code block that has no info
// string. It uses go-enry for shebangs and classification, plus a few cheap
// content probes that beat the classifier on short snippets.
//
// Results are grammar names understood by the tokenize registry ("js",
// "bash", "cpp", ...). An empty result means "unknown, do not highlight".
package langdetect

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Method records how a language was found.
type Method int

// Detection methods.
const (
	MethodNone Method = iota
	MethodShebang
	MethodProbe
	MethodClassifier
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodShebang:
		return "shebang"
	case MethodProbe:
		return "probe"
	case MethodClassifier:
		return "classifier"
	default:
		return "none"
	}
}

// Result is the outcome of a detection.
type Result struct {
	Language string
	Method   Method
}

// DefaultCandidates are the go-enry language names the classifier chooses between.
//
//nolint:gochecknoglobals // Read-only list.
var DefaultCandidates = []string{
	"JavaScript", "CSS", "HTML", "Go", "Python", "Shell", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON", "YAML",
}

// enryToGrammar maps go-enry names whose lowercase form is not a grammar name.
//
//nolint:gochecknoglobals // Read-only table.
var enryToGrammar = map[string]string{
	"JavaScript": "js",
	"TypeScript": "ts",
	"Shell":      "bash",
	"C++":        "cpp",
	"C#":         "csharp",
	"Dockerfile": "docker",
}

type probe struct {
	language string
	match    func(src []byte) bool
}

//nolint:gochecknoglobals // Compiled once.
var (
	cssRule     = regexp.MustCompile(`(?m)^\s*[.#]?[a-zA-Z][\w-]*(\s*[,>+~]\s*[.#]?[\w-]+)*\s*\{`)
	cssProperty = regexp.MustCompile(`(?m)^\s*[a-z-]+\s*:\s*[^;{}]+;\s*$`)
	yamlKey     = regexp.MustCompile(`(?m)^\s*(- )?[\w.-]+:( |$)`)
)

// probes run in order; the first match wins.
//
//nolint:gochecknoglobals // Read-only table.
var probes = []probe{
	{"go", func(src []byte) bool {
		return bytes.HasPrefix(bytes.TrimSpace(src), []byte("package "))
	}},
	{"html", func(src []byte) bool {
		lower := bytes.ToLower(src)
		for _, tag := range []string{"<!doctype html", "<html", "<head>", "<body>", "<div", "</"} {
			if bytes.Contains(lower, []byte(tag)) {
				return true
			}
		}
		return false
	}},
	{"python", func(src []byte) bool {
		s := string(src)
		return (strings.Contains(s, "def ") && strings.Contains(s, "):")) ||
			strings.Contains(s, "__name__") ||
			(strings.HasPrefix(strings.TrimSpace(s), "import ") && !strings.Contains(s, "import (") && !strings.Contains(s, ";"))
	}},
	{"json", func(src []byte) bool {
		trimmed := bytes.TrimSpace(src)
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`":`))
	}},
	{"css", func(src []byte) bool {
		return cssRule.Match(src) && cssProperty.Match(src)
	}},
	{"sql", func(src []byte) bool {
		upper := strings.ToUpper(strings.TrimSpace(string(src)))
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, verb) {
				return true
			}
		}
		return false
	}},
	{"rust", func(src []byte) bool {
		s := string(src)
		return strings.Contains(s, "fn main()") || strings.Contains(s, "println!") || strings.Contains(s, "let mut ")
	}},
	{"js", func(src []byte) bool {
		s := string(src)
		for _, marker := range []string{"=>", "const ", "let ", "var ", "function ", "console.log"} {
			if strings.Contains(s, marker) {
				return true
			}
		}
		return false
	}},
	{"yaml", func(src []byte) bool {
		return len(yamlKey.FindAll(src, 2)) >= 2
	}},
}

// Detector guesses languages. The zero value is not usable; call New.
type Detector struct {
	candidates []string
}

// New creates a detector whose classifier picks among the given go-enry
// language names, or DefaultCandidates when none are given.
func New(candidates ...string) *Detector {
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	return &Detector{candidates: append([]string(nil), candidates...)}
}

// Detect returns the language of content and how it was found.
// Language is empty when nothing is confident enough.
func (d *Detector) Detect(content []byte) Result {
	if len(bytes.TrimSpace(content)) == 0 {
		return Result{}
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return Result{Language: GrammarName(lang), Method: MethodShebang}
	}

	for _, p := range probes {
		if p.match(content) {
			return Result{Language: p.language, Method: MethodProbe}
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, d.candidates); safe && lang != "" {
		return Result{Language: GrammarName(lang), Method: MethodClassifier}
	}

	return Result{}
}

//nolint:gochecknoglobals // Stateless default.
var defaultDetector = New()

// Detect is Detect on a detector with DefaultCandidates.
func Detect(content []byte) string {
	return defaultDetector.Detect(content).Language
}

// GrammarName converts a go-enry language name to a grammar name.
func GrammarName(enryName string) string {
	if name, ok := enryToGrammar[enryName]; ok {
		return name
	}
	return strings.ToLower(enryName)
}
