// Package filter holds the content checks applied to user submitted sketches and comments.
package filter

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Marker replaces every character of a filtered word by default.
const Marker = '㏏'

// DefaultWords are the patterns rejected in titles, descriptions, source code and comments.
// Entries are regular expressions.
var DefaultWords = []string{
	"2g1c", "adult", "alprazolam", "amoxil", "anal", "arsehole", "asshole", "bastard",
	"bitch", "blowjob", "bollocks", "bukkake", "casino", "cialis", "clit", "cock",
	"cunt", "dick", "dildo", "ejaculat\\w*", "escort", "fag", "fuck\\w*", "handjob",
	"hentai", "jackoff", "levitra", "lolita", "masturbat\\w*", "milf", "motherfucker", "nigger",
	"orgasm", "pedophil\\w*", "penis", "phentermine", "poker", "porn\\w*", "prozac", "pussy",
	"rape", "replica\\s+watch\\w*", "shit", "slut", "tramadol", "twat", "valium", "viagra",
	"vibrator", "vivienne\\s+westwood", "wank", "webcam", "whore", "xanax", "xxx",
	"[a-zA-Z0-9]*\\.ru",
	"диеты",
	"массаж",
}

type ProfanityFilter struct {
	pattern      *regexp.Regexp
	ignoreCase   bool
	replacements []rune
	complete     bool

	mu  sync.Mutex
	rnd *rand.Rand
}

type Option func(*ProfanityFilter)

// WithReplacements sets the characters a filtered word is rewritten with.
func WithReplacements(chars string) Option {
	return func(f *ProfanityFilter) {
		if chars != "" {
			f.replacements = []rune(chars)
		}
	}
}

// WithPartial keeps the first and last character of every filtered word.
func WithPartial() Option {
	return func(f *ProfanityFilter) { f.complete = false }
}

func WithCaseSensitive() Option {
	return func(f *ProfanityFilter) { f.ignoreCase = false }
}

// NewProfanityFilter matches words only when they are not part of a longer word. A trailing "s"
// is still matched so that plurals are caught.
func NewProfanityFilter(words []string, opts ...Option) *ProfanityFilter {

	f := &ProfanityFilter{
		ignoreCase:   true,
		replacements: []rune{Marker},
		complete:     true,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(f)
	}

	f.pattern = compile(words, f.ignoreCase)
	return f
}

func compile(words []string, ignoreCase bool) *regexp.Regexp {

	flags := ""
	if ignoreCase {
		flags = "(?i)"
	}

	return regexp.MustCompile(flags + `(?:` + strings.Join(words, "|") + `)`)
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// matches returns the byte spans of the forbidden words of text. A word must not be preceded by a
// letter or digit, and must be followed by a non alphanumeric character, an "s" or the end of text.
// Boundaries are checked around the match so that adjacent words are all found.
func (f *ProfanityFilter) matches(text string, limit int) [][2]int {

	var spans [][2]int
	for pos := 0; pos <= len(text); {

		loc := f.pattern.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}

		start, end := pos+loc[0], pos+loc[1]

		before := start == 0 || !isWordByte(text[start-1])
		after := end == len(text) || !isWordByte(text[end]) || text[end] == 's' || text[end] == 'S'

		if before && after && end > start {

			spans = append(spans, [2]int{start, end})
			if limit > 0 && len(spans) == limit {
				break
			}

			pos = end
			continue
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		pos = start + max(size, 1)
	}

	return spans
}

// Clean rewrites every forbidden word, leaving the characters around it untouched.
func (f *ProfanityFilter) Clean(text string) string {

	spans := f.matches(text, 0)
	if len(spans) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, span := range spans {
		b.WriteString(text[last:span[0]])
		b.WriteString(f.mask(text[span[0]:span[1]]))
		last = span[1]
	}
	b.WriteString(text[last:])

	return b.String()
}

func (f *ProfanityFilter) mask(word string) string {

	runes := []rune(word)

	f.mu.Lock()
	defer f.mu.Unlock()

	var b strings.Builder
	for i, r := range runes {

		if !f.complete && (i == 0 || i == len(runes)-1) {
			b.WriteRune(r)
			continue
		}

		b.WriteRune(f.replacements[f.rnd.Intn(len(f.replacements))])
	}

	return b.String()
}

// Contains reports whether text has any forbidden word.
func (f *ProfanityFilter) Contains(text string) bool {
	return len(f.matches(text, 1)) > 0
}

var (
	defaultFilterOnce sync.Once
	defaultFilter     *ProfanityFilter
)

func Default() *ProfanityFilter {

	defaultFilterOnce.Do(func() {
		defaultFilter = NewProfanityFilter(DefaultWords)
	})

	return defaultFilter
}

// ContainsProfanity checks text against DefaultWords, ignoring case.
func ContainsProfanity(text string) bool {
	return Default().Contains(text)
}
