// Package translit generates alternate spellings of names across the
// Cyrillic and Latin scripts used side by side in Uzbek legal documents.
// Generation never filters or scores; ranking is the matcher's job.
package translit

import (
	"strings"
	"unicode"
)

// cyrToLat is the direct per-character romanization table, including the
// four Uzbek-specific Cyrillic letters (ў ғ қ ҳ). Multi-character outputs
// cover the digraph letters (ш ч щ ё ю я ц).
var cyrToLat = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "j", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "x", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "'", 'ы': "i", 'ь': "'",
	'э': "e", 'ю': "yu", 'я': "ya",
	'ў': "o'", 'ғ': "g'", 'қ': "q", 'ҳ': "h",
}

// cyrAmbiguous lists Cyrillic letters with more than one accepted
// romanization. The first alternative matches cyrToLat. Every combination
// of choices becomes an additional variant.
var cyrAmbiguous = map[rune][]string{
	'ж': {"j", "zh"},
	'х': {"x", "kh"},
}

// latDigraphs maps multi-character Latin sequences back to Cyrillic.
// Matched longest-first and case-insensitively before single letters, so
// "sh" never decomposes into с+х. The apostrophe letters accept the
// typographic variants seen in the wild (' ʻ `).
var latDigraphs = []struct {
	seq string
	out rune
}{
	{"shch", 'щ'},
	{"sh", 'ш'},
	{"ch", 'ч'},
	{"zh", 'ж'},
	{"kh", 'х'},
	{"ts", 'ц'},
	{"yo", 'ё'},
	{"yu", 'ю'},
	{"ya", 'я'},
	{"o'", 'ў'}, {"oʻ", 'ў'}, {"o`", 'ў'},
	{"g'", 'ғ'}, {"gʻ", 'ғ'}, {"g`", 'ғ'},
}

var latToCyr = map[rune]rune{
	'a': 'а', 'b': 'б', 'c': 'ц', 'd': 'д', 'e': 'е',
	'f': 'ф', 'g': 'г', 'h': 'ҳ', 'i': 'и', 'j': 'ж',
	'k': 'к', 'l': 'л', 'm': 'м', 'n': 'н', 'o': 'о',
	'p': 'п', 'q': 'қ', 'r': 'р', 's': 'с', 't': 'т',
	'u': 'у', 'v': 'в', 'w': 'в', 'x': 'х', 'y': 'й',
	'z': 'з', '\'': 'ь', 'ʻ': 'ь', '`': 'ь',
}

// legalForms groups equivalent legal-entity abbreviations across scripts.
// Any member found as a token is substituted by every other member of its
// group.
// Romanized spellings (OOO, AO, ...) are listed alongside the native
// abbreviations because transliterated variants re-enter the substitution
// pass.
var legalForms = [][]string{
	{"ООО", "МЧЖ", "MChJ", "LLC", "OOO"},
	{"АО", "АЖ", "AJ", "JSC", "AO"},
	{"ЗАО", "CJSC", "ZAO"},
	{"ИП", "ЯТТ", "YaTT", "IP"},
	{"ЧП", "ХК", "XK", "ChP"},
}

// IsCyrillic reports whether the rune belongs to the Cyrillic script.
func IsCyrillic(r rune) bool {
	return unicode.Is(unicode.Cyrillic, r)
}

// IsLatin reports whether the rune belongs to the Latin script.
func IsLatin(r rune) bool {
	return unicode.Is(unicode.Latin, r)
}

// HasCyrillic reports whether the string contains any Cyrillic letter.
func HasCyrillic(s string) bool {
	for _, r := range s {
		if IsCyrillic(r) {
			return true
		}
	}
	return false
}

// HasLatin reports whether the string contains any Latin letter.
func HasLatin(s string) bool {
	for _, r := range s {
		if IsLatin(r) {
			return true
		}
	}
	return false
}

// CyrillicToLatin transliterates every Cyrillic letter to its primary
// romanization, preserving case and leaving other runes untouched.
func CyrillicToLatin(s string) string {
	var b strings.Builder
	for _, r := range s {
		lower := unicode.ToLower(r)
		mapped, ok := cyrToLat[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		b.WriteString(matchCase(mapped, r))
	}
	return b.String()
}

// LatinToCyrillic transliterates Latin text to Cyrillic, applying digraph
// replacements longest-match-first and case-insensitively before single
// letters.
func LatinToCyrillic(s string) string {
	runes := []rune(s)
	lower := []rune(strings.ToLower(s))

	var b strings.Builder
	i := 0
	for i < len(runes) {
		matched := false
		for _, d := range latDigraphs {
			seq := []rune(d.seq)
			if i+len(seq) > len(lower) {
				continue
			}
			if string(lower[i:i+len(seq)]) != d.seq {
				continue
			}
			out := d.out
			if unicode.IsUpper(runes[i]) {
				out = unicode.ToUpper(out)
			}
			b.WriteRune(out)
			i += len(seq)
			matched = true
			break
		}
		if matched {
			continue
		}

		r := runes[i]
		if mapped, ok := latToCyr[unicode.ToLower(r)]; ok {
			if unicode.IsUpper(r) {
				mapped = unicode.ToUpper(mapped)
			}
			b.WriteRune(mapped)
		} else {
			b.WriteRune(r)
		}
		i++
	}
	return b.String()
}

// Variants expands a name into the set of plausible alternate spellings
// across both scripts. The input itself is always a member. The result is a
// deduplicated set returned in generation order.
func Variants(text string) []string {
	set := newVariantSet()
	set.add(text)

	hasCyr := HasCyrillic(text)
	hasLat := HasLatin(text)

	switch {
	case hasCyr && !hasLat:
		for _, v := range cyrillicRomanizations(text) {
			set.add(v)
		}
	case hasLat && !hasCyr:
		set.add(LatinToCyrillic(text))
		for _, alt := range latinAlternations(text) {
			set.add(alt)
			set.add(LatinToCyrillic(alt))
		}
	case hasCyr && hasLat:
		// Transliterate one script at a time; runs are converted in
		// isolation so digraph replacement never crosses a Cyrillic run
		// boundary.
		set.add(mapRuns(text, IsCyrillic, CyrillicToLatin))
		set.add(mapRuns(text, IsLatin, LatinToCyrillic))
	}

	// Legal-form substitutions apply to every variant gathered so far.
	for _, v := range set.items() {
		for _, sub := range legalFormSubstitutions(v) {
			set.add(sub)
		}
	}

	return set.items()
}

// cyrillicRomanizations produces the direct romanization plus one variant
// per combination of ambiguous-letter alternatives.
func cyrillicRomanizations(s string) []string {
	outs := []string{""}
	for _, r := range s {
		lower := unicode.ToLower(r)

		var opts []string
		if alts, ok := cyrAmbiguous[lower]; ok {
			for _, a := range alts {
				opts = append(opts, matchCase(a, r))
			}
		} else if mapped, ok := cyrToLat[lower]; ok {
			opts = []string{matchCase(mapped, r)}
		} else {
			opts = []string{string(r)}
		}

		next := make([]string, 0, len(outs)*len(opts))
		for _, prefix := range outs {
			for _, o := range opts {
				next = append(next, prefix+o)
			}
		}
		outs = next
	}
	return outs
}

// latinAlternations generates common respellings of Latin Uzbek text:
// kh/x/h swaps and apostrophe normalization. Each result is itself a
// variant and is additionally mapped back to Cyrillic by the caller.
func latinAlternations(s string) []string {
	var alts []string

	if a := replaceFold(s, "kh", "x"); a != s {
		alts = append(alts, a)
	}
	if a := replaceRune(s, 'x', "kh"); a != s {
		alts = append(alts, a)
	}
	if a := replaceRune(s, 'x', "h"); a != s {
		alts = append(alts, a)
	}

	apostrophes := strings.NewReplacer("ʻ", "'", "`", "'")
	if a := apostrophes.Replace(s); a != s {
		alts = append(alts, a)
	}

	return alts
}

// mapRuns applies transform to the maximal runs of s whose letters satisfy
// member, leaving everything else in place.
func mapRuns(s string, member func(rune) bool, transform func(string) string) string {
	var b strings.Builder
	var run []rune
	flush := func() {
		if len(run) > 0 {
			b.WriteString(transform(string(run)))
			run = run[:0]
		}
	}
	for _, r := range s {
		if member(r) {
			run = append(run, r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

// legalFormSubstitutions swaps legal-entity abbreviation tokens for their
// cross-script equivalents, preserving surrounding punctuation and the
// original token's casing style.
func legalFormSubstitutions(s string) []string {
	tokens := strings.Fields(s)
	var out []string

	for i, tok := range tokens {
		core := strings.TrimFunc(tok, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if core == "" {
			continue
		}
		prefix := tok[:strings.Index(tok, core)]
		suffix := tok[strings.Index(tok, core)+len(core):]

		for _, group := range legalForms {
			if !containsFold(group, core) {
				continue
			}
			for _, member := range group {
				if strings.EqualFold(member, core) {
					continue
				}
				replacement := member
				if core == strings.ToUpper(core) && core != strings.ToLower(core) {
					replacement = strings.ToUpper(member)
				}
				rebuilt := make([]string, len(tokens))
				copy(rebuilt, tokens)
				rebuilt[i] = prefix + replacement + suffix
				out = append(out, strings.Join(rebuilt, " "))
			}
		}
	}
	return out
}

func containsFold(group []string, s string) bool {
	for _, g := range group {
		if strings.EqualFold(g, s) {
			return true
		}
	}
	return false
}

// matchCase adjusts a mapped string to the casing of its source rune:
// "sh" for ш, "Sh" for Ш.
func matchCase(mapped string, source rune) string {
	if !unicode.IsUpper(source) || mapped == "" {
		return mapped
	}
	r := []rune(mapped)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// replaceFold replaces every case-insensitive occurrence of old with new,
// matching the case of the occurrence's first letter.
func replaceFold(s, old, new string) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	i := 0
	for i < len(s) {
		if strings.HasPrefix(lower[i:], old) {
			first := rune(s[i])
			b.WriteString(matchCase(new, first))
			i += len(old)
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// replaceRune replaces every occurrence of the letter r (either case) with
// the replacement string, matching case.
func replaceRune(s string, target rune, replacement string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.ToLower(r) == target {
			b.WriteString(matchCase(replacement, r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// variantSet is an insertion-ordered string set.
type variantSet struct {
	seen  map[string]struct{}
	order []string
}

func newVariantSet() *variantSet {
	return &variantSet{seen: make(map[string]struct{})}
}

func (v *variantSet) add(s string) {
	if s == "" {
		return
	}
	if _, ok := v.seen[s]; ok {
		return
	}
	v.seen[s] = struct{}{}
	v.order = append(v.order, s)
}

func (v *variantSet) items() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}
