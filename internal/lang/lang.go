// Package lang holds the fixed table of languages served by the translation
// backend, keyed by the display names shown to users.
package lang

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// ErrUnknownLanguage is returned when a display name or code is not in the table.
var ErrUnknownLanguage = errors.New("unknown language")

// Language is a display name paired with the backend's <lang>_<script> code.
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Defaults used by the form UI and the CLI.
const (
	DefaultSource = "Kannada"
	DefaultTarget = "English"
)

// The backend rejects anything else, so the table must stay in sync with it.
var table = []Language{
	{"Assamese", "asm_Beng"},
	{"Bengali", "ben_Beng"},
	{"Bodo", "brx_Deva"},
	{"Dogri", "doi_Deva"},
	{"English", "eng_Latn"},
	{"Gujarati", "guj_Gujr"},
	{"Hindi", "hin_Deva"},
	{"Kannada", "kan_Knda"},
	{"Kashmiri (Arabic)", "kas_Arab"},
	{"Kashmiri (Devanagari)", "kas_Deva"},
	{"Konkani", "gom_Deva"},
	{"Malayalam", "mal_Mlym"},
	{"Manipuri (Bengali)", "mni_Beng"},
	{"Manipuri (Meitei)", "mni_Mtei"},
	{"Maithili", "mai_Deva"},
	{"Marathi", "mar_Deva"},
	{"Nepali", "npi_Deva"},
	{"Odia", "ory_Orya"},
	{"Punjabi", "pan_Guru"},
	{"Sanskrit", "san_Deva"},
	{"Santali", "sat_Olck"},
	{"Sindhi (Arabic)", "snd_Arab"},
	{"Sindhi (Devanagari)", "snd_Deva"},
	{"Tamil", "tam_Taml"},
	{"Telugu", "tel_Telu"},
	{"Urdu", "urd_Arab"},
}

var codeFormat = regexp.MustCompile(`^[a-z]{3}_[A-Z][a-z]{3}$`)

var (
	byName map[string]Language
	byCode map[string]Language
)

func init() {
	var err error
	byName, byCode, err = index(table)
	if err != nil {
		panic(err)
	}
}

// index builds the lookup maps and rejects duplicate names, duplicate codes
// and malformed codes.
func index(entries []Language) (map[string]Language, map[string]Language, error) {
	names := make(map[string]Language, len(entries))
	codes := make(map[string]Language, len(entries))
	for _, l := range entries {
		if l.Name == "" {
			return nil, nil, fmt.Errorf("language table: empty name for code %q", l.Code)
		}
		if !codeFormat.MatchString(l.Code) {
			return nil, nil, fmt.Errorf("language table: malformed code %q for %q", l.Code, l.Name)
		}
		if _, dup := names[l.Name]; dup {
			return nil, nil, fmt.Errorf("language table: duplicate name %q", l.Name)
		}
		if _, dup := codes[l.Code]; dup {
			return nil, nil, fmt.Errorf("language table: duplicate code %q", l.Code)
		}
		names[l.Name] = l
		codes[l.Code] = l
	}
	return names, codes, nil
}

// Lookup returns the entry for a display name such as "Kannada".
func Lookup(name string) (Language, error) {
	l, ok := byName[strings.TrimSpace(name)]
	if !ok {
		return Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	return l, nil
}

// ByCode returns the entry for a backend code such as "kan_Knda".
func ByCode(code string) (Language, error) {
	l, ok := byCode[strings.TrimSpace(code)]
	if !ok {
		return Language{}, fmt.Errorf("%w: code %q", ErrUnknownLanguage, code)
	}
	return l, nil
}

// All returns a copy of the table in display order.
func All() []Language {
	out := make([]Language, len(table))
	copy(out, table)
	return out
}

// Names returns the display names in table order.
func Names() []string {
	out := make([]string, 0, len(table))
	for _, l := range table {
		out = append(out, l.Name)
	}
	return out
}

// Tag converts the code into a BCP 47 tag ("kan_Knda" -> kn-Knda).
// Codes the x/text registry does not know yield language.Und.
func (l Language) Tag() language.Tag {
	t, err := language.Parse(strings.ReplaceAll(l.Code, "_", "-"))
	if err != nil {
		return language.Und
	}
	return t
}

func (l Language) String() string {
	return fmt.Sprintf("%s (%s)", l.Name, l.Code)
}
