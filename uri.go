package ftml

import (
	"strings"
)

// Name is a "/"-separated path of non-empty steps, e.g. "mod/struct".
type Name string

// ParseName validates s as a Name.
func ParseName(s string) (Name, error) {
	if s == "" {
		return "", Errorf(EINVALID, "empty name")
	}
	for _, step := range strings.Split(s, "/") {
		if step == "" {
			return "", Errorf(EINVALID, "empty step in name %q", s)
		}
	}
	if strings.ContainsAny(s, "?&\n") {
		return "", Errorf(EINVALID, "invalid character in name %q", s)
	}
	return Name(s), nil
}

// Steps returns the steps of the name.
func (n Name) Steps() []string {
	return strings.Split(string(n), "/")
}

// First returns the first step.
func (n Name) First() string {
	first, _, _ := strings.Cut(string(n), "/")
	return first
}

// Last returns the last step.
func (n Name) Last() string {
	if i := strings.LastIndexByte(string(n), '/'); i >= 0 {
		return string(n)[i+1:]
	}
	return string(n)
}

// IsSimple reports whether the name consists of exactly one step.
func (n Name) IsSimple() bool {
	return !strings.Contains(string(n), "/")
}

// Parent returns the name without its last step, or "" for simple names.
func (n Name) Parent() Name {
	if i := strings.LastIndexByte(string(n), '/'); i >= 0 {
		return n[:i]
	}
	return ""
}

// Join appends the steps of other to n.
func (n Name) Join(other Name) Name {
	if n == "" {
		return other
	}
	return n + "/" + other
}

// HasSuffix reports whether the trailing steps of n equal the steps of suffix.
func (n Name) HasSuffix(suffix Name) bool {
	steps, want := n.Steps(), suffix.Steps()
	if len(want) > len(steps) {
		return false
	}
	off := len(steps) - len(want)
	for i, s := range want {
		if steps[off+i] != s {
			return false
		}
	}
	return true
}

func (n Name) String() string { return string(n) }

// Language is an ISO 639-1 language code.
type Language string

// Supported languages.
const (
	English   Language = "en"
	German    Language = "de"
	French    Language = "fr"
	Romanian  Language = "ro"
	Arabic    Language = "ar"
	Bulgarian Language = "bg"
	Russian   Language = "ru"
	Finnish   Language = "fi"
	Turkish   Language = "tr"
	Slovenian Language = "sl"
)

var languages = map[Language]bool{
	English: true, German: true, French: true, Romanian: true, Arabic: true,
	Bulgarian: true, Russian: true, Finnish: true, Turkish: true, Slovenian: true,
}

// ParseLanguage parses a language code.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !languages[l] {
		return "", Errorf(EINVALID, "unknown language %q", s)
	}
	return l, nil
}

// LanguageFromFilename returns the language suffix of names like "intro.de"
// and the name without it. Names without a known suffix default to English.
func LanguageFromFilename(name string) (string, Language) {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		if l, err := ParseLanguage(name[i+1:]); err == nil {
			return name[:i], l
		}
	}
	return name, English
}

// ArchiveURI identifies an archive, e.g. "http://mathhub.info?a=sTeX/meta-inf".
type ArchiveURI struct {
	Base string
	ID   string
}

func (a ArchiveURI) String() string {
	return a.Base + "?a=" + a.ID
}

// DocumentURI identifies a document in an archive.
type DocumentURI struct {
	Archive  ArchiveURI
	Path     string
	Name     Name
	Language Language
}

func (d DocumentURI) String() string {
	return withPath(d.Archive, d.Path) + "&d=" + string(d.Name) + "&l=" + string(d.language())
}

func (d DocumentURI) language() Language {
	if d.Language == "" {
		return English
	}
	return d.Language
}

// DocumentURI returns d itself so DocumentURI satisfies NarrativeURI.
func (d DocumentURI) DocumentURI() DocumentURI { return d }

// Element returns the URI of a named element of the document.
func (d DocumentURI) Element(name Name) DocumentElementURI {
	return DocumentElementURI{Document: d, Name: name}
}

// Module returns the URI of a module declared in the document.
func (d DocumentURI) Module(name Name) ModuleURI {
	return ModuleURI{Archive: d.Archive, Path: d.Path, Name: name, Language: d.language()}
}

// ModuleURI identifies a (possibly nested) module.
type ModuleURI struct {
	Archive  ArchiveURI
	Path     string
	Name     Name
	Language Language
}

func (m ModuleURI) String() string {
	lang := m.Language
	if lang == "" {
		lang = English
	}
	return withPath(m.Archive, m.Path) + "&m=" + string(m.Name) + "&l=" + string(lang)
}

func (ModuleURI) isContentURI() {}

// Nested returns the URI of a module nested in m.
func (m ModuleURI) Nested(name Name) ModuleURI {
	m.Name = m.Name.Join(name)
	return m
}

// Symbol returns the URI of a symbol declared in m.
func (m ModuleURI) Symbol(name Name) SymbolURI {
	return SymbolURI{Module: m, Name: name}
}

// AsSymbol returns the symbol a nested module is declared as in its parent.
// It reports false for top-level modules.
func (m ModuleURI) AsSymbol() (SymbolURI, bool) {
	if m.Name.IsSimple() {
		return SymbolURI{}, false
	}
	parent := m
	parent.Name = m.Name.Parent()
	return parent.Symbol(Name(m.Name.Last())), true
}

// SymbolURI identifies a symbol within a module.
type SymbolURI struct {
	Module ModuleURI
	Name   Name
}

func (s SymbolURI) String() string {
	return s.Module.String() + "&s=" + string(s.Name)
}

func (SymbolURI) isContentURI() {}

// AsModule returns the module that structures and morphisms named s open.
func (s SymbolURI) AsModule() ModuleURI {
	return s.Module.Nested(s.Name)
}

// DocumentElementURI identifies a narrative element within a document.
type DocumentElementURI struct {
	Document DocumentURI
	Name     Name
}

func (e DocumentElementURI) String() string {
	return e.Document.String() + "&e=" + string(e.Name)
}

// DocumentURI returns the document containing e.
func (e DocumentElementURI) DocumentURI() DocumentURI { return e.Document }

// Element returns the URI of an element nested in e.
func (e DocumentElementURI) Element(name Name) DocumentElementURI {
	return DocumentElementURI{Document: e.Document, Name: e.Name.Join(name)}
}

// ContentURI is either a ModuleURI or a SymbolURI.
type ContentURI interface {
	String() string
	isContentURI()
}

// NarrativeURI is either a DocumentURI or a DocumentElementURI.
type NarrativeURI interface {
	String() string
	DocumentURI() DocumentURI
	Element(name Name) DocumentElementURI
}

var (
	_ NarrativeURI = DocumentURI{}
	_ NarrativeURI = DocumentElementURI{}
	_ ContentURI   = ModuleURI{}
	_ ContentURI   = SymbolURI{}
)

func withPath(a ArchiveURI, path string) string {
	if path == "" {
		return a.String()
	}
	return a.String() + "&p=" + path
}

// uriParts holds the query components of a URI string.
type uriParts struct {
	base   string
	values map[string]string
}

func parseParts(s string, allowed string) (uriParts, error) {
	base, query, ok := strings.Cut(s, "?")
	if !ok || base == "" || query == "" {
		return uriParts{}, Errorf(EINVALID, "invalid uri %q", s)
	}
	p := uriParts{base: base, values: make(map[string]string)}
	for _, kv := range strings.Split(query, "&") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || len(k) != 1 || v == "" || !strings.Contains(allowed, k) {
			return uriParts{}, Errorf(EINVALID, "invalid uri component %q in %q", kv, s)
		}
		if _, dup := p.values[k]; dup {
			return uriParts{}, Errorf(EINVALID, "duplicate uri component %q in %q", k, s)
		}
		p.values[k] = v
	}
	if p.values["a"] == "" {
		return uriParts{}, Errorf(EINVALID, "missing archive in uri %q", s)
	}
	return p, nil
}

func (p uriParts) archive() ArchiveURI {
	return ArchiveURI{Base: p.base, ID: p.values["a"]}
}

func (p uriParts) name(key, s string) (Name, error) {
	v, ok := p.values[key]
	if !ok {
		return "", Errorf(EINVALID, "missing %s= component in uri %q", key, s)
	}
	return ParseName(v)
}

func (p uriParts) language() (Language, error) {
	v, ok := p.values["l"]
	if !ok {
		return English, nil
	}
	return ParseLanguage(v)
}

// ParseArchiveURI parses an archive URI.
func ParseArchiveURI(s string) (ArchiveURI, error) {
	p, err := parseParts(s, "a")
	if err != nil {
		return ArchiveURI{}, err
	}
	return p.archive(), nil
}

// ParseDocumentURI parses a document URI.
func ParseDocumentURI(s string) (DocumentURI, error) {
	p, err := parseParts(s, "apdl")
	if err != nil {
		return DocumentURI{}, err
	}
	name, err := p.name("d", s)
	if err != nil {
		return DocumentURI{}, err
	}
	lang, err := p.language()
	if err != nil {
		return DocumentURI{}, err
	}
	return DocumentURI{Archive: p.archive(), Path: p.values["p"], Name: name, Language: lang}, nil
}

// ParseModuleURI parses a module URI.
func ParseModuleURI(s string) (ModuleURI, error) {
	p, err := parseParts(s, "apml")
	if err != nil {
		return ModuleURI{}, err
	}
	name, err := p.name("m", s)
	if err != nil {
		return ModuleURI{}, err
	}
	lang, err := p.language()
	if err != nil {
		return ModuleURI{}, err
	}
	return ModuleURI{Archive: p.archive(), Path: p.values["p"], Name: name, Language: lang}, nil
}

// ParseSymbolURI parses a symbol URI.
func ParseSymbolURI(s string) (SymbolURI, error) {
	p, err := parseParts(s, "apmls")
	if err != nil {
		return SymbolURI{}, err
	}
	module, err := p.name("m", s)
	if err != nil {
		return SymbolURI{}, err
	}
	name, err := p.name("s", s)
	if err != nil {
		return SymbolURI{}, err
	}
	lang, err := p.language()
	if err != nil {
		return SymbolURI{}, err
	}
	m := ModuleURI{Archive: p.archive(), Path: p.values["p"], Name: module, Language: lang}
	return SymbolURI{Module: m, Name: name}, nil
}

// ParseDocumentElementURI parses a document element URI.
func ParseDocumentElementURI(s string) (DocumentElementURI, error) {
	p, err := parseParts(s, "apdle")
	if err != nil {
		return DocumentElementURI{}, err
	}
	doc, err := p.name("d", s)
	if err != nil {
		return DocumentElementURI{}, err
	}
	name, err := p.name("e", s)
	if err != nil {
		return DocumentElementURI{}, err
	}
	lang, err := p.language()
	if err != nil {
		return DocumentElementURI{}, err
	}
	d := DocumentURI{Archive: p.archive(), Path: p.values["p"], Name: doc, Language: lang}
	return DocumentElementURI{Document: d, Name: name}, nil
}
