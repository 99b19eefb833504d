package norm

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/kasuga-db/kasuga/internal/errors"
)

// mapEntries is the size of the per-code-unit maps.
const mapEntries = 0x10000

// decompEntry maps one code unit to its decomposition.
type decompEntry struct {
	orig uint16
	repl []uint16
}

// surrogateEntry maps one surrogate pair to its replacement.
type surrogateEntry struct {
	high, low uint16
	repl      []uint16
}

// RuleEngine is the protocol to the dictionary-driven rewriter wrapped
// around the morphological analyzer: Apply emits X{A,B}Y forms where A
// is the matched original and B the normalized alternative.
type RuleEngine interface {
	Apply(run []uint16) []uint16
}

// ExpandEngine is the second rule table used for synonym expansion; it
// emits groups of alternatives bracketed by the default delimiters.
type ExpandEngine interface {
	Expand(run []uint16) []uint16
}

// RuleSet holds one complete rule configuration: the character maps,
// the meta tables and the rule engines.
type RuleSet struct {
	preMap  []uint16 // mapEntries entries
	postMap []uint16

	preDecompMap  []decompEntry
	postDecompMap []decompEntry

	preSurrogateMap  []surrogateEntry
	postSurrogateMap []surrogateEntry

	combiMap map[uint32]uint16

	nakatenMeta []uint16
	chouonMeta  []uint16
	hyphenMeta  []uint16
	ignoreBoth  []uint16

	english bool

	rule   RuleEngine
	expand ExpandEngine
}

// NewRuleSet creates an identity rule set: every code unit maps to
// itself, no combinations, no rewrites, default meta tables.
func NewRuleSet(english bool) *RuleSet {
	r := &RuleSet{
		preMap:   make([]uint16, mapEntries),
		postMap:  make([]uint16, mapEntries),
		combiMap: map[uint32]uint16{},
		english:  english,
		rule:     identityRule{},
		expand:   identityExpand{},
	}
	for i := range r.preMap {
		r.preMap[i] = uint16(i)
		r.postMap[i] = uint16(i)
	}
	r.nakatenMeta = append(r.nakatenMeta, defaultNakaten...)
	r.chouonMeta = append(r.chouonMeta, defaultChouon...)
	r.hyphenMeta = append(r.hyphenMeta, defaultHyphen...)
	r.ignoreBoth = append(r.ignoreBoth, defaultIgnoreBoth...)
	return r
}

// Meta class defaults. The first entry of the chouon and hyphen tables
// is the unification target.
var (
	defaultNakaten    = []uint16{0x30FB, 0xFF65, 0x00B7, 0x2022}
	defaultChouon     = []uint16{0x30FC, 0x2014, 0x2015, 0x2500, 0xFF70}
	defaultHyphen     = []uint16{0x002D, 0x2010, 0x2011, 0x2212, 0xFF0D}
	defaultIgnoreBoth = []uint16{0x3099, 0x309A}
)

// SetPreMap overrides one pre-map entry.
func (r *RuleSet) SetPreMap(from, to uint16) { r.preMap[from] = to }

// SetPostMap overrides one post-map entry.
func (r *RuleSet) SetPostMap(from, to uint16) { r.postMap[from] = to }

// DeletePre marks a code unit for deletion in the pre stage.
func (r *RuleSet) DeletePre(c uint16) { r.preMap[c] = 0 }

// SetPreDecomposition maps one code unit to a replacement string.
func (r *RuleSet) SetPreDecomposition(c uint16, repl []uint16) {
	r.preMap[c] = mapDecompose
	r.preDecompMap = append(r.preDecompMap, decompEntry{orig: c, repl: repl})
}

// SetPostDecomposition maps one code unit to a replacement string in
// the post stage.
func (r *RuleSet) SetPostDecomposition(c uint16, repl []uint16) {
	r.postMap[c] = mapDecompose
	r.postDecompMap = append(r.postDecompMap, decompEntry{orig: c, repl: repl})
}

// SetPreSurrogate maps a surrogate pair.
func (r *RuleSet) SetPreSurrogate(high, low uint16, repl []uint16) {
	r.preSurrogateMap = append(r.preSurrogateMap, surrogateEntry{high: high, low: low, repl: repl})
}

// SetCombination registers base+mark → composed.
func (r *RuleSet) SetCombination(base, mark, composed uint16) {
	r.combiMap[uint32(base)<<16|uint32(mark)] = composed
	// the mark must classify as combining in the pre stage
	if r.preMap[mark] != 0 && r.preMap[mark] != mapCombiningKeep {
		r.preMap[mark] = 0
	}
}

// KeepCombining marks a combining mark that must survive when it does
// not compose.
func (r *RuleSet) KeepCombining(mark uint16) { r.preMap[mark] = mapCombiningKeep }

// SetRuleEngine installs the normalization rule engine.
func (r *RuleSet) SetRuleEngine(e RuleEngine) { r.rule = e }

// SetExpandEngine installs the synonym expansion engine.
func (r *RuleSet) SetExpandEngine(e ExpandEngine) { r.expand = e }

// English reports whether ASCII runs receive rule normalization.
func (r *RuleSet) English() bool { return r.english }

// EnableSpaceFolding deletes spaces in the post stage.
func (r *RuleSet) EnableSpaceFolding() {
	r.postMap[0x0020] = 0
	r.postMap[0x3000] = 0
}

// DisableSpaceFolding restores spaces in the post stage, unifying the
// ideographic space to ASCII.
func (r *RuleSet) DisableSpaceFolding() {
	r.postMap[0x0020] = 0x0020
	r.postMap[0x3000] = 0x0020
}

// identityRule leaves every run untouched.
type identityRule struct{}

func (identityRule) Apply(run []uint16) []uint16 { return run }

// identityExpand emits no alternatives.
type identityExpand struct{}

func (identityExpand) Expand(run []uint16) []uint16 { return run }

// map file names inside a resource directory.
const (
	preMapName   = "preMap.dat"
	postMapName  = "postMap.dat"
	combiMapName = "combiMap.dat"
)

// LoadDir reads the map tables from a resource directory compiled by
// the dictionary tooling. Each map file is a little-endian sequence of
// code-unit pairs; the combination map holds (base, mark, composed)
// triples.
func LoadDir(dir string, english bool) (*RuleSet, error) {
	r := NewRuleSet(english)
	if err := loadPairs(filepath.Join(dir, preMapName), func(from, to uint16) {
		r.preMap[from] = to
	}); err != nil {
		return nil, err
	}
	if err := loadPairs(filepath.Join(dir, postMapName), func(from, to uint16) {
		r.postMap[from] = to
	}); err != nil {
		return nil, err
	}
	if err := loadTriples(filepath.Join(dir, combiMapName), func(base, mark, composed uint16) {
		r.SetCombination(base, mark, composed)
	}); err != nil {
		return nil, err
	}
	return r, nil
}

func loadPairs(path string, apply func(from, to uint16)) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.NotInitialized, err, "rule table")
	}
	if len(buf)%4 != 0 {
		return errors.Newf(errors.Unexpected, "corrupt rule table %s", path)
	}
	for off := 0; off < len(buf); off += 4 {
		apply(binary.LittleEndian.Uint16(buf[off:]), binary.LittleEndian.Uint16(buf[off+2:]))
	}
	return nil
}

func loadTriples(path string, apply func(a, b, c uint16)) error {
	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.NotInitialized, err, "rule table")
	}
	if len(buf)%6 != 0 {
		return errors.Newf(errors.Unexpected, "corrupt rule table %s", path)
	}
	for off := 0; off < len(buf); off += 6 {
		apply(binary.LittleEndian.Uint16(buf[off:]),
			binary.LittleEndian.Uint16(buf[off+2:]),
			binary.LittleEndian.Uint16(buf[off+4:]))
	}
	return nil
}
