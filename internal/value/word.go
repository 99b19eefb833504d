package value

import (
	"strconv"
)

// WordCompare selects the comparator variant used when sorting full-text
// word columns.
type WordCompare int32

const (
	// WordCompareNormal orders by term, then language, then category.
	WordCompareNormal WordCompare = iota
	// WordCompareDf orders by document frequency.
	WordCompareDf
	// WordCompareScale orders by scale.
	WordCompareScale
)

// WordData is a full-text search word with its statistics.
type WordData struct {
	nullable
	term     string
	language string
	category int32
	df       int32
	scale    float64
}

func NewWord(term string) *WordData { return &WordData{term: term} }

func (d *WordData) Type() Type        { return TypeWord }
func (d *WordData) ElementType() Type { return TypeUndefined }
func (d *WordData) ClassID() int32    { return ClassWordData }

func (d *WordData) Term() string     { return d.term }
func (d *WordData) Language() string { return d.language }
func (d *WordData) Category() int32  { return d.category }
func (d *WordData) Df() int32        { return d.df }
func (d *WordData) Scale() float64   { return d.scale }

func (d *WordData) SetTerm(s string) {
	d.term = s
	d.setNotNull()
}
func (d *WordData) SetLanguage(s string) { d.language = s }
func (d *WordData) SetCategory(c int32)  { d.category = c }
func (d *WordData) SetDf(n int32)        { d.df = n }
func (d *WordData) SetScale(s float64)   { d.scale = s }

func (d *WordData) Assign(src Data) error {
	if src.IsNull() {
		d.SetNull()
		return nil
	}
	if w, ok := src.(*WordData); ok {
		term := w.term
		*d = *w
		d.term = term
		return nil
	}
	return errNotCompatible(d, src)
}

func (d *WordData) Copy() Data {
	c := *d
	return &c
}

func (d *WordData) Compare(other Data) int {
	return d.CompareWord(other, WordCompareNormal)
}

// CompareWord compares under the given variant. Non-word operands fall
// back to type-tag order.
func (d *WordData) CompareWord(other Data, variant WordCompare) int {
	if r, decided := compareNull(d, other); decided {
		return r
	}
	w, ok := other.(*WordData)
	if !ok {
		return compareTypeOrder(d, other)
	}
	switch variant {
	case WordCompareDf:
		switch {
		case d.df < w.df:
			return -1
		case d.df > w.df:
			return 1
		}
		return 0
	case WordCompareScale:
		switch {
		case d.scale < w.scale:
			return -1
		case d.scale > w.scale:
			return 1
		}
		return 0
	}
	if c := compareStrings(d.term, w.term); c != 0 {
		return c
	}
	if c := compareStrings(d.language, w.language); c != 0 {
		return c
	}
	switch {
	case d.category < w.category:
		return -1
	case d.category > w.category:
		return 1
	}
	return 0
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (d *WordData) Equals(other Data) bool { return d.Compare(other) == 0 }

func (d *WordData) Hash() uint32 {
	if d.null {
		return nullHash
	}
	var h uint32 = 2166136261
	for i := 0; i < len(d.term); i++ {
		h ^= uint32(d.term[i])
		h *= 16777619
	}
	return h
}

func (d *WordData) String() string {
	if d.null {
		return "(null)"
	}
	return "'" + d.term + "' df=" + strconv.FormatInt(int64(d.df), 10) +
		" scale=" + strconv.FormatFloat(d.scale, 'g', -1, 64)
}

func (d *WordData) Serialize(a *Archive) error {
	a.Bool(&d.null)
	a.String(&d.term)
	a.String(&d.language)
	a.Int32(&d.category)
	a.Int32(&d.df)
	a.Float64(&d.scale)
	return a.Err()
}
