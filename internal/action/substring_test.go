package action

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/value"
)

func runAction(t *testing.T, p *program.Program, a program.Action) error {
	t.Helper()
	if err := a.Initialize(p); err != nil {
		return err
	}
	_, err := a.Execute(p)
	return err
}

func TestCheckArgument(t *testing.T) {
	tests := []struct {
		name       string
		start, len int
		max        int
		wantStart  int
		wantLen    int
		wantErr    bool
	}{
		{"inside", 1, 3, 5, 1, 3, false},
		{"negative length", 0, -1, 5, 0, 0, true},
		{"start past end", 9, 3, 5, 0, 0, false},
		{"head clamp", -2, 5, 3, 0, 3, false},
		{"tail clamp", 2, 100, 5, 2, 3, false},
		{"zero length", 2, 0, 5, 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, length := tt.start, tt.len
			err := CheckArgument(&start, &length, tt.max)
			if tt.wantErr {
				require.True(t, errors.Is(err, errors.SubStringError))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantStart, start)
			require.Equal(t, tt.wantLen, length)
		})
	}
}

func TestSubStringSQL(t *testing.T) {
	tests := []struct {
		name   string
		source string
		start  int32
		length int32 // -1000 marks an omitted FOR clause
		want   string
		kind   errors.Kind
	}{
		{"middle", "héllo", 2, 3, "éll", ""},
		{"head clamped", "abc", -1, 5, "abc", ""},
		{"negative length", "abc", 1, -1, "", errors.SubStringError},
		{"empty window", "abc", 2, 0, "", ""},
		{"past end", "abc", 9, 2, "", ""},
		{"omitted length", "abcdef", 3, -1000, "cdef", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := program.New(nil)
			dataID := p.AddVariable(value.NewString(tt.source))
			startID := p.AddVariable(value.NewInteger(tt.start))
			lengthID := -1
			if tt.length != -1000 {
				lengthID = p.AddVariable(value.NewInteger(tt.length))
			}
			outID := p.AddVariable(value.NewString(""))

			sub := NewSubString(dataID, startID, lengthID, outID)
			err := runAction(t, p, sub)
			if tt.kind != "" {
				require.True(t, errors.Is(err, tt.kind), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, p.Variable(outID).(*value.StringData).Value())
		})
	}
}

func TestSubStringNullOperands(t *testing.T) {
	p := program.New(nil)
	data := value.NewString("abc")
	data.SetNull()
	dataID := p.AddVariable(data)
	startID := p.AddVariable(value.NewInteger(1))
	outID := p.AddVariable(value.NewString(""))

	sub := NewSubString(dataID, startID, -1, outID)
	require.NoError(t, runAction(t, p, sub))
	require.True(t, p.Variable(outID).IsNull())
}

func TestSubStringBinaryAndArray(t *testing.T) {
	p := program.New(nil)
	dataID := p.AddVariable(value.NewBinary([]byte{1, 2, 3, 4}))
	startID := p.AddVariable(value.NewInteger(2))
	lengthID := p.AddVariable(value.NewInteger(2))
	outID := p.AddVariable(value.NewBinary(nil))
	require.NoError(t, runAction(t, p, NewSubString(dataID, startID, lengthID, outID)))
	require.Equal(t, []byte{2, 3}, p.Variable(outID).(*value.BinaryData).Value())

	arrID := p.AddVariable(value.NewArrayOf(
		value.NewInteger(10), value.NewInteger(20), value.NewInteger(30)))
	arrOutID := p.AddVariable(value.NewArray())
	require.NoError(t, runAction(t, p, NewSubString(arrID, startID, lengthID, arrOutID)))
	out := p.Variable(arrOutID).(*value.ArrayData)
	require.Equal(t, 2, out.Count())
	require.EqualValues(t, 20, out.Element(0).(*value.IntegerData).Value())
}

func TestOverlaySQL(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		placement string
		start     int32
		length    int32 // -1000 marks an omitted FOR clause
		want      string
	}{
		{"replace middle", "abcdef", "XYZ", 2, 2, "aXYZdef"},
		{"append past end", "abcdef", "XY", 10, -1000, "abcdefXY"},
		{"default length", "abcdef", "XY", 2, -1000, "aXYdef"},
		{"prefix", "abcdef", "Z", 1, 0, "Zabcdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := program.New(nil)
			dataID := p.AddVariable(value.NewString(tt.source))
			placeID := p.AddVariable(value.NewString(tt.placement))
			startID := p.AddVariable(value.NewInteger(tt.start))
			lengthID := -1
			if tt.length != -1000 {
				lengthID = p.AddVariable(value.NewInteger(tt.length))
			}
			outID := p.AddVariable(value.NewString(""))

			require.NoError(t, runAction(t, p, NewOverlay(dataID, placeID, startID, lengthID, outID)))
			require.Equal(t, tt.want, p.Variable(outID).(*value.StringData).Value())
		})
	}
}

func TestOverlaySubstringIdentity(t *testing.T) {
	// OVERLAY(s PLACING SUBSTRING(s FROM i FOR n) FROM i FOR n) == s
	source := "abcdefgh"
	for _, window := range []struct{ i, n int32 }{{1, 3}, {2, 2}, {4, 10}, {8, 1}} {
		p := program.New(nil)
		dataID := p.AddVariable(value.NewString(source))
		startID := p.AddVariable(value.NewInteger(window.i))
		lengthID := p.AddVariable(value.NewInteger(window.n))
		subOutID := p.AddVariable(value.NewString(""))
		require.NoError(t, runAction(t, p, NewSubString(dataID, startID, lengthID, subOutID)))

		outID := p.AddVariable(value.NewString(""))
		require.NoError(t, runAction(t, p, NewOverlay(dataID, subOutID, startID, lengthID, outID)))
		require.Equal(t, source, p.Variable(outID).(*value.StringData).Value(),
			"window (%d,%d)", window.i, window.n)
	}
}

func TestOverlayNull(t *testing.T) {
	p := program.New(nil)
	dataID := p.AddVariable(value.NewString("abc"))
	place := value.NewString("")
	place.SetNull()
	placeID := p.AddVariable(place)
	startID := p.AddVariable(value.NewInteger(1))
	outID := p.AddVariable(value.NewString(""))
	require.NoError(t, runAction(t, p, NewOverlay(dataID, placeID, startID, -1, outID)))
	require.True(t, p.Variable(outID).IsNull())
}
