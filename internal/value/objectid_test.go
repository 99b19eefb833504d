package value

import (
	"testing"
)

func TestObjectIDPack(t *testing.T) {
	tests := []struct {
		page uint32
		area uint16
	}{
		{0, 0},
		{1, 2},
		{0xFFFFFFFE, 0xFFFF},
		{0x12345678, 0x9ABC},
	}
	for _, tt := range tests {
		id := PackObjectID(tt.page, tt.area)
		if id.Page() != tt.page || id.Area() != tt.area {
			t.Errorf("pack(%#x,%#x) unpacked to (%#x,%#x)",
				tt.page, tt.area, id.Page(), id.Area())
		}
	}
	if !PackObjectID(UndefinedPageID, 0).IsInvalid() {
		t.Error("all-ones page must be invalid")
	}
	if PackObjectID(1, 0).IsInvalid() {
		t.Error("valid page flagged invalid")
	}
}

func TestObjectIDWire(t *testing.T) {
	id := PackObjectID(0x01020304, 0x0506)
	buf := make([]byte, ObjectIDWireSize)
	if err := WriteObjectID(buf, id); err != nil {
		t.Fatal(err)
	}
	// page first, area second, both little-endian
	want := []byte{0x04, 0x03, 0x02, 0x01, 0x06, 0x05}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("wire form = %x, want %x", buf, want)
		}
	}
	back, err := ReadObjectID(buf)
	if err != nil {
		t.Fatal(err)
	}
	if back != id {
		t.Errorf("round trip %x != %x", back, id)
	}

	if err := WriteObjectID(make([]byte, 3), id); err == nil {
		t.Error("short buffer must fail")
	}
}
