package cppbe

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestCoffWriterFileHeaderMachineAndSectionCount(t *testing.T) {
	var buf bytes.Buffer
	w := &CoffWriter{}
	if err := w.Write(&buf, sampleModule()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.Bytes()
	if len(out) < 20 {
		t.Fatalf("expected at least a 20-byte file header, got %d bytes", len(out))
	}
	machine := binary.LittleEndian.Uint16(out[0:2])
	if machine != coffMachineAmd64 {
		t.Fatalf("expected IMAGE_FILE_MACHINE_AMD64, got %#x", machine)
	}
	numSections := binary.LittleEndian.Uint16(out[2:4])
	if numSections != 2 {
		t.Fatalf("expected 2 sections (text, data), got %d", numSections)
	}
}

func TestCoffWriterLongSectionNameUsesStringTableOffset(t *testing.T) {
	mod := &ObjectModule{
		Sections: []Section{
			{Name: "a_very_long_section_name_over_eight_chars", Bytes: []byte{0}},
		},
	}
	var buf bytes.Buffer
	w := &CoffWriter{}
	if err := w.Write(&buf, mod); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("a_very_long_section_name_over_eight_chars")) {
		t.Fatal("expected the long section name to appear in the COFF string table")
	}
}

func TestItoa(t *testing.T) {
	cases := map[uint32]string{0: "0", 7: "7", 123: "123", 100000: "100000"}
	for in, want := range cases {
		if got := itoa(in); got != want {
			t.Errorf("itoa(%d) = %q, want %q", in, got, want)
		}
	}
}
