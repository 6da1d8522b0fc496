package cppbe

import "testing"

func TestRecordSkipsDuplicateLines(t *testing.T) {
	dt := NewDebugLineTable("a.cpp")
	dt.Record(0, 10)
	dt.Record(4, 10)
	dt.Record(8, 11)
	entries := dt.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries (duplicate line collapsed), got %d", len(entries))
	}
	if entries[0] != (LineEntry{CodeOffset: 0, Line: 10}) {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1] != (LineEntry{CodeOffset: 8, Line: 11}) {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestRecordFirstLineAlwaysAppendedEvenIfZero(t *testing.T) {
	dt := NewDebugLineTable("a.cpp")
	dt.Record(0, 0)
	if len(dt.Entries()) != 1 {
		t.Fatalf("expected line 0 to be recorded as the first entry, got %d entries", len(dt.Entries()))
	}
}

func TestEncodeElfRoundTripsViaULEB128(t *testing.T) {
	dt := NewDebugLineTable("a.cpp")
	dt.Record(0, 10)
	dt.Record(20, 300)
	buf := dt.EncodeElf()

	count, n := decodeULEB128(buf)
	if count != 2 {
		t.Fatalf("expected encoded entry count 2, got %d", count)
	}
	off := n
	off0, n0 := decodeULEB128(buf[off:])
	off += n0
	line0, n1 := decodeULEB128(buf[off:])
	off += n1
	if off0 != 0 || line0 != 10 {
		t.Fatalf("unexpected first pair: offset=%d line=%d", off0, line0)
	}
	off1, n2 := decodeULEB128(buf[off:])
	off += n2
	line1, _ := decodeULEB128(buf[off:])
	if off1 != 20 || line1 != 300 {
		t.Fatalf("unexpected second pair: offset=%d line=%d", off1, line1)
	}
}

func TestEncodeCoffMirrorsEncodeElf(t *testing.T) {
	dt := NewDebugLineTable("a.cpp")
	dt.Record(0, 5)
	dt.Record(4, 6)
	elf := dt.EncodeElf()
	coff := dt.EncodeCoff()
	if len(elf) != len(coff) {
		t.Fatalf("expected EncodeCoff to mirror EncodeElf byte-for-byte, got lengths %d vs %d", len(elf), len(coff))
	}
	for i := range elf {
		if elf[i] != coff[i] {
			t.Fatalf("byte mismatch at %d: elf=%x coff=%x", i, elf[i], coff[i])
		}
	}
}
