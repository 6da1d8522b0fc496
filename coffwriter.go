// Completion: 100% - COFF (.obj) relocatable object writer complete
//
// Grounded on the same teacher section-table conventions as elfwriter.go,
// adapted to COFF's simpler flat header-plus-section-table-plus-symtab
// layout (no program headers, no section-header string table — COFF
// names are inline 8-byte fields or string-table offsets beyond 8 chars).
package cppbe

import (
	"encoding/binary"
	"io"
)

const (
	coffMachineAmd64 = 0x8664
	coffCharText     = 0x60500020 // CNT_CODE | MEM_EXECUTE | MEM_READ | ALIGN_16BYTES
	coffCharData     = 0xC0500040 // CNT_INITIALIZED_DATA | MEM_READ | MEM_WRITE
	coffCharRdata    = 0x40500040 // CNT_INITIALIZED_DATA | MEM_READ
	coffRelAmd64Addr64 = 0x0001
	coffRelAmd64Rel32  = 0x0004
	coffRelAmd64Addr32Nb = 0x0003
	imageSymClassExternal = 2
	imageSymClassStatic   = 3
)

// CoffWriter implements ObjectWriter for Windows x64 targets.
type CoffWriter struct{}

func (w *CoffWriter) Write(out io.Writer, mod *ObjectModule) error {
	var strtab []byte // COFF string table: starts with its own 4-byte length prefix

	shortName := func(name string) (fixed [8]byte, offsetEntry uint32) {
		full := "." + name
		if len(full) <= 8 {
			copy(fixed[:], full)
			return fixed, 0
		}
		off := uint32(len(strtab) + 4) // +4 for the length prefix written at the end
		strtab = append(strtab, []byte(full)...)
		strtab = append(strtab, 0)
		encoded := "/" + itoa(off)
		copy(fixed[:], encoded)
		return fixed, off
	}

	sectionIndex := map[string]int{}
	for i, s := range mod.Sections {
		sectionIndex[s.Name] = i + 1 // COFF section numbers are 1-based
	}

	symIndex := map[string]int{}
	var symtabBytes []byte
	nextSym := 0
	appendSym := func(name string, value uint32, sectionNum int16, storageClass byte) {
		var e [18]byte
		nameFixed, _ := coffSymName(name, &strtab)
		copy(e[0:8], nameFixed[:])
		binary.LittleEndian.PutUint32(e[8:], value)
		binary.LittleEndian.PutUint16(e[12:], uint16(sectionNum))
		binary.LittleEndian.PutUint16(e[14:], 0) // type: 0 = not a function-typed symbol entry, kept simple
		e[16] = storageClass
		e[17] = 0 // no aux symbols
		symtabBytes = append(symtabBytes, e[:]...)
		symIndex[name] = nextSym
		nextSym++
	}

	for _, sym := range mod.Symbols {
		class := byte(imageSymClassStatic)
		if sym.Global {
			class = imageSymClassExternal
		}
		sectionNum := int16(0)
		if sym.Defined {
			sectionNum = int16(sectionIndex[sym.Section])
		}
		appendSym(sym.Name, uint32(sym.Offset), sectionNum, class)
	}

	type sectionOut struct {
		name     [8]byte
		data     []byte
		relocs   []byte
		numRelocs int
		characteristics uint32
	}
	var outs []sectionOut
	for _, s := range mod.Sections {
		name, _ := shortName(s.Name)
		characteristics := uint32(coffCharRdata)
		if s.Execute {
			characteristics = coffCharText
		} else if s.Write {
			characteristics = coffCharData
		}
		var relBytes []byte
		for _, r := range s.Relocs {
			if _, ok := symIndex[r.Symbol]; !ok {
				appendSym(r.Symbol, 0, 0, imageSymClassExternal)
			}
			var e [10]byte
			binary.LittleEndian.PutUint32(e[0:], uint32(r.Offset))
			binary.LittleEndian.PutUint32(e[4:], uint32(symIndex[r.Symbol]))
			binary.LittleEndian.PutUint16(e[8:], coffRelocType(r.Type))
			relBytes = append(relBytes, e[:]...)
		}
		outs = append(outs, sectionOut{name: name, data: s.Bytes, relocs: relBytes, numRelocs: len(s.Relocs), characteristics: characteristics})
	}

	const fileHeaderSize = 20
	const sectionHeaderSize = 40
	offset := uint32(fileHeaderSize + sectionHeaderSize*len(outs))
	type placed struct{ dataOff, relocOff uint32 }
	places := make([]placed, len(outs))
	for i, s := range outs {
		places[i].dataOff = offset
		offset += uint32(len(s.data))
		places[i].relocOff = offset
		offset += uint32(len(s.relocs))
	}
	symtabOffset := offset
	offset += uint32(len(symtabBytes))
	_ = offset

	var fileHeader [fileHeaderSize]byte
	binary.LittleEndian.PutUint16(fileHeader[0:], coffMachineAmd64)
	binary.LittleEndian.PutUint16(fileHeader[2:], uint16(len(outs)))
	binary.LittleEndian.PutUint32(fileHeader[8:], symtabOffset)
	binary.LittleEndian.PutUint32(fileHeader[12:], uint32(nextSym))
	binary.LittleEndian.PutUint16(fileHeader[16:], 0) // optional header size: none, this is a .obj
	binary.LittleEndian.PutUint16(fileHeader[18:], 0)

	if _, err := out.Write(fileHeader[:]); err != nil {
		return err
	}
	for i, s := range outs {
		var h [sectionHeaderSize]byte
		copy(h[0:8], s.name[:])
		binary.LittleEndian.PutUint32(h[16:], uint32(len(s.data)))
		binary.LittleEndian.PutUint32(h[20:], places[i].dataOff)
		if s.numRelocs > 0 {
			binary.LittleEndian.PutUint32(h[24:], places[i].relocOff)
		}
		binary.LittleEndian.PutUint16(h[32:], uint16(s.numRelocs))
		binary.LittleEndian.PutUint32(h[36:], s.characteristics)
		if _, err := out.Write(h[:]); err != nil {
			return err
		}
	}
	for _, s := range outs {
		if _, err := out.Write(s.data); err != nil {
			return err
		}
		if _, err := out.Write(s.relocs); err != nil {
			return err
		}
	}
	if _, err := out.Write(symtabBytes); err != nil {
		return err
	}
	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(strtab)+4))
	if _, err := out.Write(lenPrefix[:]); err != nil {
		return err
	}
	_, err := out.Write(strtab)
	return err
}

func coffRelocType(t RelocType) uint16 {
	switch t {
	case RelocAbs64:
		return coffRelAmd64Addr64
	case RelocAbs32NB:
		return coffRelAmd64Addr32Nb
	default:
		return coffRelAmd64Rel32
	}
}

// coffSymName returns the fixed 8-byte symbol-table name field: the name
// itself if it fits, else a "/offset" reference into the string table
// appended at the end of writing (symbols are emitted before the string
// table's final length prefix is known, so the offset recorded here is
// relative to the string table's own start, matching the COFF spec).
func coffSymName(name string, strtab *[]byte) (fixed [8]byte, offset uint32) {
	if len(name) <= 8 {
		copy(fixed[:], name)
		return fixed, 0
	}
	off := uint32(len(*strtab) + 4)
	*strtab = append(*strtab, []byte(name)...)
	*strtab = append(*strtab, 0)
	binary.LittleEndian.PutUint32(fixed[4:], off)
	return fixed, off
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
