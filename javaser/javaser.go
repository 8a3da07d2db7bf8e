// Package javaser inspects Java object serialization streams without
// deserializing them. Only the stream header and the class descriptor of a
// top-level object are read.
package javaser

import (
	"encoding/binary"
	"errors"
	"strings"

	"github.com/zoobzio/interchange/internal/hexstr"
)

// Magic is STREAM_MAGIC followed by STREAM_VERSION, as hex.
const Magic = "aced0005"

// ErrMissingMagic indicates input that does not start with Magic.
var ErrMissingMagic = errors.New("not a Java serialization stream: missing magic bytes ACED0005")

// errTruncated stops parsing when a read runs past the input.
var errTruncated = errors.New("truncated stream")

// Type codes from the object serialization stream protocol.
const (
	TCNull           byte = 0x70
	TCReference      byte = 0x71
	TCClassDesc      byte = 0x72
	TCObject         byte = 0x73
	TCString         byte = 0x74
	TCArray          byte = 0x75
	TCClass          byte = 0x76
	TCBlockData      byte = 0x77
	TCEndBlockData   byte = 0x78
	TCReset          byte = 0x79
	TCBlockDataLong  byte = 0x7a
	TCException      byte = 0x7b
	TCLongString     byte = 0x7c
	TCProxyClassDesc byte = 0x7d
	TCEnum           byte = 0x7e
)

// Class descriptor flags.
const (
	FlagWriteMethod    byte = 0x01
	FlagSerializable   byte = 0x02
	FlagExternalizable byte = 0x04
	FlagBlockData      byte = 0x08
	FlagEnum           byte = 0x10
)

var primitiveTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// Info is what ParseInfo could read from a stream.
type Info struct {
	Version          int      `json:"version"`
	ClassName        string   `json:"className"`
	Fields           []string `json:"fields"`
	SerialVersionUID int64    `json:"serialVersionUID"`
	Flags            byte     `json:"flags"`
	FieldDescriptors []Field  `json:"fieldDescriptors"`
}

// Field describes one declared field of the top-level class.
type Field struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	TypeName string `json:"typeName,omitempty"`
}

// String renders the field as "<type code> <name>".
func (f Field) String() string {
	return f.Type + " " + f.Name
}

// HasFlag reports whether the class descriptor carries flag.
func (i *Info) HasFlag(flag byte) bool {
	return i.Flags&flag != 0
}

// Detect reports whether hex starts with the serialization magic. Whitespace
// is ignored and hex digits may be in either case.
func Detect(hex string) bool {
	return strings.HasPrefix(hexstr.Clean(hex), Magic)
}

// ParseInfo reads the stream version and, for a TC_OBJECT with an inline
// TC_CLASSDESC, the class name and field descriptors. Reading stops at the
// first read past the end of input and whatever was collected is returned.
// Only a missing magic is an error.
func ParseInfo(hex string) (*Info, error) {
	cleaned := hexstr.Clean(hex)
	if !strings.HasPrefix(cleaned, Magic) {
		return nil, ErrMissingMagic
	}

	data := hexstr.DecodePrefix(cleaned)
	info := &Info{
		Version:          int(binary.BigEndian.Uint16(data[2:4])),
		Fields:           []string{},
		FieldDescriptors: []Field{},
	}

	r := &reader{data: data, off: 4}
	_ = r.classDesc(info)
	return info, nil
}

func (r *reader) classDesc(info *Info) error {
	tc, err := r.byte()
	if err != nil || tc != TCObject {
		return err
	}
	if tc, err = r.byte(); err != nil || tc != TCClassDesc {
		return err
	}

	name, err := r.utf()
	if err != nil {
		return err
	}
	info.ClassName = name

	uid, err := r.uint64()
	if err != nil {
		return err
	}
	info.SerialVersionUID = int64(uid)

	if info.Flags, err = r.byte(); err != nil {
		return err
	}

	count, err := r.uint16()
	if err != nil {
		return err
	}
	for range count {
		f, err := r.field()
		if err != nil {
			return err
		}
		info.Fields = append(info.Fields, f.String())
		info.FieldDescriptors = append(info.FieldDescriptors, f)
	}
	return nil
}

// field reads one field descriptor. Object and array fields are followed by
// their type signature as TC_STRING, or by TC_REFERENCE to a string already
// in the stream.
func (r *reader) field() (Field, error) {
	code, err := r.byte()
	if err != nil {
		return Field{}, err
	}
	name, err := r.utf()
	if err != nil {
		return Field{}, err
	}
	f := Field{Type: string(rune(code)), Name: name, TypeName: primitiveTypes[code]}
	if code != 'L' && code != '[' {
		return f, nil
	}

	tc, err := r.byte()
	if err != nil {
		return f, nil
	}
	switch tc {
	case TCString:
		if sig, err := r.utf(); err == nil {
			f.TypeName = sig
		}
	case TCReference:
		_ = r.skip(4)
	}
	return f, nil
}

// reader is a bounds-checked cursor over the decoded stream.
type reader struct {
	data []byte
	off  int
}

func (r *reader) need(n int) error {
	if n < 0 || r.off+n > len(r.data) {
		return errTruncated
	}
	return nil
}

func (r *reader) byte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.off]
	r.off++
	return b, nil
}

func (r *reader) uint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) uint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v, nil
}

func (r *reader) skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.off += n
	return nil
}

// utf reads a 2-byte length and that many bytes, kept byte for byte.
func (r *reader) utf() (string, error) {
	n, err := r.uint16()
	if err != nil {
		return "", err
	}
	if err := r.need(int(n)); err != nil {
		return "", err
	}
	s := string(r.data[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}
