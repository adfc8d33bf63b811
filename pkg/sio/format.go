// ABOUTME: Sample format enumeration
// ABOUTME: Describes how a single sample is encoded in stream memory
package sio

// Format identifies the in-memory encoding of one audio sample.
type Format int

const (
	FormatInvalid Format = iota
	FormatS8
	FormatU8
	FormatS16LE
	FormatS16BE
	FormatU16LE
	FormatU16BE
	FormatS24LE
	FormatS24BE
	FormatU24LE
	FormatU24BE
	FormatS32LE
	FormatS32BE
	FormatU32LE
	FormatU32BE
	FormatFloat32LE
	FormatFloat32BE
	FormatFloat64LE
	FormatFloat64BE
)

// BytesPerSample returns the width of one sample, or 0 for FormatInvalid.
func (f Format) BytesPerSample() int {
	switch f {
	case FormatS8, FormatU8:
		return 1
	case FormatS16LE, FormatS16BE, FormatU16LE, FormatU16BE:
		return 2
	case FormatS24LE, FormatS24BE, FormatU24LE, FormatU24BE:
		return 3
	case FormatS32LE, FormatS32BE, FormatU32LE, FormatU32BE,
		FormatFloat32LE, FormatFloat32BE:
		return 4
	case FormatFloat64LE, FormatFloat64BE:
		return 8
	}
	return 0
}

// String returns a short name like "float32 LE".
func (f Format) String() string {
	switch f {
	case FormatS8:
		return "signed 8-bit"
	case FormatU8:
		return "unsigned 8-bit"
	case FormatS16LE:
		return "signed 16-bit LE"
	case FormatS16BE:
		return "signed 16-bit BE"
	case FormatU16LE:
		return "unsigned 16-bit LE"
	case FormatU16BE:
		return "unsigned 16-bit BE"
	case FormatS24LE:
		return "signed 24-bit LE"
	case FormatS24BE:
		return "signed 24-bit BE"
	case FormatU24LE:
		return "unsigned 24-bit LE"
	case FormatU24BE:
		return "unsigned 24-bit BE"
	case FormatS32LE:
		return "signed 32-bit LE"
	case FormatS32BE:
		return "signed 32-bit BE"
	case FormatU32LE:
		return "unsigned 32-bit LE"
	case FormatU32BE:
		return "unsigned 32-bit BE"
	case FormatFloat32LE:
		return "float 32-bit LE"
	case FormatFloat32BE:
		return "float 32-bit BE"
	case FormatFloat64LE:
		return "float 64-bit LE"
	case FormatFloat64BE:
		return "float 64-bit BE"
	}
	return "(invalid sample format)"
}
