// ABOUTME: Native error code enumeration
// ABOUTME: Flat status codes returned verbatim by stream backends
package sio

// Error is a native status code. Backends return it from every fallible
// call; ErrorNone means success. Error implements the error interface so
// wrapper operations can surface any non-None code directly.
type Error int

const (
	ErrorNone Error = iota
	ErrorNoMem
	ErrorInitAudioBackend
	ErrorSystemResources
	ErrorOpeningDevice
	ErrorNoSuchDevice
	ErrorInvalid
	ErrorBackendUnavailable
	ErrorStreaming
	ErrorIncompatibleDevice
	ErrorNoSuchClient
	ErrorIncompatibleBackend
	ErrorBackendDisconnected
	ErrorInterrupted
	ErrorUnderflow
	ErrorEncodingString
)

// Error returns the human-readable description of the status code.
func (e Error) Error() string {
	switch e {
	case ErrorNone:
		return "(no error)"
	case ErrorNoMem:
		return "out of memory"
	case ErrorInitAudioBackend:
		return "unable to initialize backend"
	case ErrorSystemResources:
		return "unable to acquire system resources"
	case ErrorOpeningDevice:
		return "unable to open device"
	case ErrorNoSuchDevice:
		return "no such device"
	case ErrorInvalid:
		return "invalid value"
	case ErrorBackendUnavailable:
		return "backend unavailable"
	case ErrorStreaming:
		return "stream error"
	case ErrorIncompatibleDevice:
		return "incompatible device"
	case ErrorNoSuchClient:
		return "no such client"
	case ErrorIncompatibleBackend:
		return "incompatible backend"
	case ErrorBackendDisconnected:
		return "backend disconnected"
	case ErrorInterrupted:
		return "interrupted"
	case ErrorUnderflow:
		return "buffer underflow"
	case ErrorEncodingString:
		return "invalid string encoding"
	}
	return "(unknown error)"
}

// orNil maps the native success sentinel to a nil error.
func orNil(e Error) error {
	if e == ErrorNone {
		return nil
	}
	return e
}
