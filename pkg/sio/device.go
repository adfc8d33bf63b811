// ABOUTME: Device view over a raw device handle
// ABOUTME: Read-only identity plus shared reference counting
package sio

// Device is a view over the raw device a stream plays through. Devices are
// reference counted by the backend that owns them; a Device obtained from
// OutStream.Device holds one reference and must be released with Release
// when no longer needed.
type Device struct {
	raw RawDevice
}

// ID returns the backend's identifier for the device.
func (d *Device) ID() string {
	return d.raw.ID()
}

// Name returns the human-readable device name.
func (d *Device) Name() string {
	return d.raw.Name()
}

// Release drops the reference this view holds.
func (d *Device) Release() {
	d.raw.Unref()
}

// Raw returns the underlying device handle.
func (d *Device) Raw() RawDevice {
	return d.raw
}
