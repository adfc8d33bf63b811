// ABOUTME: Core output stream wrapper package
// ABOUTME: Safety layer between stream backends and application callbacks
// Package sio wraps an audio output stream handle with checked buffered
// writes and typed callback registration.
//
// A stream handle is produced by a backend (see pkg/backend) and wrapped
// with New. The application registers write, underflow, and error callbacks,
// opens and starts the stream, and pushes per-channel sample buffers from
// inside the write callback:
//
//	stream := sio.New(raw)
//	stream.RegisterWriteCallback(func(s *sio.OutStream, min, max int) {
//	    frames := fill(left, right, max)
//	    s.WriteStream(min, [][]float32{left[:frames], right[:frames]})
//	})
//	err := stream.Open()
//	err = stream.Start()
//
// All registration must happen before Start; the backend delivers callbacks
// from its own audio goroutines and the wrapper performs no locking between
// registration and delivery. Every fallible operation returns the backend's
// status code as an ordinary error value; the wrapper never retries and
// never treats a failure as fatal.
package sio
