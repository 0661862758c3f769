// Package darwin provides macOS support. Input injection and input state
// polling use CoreGraphics through cgo; screenshots go through screencapture
// and window queries through System Events via osascript. Without cgo the
// package registers no backend.
package darwin
