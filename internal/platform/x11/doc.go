// Package x11 provides Linux support for X11 sessions. Input and window
// queries go through xdotool, screenshots through ImageMagick's import,
// input monitoring through xinput, and the accessibility tree through AT-SPI
// on the accessibility D-Bus.
package x11
