package model

// FocusedApp describes the application owning the focused window.
type FocusedApp struct {
	Name  string `yaml:"name,omitempty"  json:"name,omitempty"`
	PID   int    `yaml:"pid,omitempty"   json:"pid,omitempty"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
}
