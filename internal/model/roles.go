package model

import "strings"

// RoleMap maps macOS AXRole values to compact role codes.
var RoleMap = map[string]string{
	"AXApplication": "app",
	"AXButton":      "btn",
	"AXStaticText":  "txt",
	"AXLink":        "lnk",
	"AXImage":       "img",
	"AXTextField":   "input",
	"AXTextArea":    "input",
	"AXCheckBox":    "chk",
	"AXSwitch":      "toggle",
	"AXRadioButton": "radio",
	"AXMenu":        "menu",
	"AXMenuBar":     "menu",
	"AXMenuItem":    "menuitem",
	"AXTabGroup":    "tab",
	"AXList":        "list",
	"AXTable":       "list",
	"AXRow":         "row",
	"AXCell":        "cell",
	"AXGroup":       "group",
	"AXSplitGroup":  "group",
	"AXScrollArea":  "scroll",
	"AXToolbar":     "toolbar",
	"AXWebArea":     "web",
	"AXWindow":      "window",
}

// ATSPIRoleMap maps AT-SPI role names (as returned by GetRoleName) to the
// same compact codes.
var ATSPIRoleMap = map[string]string{
	"application":    "app",
	"desktop frame":  "desktop",
	"push button":    "btn",
	"toggle button":  "toggle",
	"label":          "txt",
	"static":         "txt",
	"link":           "lnk",
	"image":          "img",
	"icon":           "img",
	"text":           "input",
	"entry":          "input",
	"password text":  "input",
	"check box":      "chk",
	"radio button":   "radio",
	"menu":           "menu",
	"menu bar":       "menu",
	"menu item":      "menuitem",
	"page tab list":  "tab",
	"page tab":       "tab",
	"list":           "list",
	"list box":       "list",
	"table":          "list",
	"tree table":     "list",
	"table row":      "row",
	"list item":      "row",
	"table cell":     "cell",
	"panel":          "group",
	"filler":         "group",
	"section":        "group",
	"scroll pane":    "scroll",
	"tool bar":       "toolbar",
	"document web":   "web",
	"frame":          "window",
	"window":         "window",
	"dialog":         "window",
}

// MapRole converts a raw platform accessibility role to a compact code.
// AXRole values and AT-SPI role names are both recognized.
func MapRole(role string) string {
	if short, ok := RoleMap[role]; ok {
		return short
	}
	if short, ok := ATSPIRoleMap[strings.ToLower(strings.TrimSpace(role))]; ok {
		return short
	}
	return "other"
}
