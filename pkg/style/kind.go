package style

import "strings"

// Kind selects the native control an element becomes.
type Kind int

const (
	Generic Kind = iota
	Text
	Edit
	Button
	ListBox
	ComboBox
	CheckBox
	// ClassOnly elements take part in layout but are never materialised.
	ClassOnly
)

// Capabilities describes what a kind of control supports.
type Capabilities struct {
	Label  bool // shows the label property
	Value  bool // holds a user-editable value
	Focus  bool // accepts keyboard focus
	Native bool // materialised by the windowing host
}

var capabilities = [...]Capabilities{
	Generic:   {Label: true, Native: true},
	Text:      {Label: true, Native: true},
	Edit:      {Value: true, Focus: true, Native: true},
	Button:    {Label: true, Focus: true, Native: true},
	ListBox:   {Value: true, Focus: true, Native: true},
	ComboBox:  {Value: true, Focus: true, Native: true},
	CheckBox:  {Label: true, Value: true, Focus: true, Native: true},
	ClassOnly: {},
}

// Caps returns the capability row for k.
func (k Kind) Caps() Capabilities {
	if k < 0 || int(k) >= len(capabilities) {
		return Capabilities{}
	}
	return capabilities[k]
}

var kindNames = [...]string{
	Generic:   "generic",
	Text:      "text",
	Edit:      "edit",
	Button:    "button",
	ListBox:   "listbox",
	ComboBox:  "combobox",
	CheckBox:  "checkbox",
	ClassOnly: "class",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind converts a type keyword to a Kind.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return Generic, false
}
