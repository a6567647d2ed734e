package session

// Capability names the driver interprets.
const (
	CapApp               = "app"
	CapPlatformName      = "platformName"
	CapAutomationName    = "automationName"
	CapCloseWindowOnQuit = "closeWindowOnQuit"
)

// Capabilities is a capability map as negotiated at session creation.
type Capabilities map[string]any

// Clone returns a shallow copy. Nested maps and slices are shared, which is
// fine because capabilities are never mutated after creation.
func (c Capabilities) Clone() Capabilities {
	out := make(Capabilities, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// String returns a string capability, or "" if absent or not a string.
func (c Capabilities) String(name string) string {
	s, _ := c[name].(string)
	return s
}

// Bool returns a boolean capability. The strings "true" and "1" count as
// true since some clients send every capability as a string.
func (c Capabilities) Bool(name string) bool {
	switch v := c[name].(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	default:
		return false
	}
}

// Merge layers capability maps left to right; later layers win. Nil
// layers are skipped. The result is always non-nil.
func Merge(layers ...Capabilities) Capabilities {
	out := Capabilities{}
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}
