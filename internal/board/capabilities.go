package board

// Capabilities is the feature set a dashboard instance exposes.
type Capabilities struct {
	Edit  bool
	Chart bool
}

// FullCapabilities enables every feature.
var FullCapabilities = Capabilities{Edit: true, Chart: true}

// ReadOnly reports whether mutations are disabled.
func (c Capabilities) ReadOnly() bool { return !c.Edit }
