package domain

// ActionOwner identifies the target and configuration that created an action.
type ActionOwner struct {
	Label         InternedString
	Configuration string
}

// NewActionOwner creates an owner for the given target label and configuration checksum.
func NewActionOwner(label, configuration string) ActionOwner {
	return ActionOwner{Label: NewInternedString(label), Configuration: configuration}
}

// String renders the owner as "label (configuration)", omitting an empty configuration.
func (o ActionOwner) String() string {
	if o.Configuration == "" {
		return o.Label.String()
	}
	return o.Label.String() + " (" + o.Configuration + ")"
}
