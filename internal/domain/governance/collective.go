package governance

// Collective is the root aggregate. AdminAddress is fixed at creation.
type Collective struct {
	Name         string   `json:"name"`
	AdminAddress *Address `json:"admin_address,omitempty"`
	// Generation is non-zero only for a collective created with the same
	// first-version content as an earlier one that has since been renamed.
	Generation int `json:"generation,omitempty"`
}

func (c Collective) HasAdmin() bool {
	return c.AdminAddress != nil && !c.AdminAddress.IsZero()
}

// SameAdmin reports whether both versions point at the same admin.
func (c Collective) SameAdmin(other Collective) bool {
	if !c.HasAdmin() || !other.HasAdmin() {
		return c.HasAdmin() == other.HasAdmin()
	}
	return *c.AdminAddress == *other.AdminAddress
}
