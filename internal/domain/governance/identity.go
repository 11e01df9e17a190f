package governance

import "strings"

// Address is the content-derived identifier of a stored record.
type Address string

func (a Address) String() string { return string(a) }

func (a Address) IsZero() bool { return strings.TrimSpace(string(a)) == "" }

// AddressPtr returns a pointer to a copy of a.
func AddressPtr(a Address) *Address { return &a }

// Identity is the actor a write is attributed to.
type Identity string

func (i Identity) String() string { return string(i) }

// Sources is the identity set a write is attributed to. It is supplied by the
// host per write; order is kept only so Primary is stable.
type Sources struct {
	ids []Identity
}

func NewSources(ids ...Identity) Sources {
	out := Sources{}
	seen := make(map[Identity]struct{}, len(ids))
	for _, id := range ids {
		id = Identity(strings.TrimSpace(string(id)))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out.ids = append(out.ids, id)
	}
	return out
}

func (s Sources) Contains(id Identity) bool {
	if id == "" {
		return false
	}
	for _, have := range s.ids {
		if have == id {
			return true
		}
	}
	return false
}

// Primary is the identity new records are authored by.
func (s Sources) Primary() Identity {
	if len(s.ids) == 0 {
		return ""
	}
	return s.ids[0]
}

func (s Sources) Empty() bool { return len(s.ids) == 0 }

func (s Sources) Len() int { return len(s.ids) }
