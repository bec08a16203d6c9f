package permission

// Mask64 is a set of up to 64 permissions.
type Mask64 uint64

// Of builds a mask holding perms.
func Of(perms ...Permission) Mask64 {
	var m Mask64
	for _, p := range perms {
		m.Set(p)
	}
	return m
}

func (m Mask64) Has(p Permission) bool {
	if !p.valid() {
		return false
	}
	return m&(1<<uint(p)) != 0
}

func (m *Mask64) Set(p Permission) {
	if !p.valid() {
		return
	}
	*m |= 1 << uint(p)
}

func (m *Mask64) Clear(p Permission) {
	if !p.valid() {
		return
	}
	*m &^= 1 << uint(p)
}

// Permissions lists the members of m in declaration order.
func (m Mask64) Permissions() []Permission {
	out := make([]Permission, 0, permissionCount)
	for p := Permission(0); p < permissionCount; p++ {
		if m.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

func (m Mask64) Raw() uint64 {
	return uint64(m)
}
