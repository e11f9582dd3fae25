package rt

// Capability interfaces. A type may implement any subset of them instead of
// filling the matching Class slot; a populated slot takes precedence.

// Destroyer releases what an instance owns when its last reference goes.
type Destroyer interface {
	Destroy()
}

// Copier produces an independent duplicate with a retain count of 1.
type Copier interface {
	Copy() Instance
}

// MutableCopier produces an independent mutable duplicate with a retain
// count of 1.
type MutableCopier interface {
	MutableCopy() Instance
}

// Equaler reports value equality with another instance, which may belong
// to a different class.
type Equaler interface {
	Equal(other Instance) bool
}

// Hasher returns a hash consistent with Equal.
type Hasher interface {
	Hash() uint64
}

// Describer returns a human-readable rendering.
type Describer interface {
	Describe() string
}
