package domain

// IdentityKind is the discriminator of the customer-of-record tagged union.
type IdentityKind string

const (
	IdentityIndividual IdentityKind = "individual"
	IdentityGroup      IdentityKind = "group"
)

// IdentityRef names exactly one customer of record: an individual user or a
// group. Authorization and display logic dispatch on the kind tag.
type IdentityRef struct {
	Kind IdentityKind
	ID   int64
}

// IsIndividual reports whether the customer is a single user.
func (r IdentityRef) IsIndividual() bool {
	return r.Kind == IdentityIndividual
}

// IsGroup reports whether the customer is a group.
func (r IdentityRef) IsGroup() bool {
	return r.Kind == IdentityGroup
}

// Valid reports whether the reference carries a known kind and a positive id.
func (r IdentityRef) Valid() bool {
	return (r.Kind == IdentityIndividual || r.Kind == IdentityGroup) && r.ID > 0
}
