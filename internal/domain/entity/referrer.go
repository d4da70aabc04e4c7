package entity

// ReferrerKind tipo de entidad que refirió a un inversionista.
type ReferrerKind string

const (
	ReferrerIntroducer        ReferrerKind = "introducer"
	ReferrerPartner           ReferrerKind = "partner"
	ReferrerCommercialPartner ReferrerKind = "commercial_partner"
)

// ReferrerKinds en orden estable.
var ReferrerKinds = []ReferrerKind{ReferrerIntroducer, ReferrerPartner, ReferrerCommercialPartner}

// Valid informa si el tipo es uno de los conocidos.
func (k ReferrerKind) Valid() bool {
	switch k {
	case ReferrerIntroducer, ReferrerPartner, ReferrerCommercialPartner:
		return true
	}
	return false
}

// RequiresAgreement: solo los introducers necesitan acuerdo firmado y vigente para cobrar.
func (k ReferrerKind) RequiresAgreement() bool { return k == ReferrerIntroducer }

// Referrer identifica a la entidad referente concreta.
type Referrer struct {
	Kind ReferrerKind
	ID   string
}
