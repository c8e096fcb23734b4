package deadline

import "github.com/tartampluch/go-plazos/internal/config"

// Proceeding identifies a type of filing with a statutory term.
type Proceeding string

const (
	FamilyClaim         Proceeding = "family_claim"
	CivilAppeal         Proceeding = "civil_appeal"
	Cassation           Proceeding = "cassation"
	CivilAnswer         Proceeding = "civil_answer"
	EffectivePossession Proceeding = "effective_possession"
	AlimonyEnforcement  Proceeding = "alimony_enforcement"
)

// Term is a catalog entry. Proceedings governed by practice rather than a
// codified count have no fixed term; use Days to tell them apart.
type Term struct {
	Proceeding  Proceeding
	Description string
	Mode        Mode
	days        int
	fixed       bool
}

// Days returns the statutory day count, or false when the law sets none.
func (t Term) Days() (int, bool) {
	return t.days, t.fixed
}

var terms = []Term{
	{Proceeding: FamilyClaim, Description: "Demanda de familia (art. 55 LPF)", Mode: Business, days: config.DefaultFamilyClaimDays, fixed: true},
	{Proceeding: CivilAppeal, Description: "Apelación en proceso civil", Mode: Business, days: 10, fixed: true},
	{Proceeding: Cassation, Description: "Recurso de casación", Mode: Business, days: 15, fixed: true},
	{Proceeding: CivilAnswer, Description: "Contestación de demanda civil", Mode: Business, days: 10, fixed: true},
	{Proceeding: EffectivePossession, Description: "Posesión efectiva (sin plazo legal, rige la práctica)"},
	{Proceeding: AlimonyEnforcement, Description: "Ejecución de pensión de alimentos (la deuda prescribe en 5 años)"},
}

// Terms lists the catalog in a stable order.
func Terms() []Term {
	out := make([]Term, len(terms))
	copy(out, terms)
	return out
}

// LookupTerm finds the catalog entry for p.
func LookupTerm(p Proceeding) (Term, bool) {
	for _, t := range terms {
		if t.Proceeding == p {
			return t, true
		}
	}
	return Term{}, false
}

// FamilyClaimTerm returns override when positive, else the statutory 30 days.
func FamilyClaimTerm(override int) int {
	if override > 0 {
		return override
	}
	return config.DefaultFamilyClaimDays
}
