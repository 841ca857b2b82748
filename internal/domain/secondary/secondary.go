// Package secondary holds the derived KINs that sit beside the oracle: the
// year-independent PSI KIN of a birthday and the Goddess KIN of an oracle.
package secondary

import (
	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/model"
	"github.com/okian/tzolkin/internal/domain/oracle"
)

// PsiRow is one row of the PSI bank.
type PsiRow struct {
	Kin   int
	Label string
}

// PsiTable looks up the PSI bank by month and day.
type PsiTable interface {
	Psi(month, day int) (PsiRow, bool)
}

// Psi is the PSI KIN of a date together with the matrix label stored with it.
type Psi struct {
	Kin   kin.Kin `json:"kin"`
	Label string  `json:"label,omitempty"`
}

// LookupPsi returns the PSI KIN for d's month and day. The year is ignored.
// A missing row, or a row holding an out-of-range KIN, is no result.
func LookupPsi(table PsiTable, d model.Date) (Psi, bool) {
	if table == nil {
		return Psi{}, false
	}
	row, ok := table.Psi(d.Month, d.Day)
	if !ok || !kin.Kin(row.Kin).Valid() {
		return Psi{}, false
	}
	return Psi{Kin: kin.Kin(row.Kin), Label: row.Label}, true
}

// Goddess sums the five oracle KINs of k and reduces the total onto the cycle.
func Goddess(k kin.Kin) (kin.Kin, error) {
	members, err := oracle.ComputeKins(k)
	if err != nil {
		return 0, err
	}
	return kin.Wrap(members.Sum()), nil
}
