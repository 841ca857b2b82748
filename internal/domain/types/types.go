// Package types contains the aggregate records returned by the engine.
package types

import (
	"github.com/okian/tzolkin/internal/domain/castle"
	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/longcal"
	"github.com/okian/tzolkin/internal/domain/matrix"
	"github.com/okian/tzolkin/internal/domain/model"
	"github.com/okian/tzolkin/internal/domain/oracle"
	"github.com/okian/tzolkin/internal/domain/secondary"
	"github.com/okian/tzolkin/internal/domain/wavespell"
)

// Profile is everything the engine derives from one date.
type Profile struct {
	Date       model.Date               `json:"date"`
	Kin        kin.Resolution           `json:"kin"`
	Info       kin.Info                 `json:"info"`
	Oracle     oracle.Set               `json:"oracle"`
	OracleKins oracle.Kins              `json:"oracle_kins"`
	Wavespell  wavespell.Wavespell      `json:"wavespell"`
	Psi        *secondary.Psi           `json:"psi,omitempty"`
	Goddess    kin.Kin                  `json:"goddess"`
	LongDate   longcal.LongDate         `json:"long_date"`
	Readings   longcal.Readings         `json:"readings"`
	Equivalent *matrix.EquivalentResult `json:"equivalent,omitempty"`
	Matrix     matrix.Coordinates       `json:"matrix"`
	Castle     []castle.Entry           `json:"castle,omitempty"`
}

// Partial reports whether any table-backed part of the profile is missing
// or incomplete. Readings are texts and do not count.
func (p Profile) Partial() bool {
	if p.Kin.Source != kin.SourceTable || p.Psi == nil {
		return true
	}
	return p.Equivalent == nil || !p.Equivalent.Complete()
}
