package member

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive     = "ACTIVE"
	StatusTerminated = "TERMINATED"
)

// Member maps to the member table: one row per person enrolled under a
// scheme. Dependants link to their principal through PrincipalID.
type Member struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	SchemeID     uuid.UUID  `db:"scheme_id" json:"scheme_id"`
	MemberNumber string     `db:"member_number" json:"member_number"`
	GivenName    string     `db:"given_name" json:"given_name"`
	FamilyName   string     `db:"family_name" json:"family_name"`
	IsPrincipal  bool       `db:"is_principal" json:"is_principal"`
	PrincipalID  *uuid.UUID `db:"principal_id" json:"principal_id,omitempty"`
	Status       string     `db:"status" json:"status"`
	EnrolledAt   time.Time  `db:"enrolled_at" json:"enrolled_at"`
	TerminatedAt *time.Time `db:"terminated_at" json:"terminated_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
