package domain

import (
	"github.com/google/uuid"

	dErrors "teampulse/pkg/domain-errors"
)

// Typed identifiers for the people referenced by the system.
//
// UserID is the authenticated principal (whoever holds the token). ManagerID
// and SubjectID are role-specific views of the same UUID space: a manager owns
// a team snapshot, a subject produces signal events. Keeping them distinct
// types prevents a subject reference from ever leaking into a snapshot field.
type (
	UserID    uuid.UUID
	ManagerID uuid.UUID
	SubjectID uuid.UUID
)

// NewManagerID returns a fresh random manager identifier.
func NewManagerID() ManagerID { return ManagerID(uuid.New()) }

// NewSubjectID returns a fresh random subject identifier.
func NewSubjectID() SubjectID { return SubjectID(uuid.New()) }

// ParseUserID validates and returns a UserID.
// IDs must be valid, non-empty, non-nil UUIDs.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_id")
	return UserID(u), err
}

// ParseManagerID validates and returns a ManagerID.
func ParseManagerID(s string) (ManagerID, error) {
	u, err := parseUUID(s, "manager_id")
	return ManagerID(u), err
}

// ParseSubjectID validates and returns a SubjectID.
func ParseSubjectID(s string) (SubjectID, error) {
	u, err := parseUUID(s, "subject_id")
	return SubjectID(u), err
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be the nil UUID")
	}
	return u, nil
}

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id ManagerID) String() string { return uuid.UUID(id).String() }
func (id SubjectID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ManagerID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id SubjectID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Text marshalling so IDs read and write as canonical UUID strings in JSON.

func (id UserID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id ManagerID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id SubjectID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ManagerID) UnmarshalText(b []byte) error {
	parsed, err := ParseManagerID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *SubjectID) UnmarshalText(b []byte) error {
	parsed, err := ParseSubjectID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
