package models

import "fmt"

// ValidationError is raised synchronously when a row is about to be
// committed and violates one of the store's shape constraints.
type ValidationError int

const (
	IncorrectRecordType ValidationError = iota + 1
	NoManagedObjectContext
	NoDate
	InvalidPeriod
	InvalidEnumValue
	SingleEntryTypeViolation
)

func (e ValidationError) Error() string {
	switch e {
	case IncorrectRecordType:
		return "incorrect record type"
	case NoManagedObjectContext:
		return "no context"
	case NoDate:
		return "record requires a date"
	case InvalidPeriod:
		return "invalid period for record type"
	case InvalidEnumValue:
		return "invalid enum value"
	case SingleEntryTypeViolation:
		return "single entry type violation"
	default:
		return fmt.Sprintf("validation error %d", int(e))
	}
}
