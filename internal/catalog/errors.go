package catalog

import "fmt"

// SchemaIntegrityError reports constraint metadata that cannot be trusted,
// such as a composite foreign key whose column count disagrees with the key
// it references. It aborts the extraction rather than silently mis-pairing
// columns.
type SchemaIntegrityError struct {
	Constraint string
	Table      TableRef
	Detail     string
}

func (e *SchemaIntegrityError) Error() string {
	return fmt.Sprintf("schema integrity violation on constraint %q (%s): %s", e.Constraint, e.Table, e.Detail)
}
