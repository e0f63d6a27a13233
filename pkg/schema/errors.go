package schema

import "fmt"

// MissingAttributeError reports an attribute that the schema does not
// declare for a class.
type MissingAttributeError struct {
	Class     string
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("schema: attribute %q not declared on %q", e.Attribute, e.Class)
}
