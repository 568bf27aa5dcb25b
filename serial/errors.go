package serial

import "fmt"

// MarshalError represents an error during serialization.
type MarshalError struct {
	FieldPath string // Field path (e.g., "Category.Seller.TotalSells")
	Message   string
	Err       error
}

func (e *MarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("marshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("marshal error: %s", e.Message)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}
