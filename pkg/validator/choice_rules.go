package validator

import (
	"fmt"
)

func InList[T comparable](field string, value T, allowedValues []T) Rule {
	return Rule{
		Check: func() bool {
			for _, allowed := range allowedValues {
				if value == allowed {
					return true
				}
			}
			return false
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %v", allowedValues),
		},
	}
}

// EachInList validates that every element of a slice is a member of the
// allowed set.
func EachInList[T comparable](field string, values []T, allowedValues []T) Rule {
	allowed := make(map[T]bool, len(allowedValues))
	for _, a := range allowedValues {
		allowed[a] = true
	}
	return Rule{
		Check: func() bool {
			for _, v := range values {
				if !allowed[v] {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("every value must be one of: %v", allowedValues),
		},
	}
}
