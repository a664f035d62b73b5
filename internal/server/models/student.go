package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/college/internal/common"
)

// Student is one record of the student collection. ID is chosen by the
// caller and is unique within the collection.
type Student struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Department string `json:"department"`
}

// Validate checks field constraints. Errors wrap common.ErrValidation.
func (s Student) Validate() error {
	switch {
	case s.ID <= 0:
		return fmt.Errorf("%w: id must be positive", common.ErrValidation)
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("%w: name is required", common.ErrValidation)
	case s.Age < 0:
		return fmt.Errorf("%w: age must not be negative", common.ErrValidation)
	case strings.TrimSpace(s.Department) == "":
		return fmt.Errorf("%w: department is required", common.ErrValidation)
	}
	return nil
}
