package mappers

import "fmt"

// UnsupportedMapperError reports an iNES mapper id this module has no
// implementation for.
type UnsupportedMapperError struct {
	ID uint16
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported mapper id %d", e.ID)
}
