package catalog

import "helin/catalog/db_types"

type Column struct {
	Name   string
	TypeId db_types.TypeID

	// Offset is the columns offset in the tuple
	Offset uint16
}

// IsInlined returns true always for now
func (c *Column) IsInlined() bool {
	return true
}

// InlinedSize returns how many bytes this column occupies in a serialized row. Char columns are
// stored length-prefixed but are given a nominal nonzero width so fixed-offset schemas can still
// lay out a column after one; a char column is only correctly readable when it is the last column
// in its schema, same as before this method existed.
func (c *Column) InlinedSize() uint32 {
	switch c.TypeId.KindID {
	case 1: // integer
		return 4
	case 2: // char
		return 20
	case 3: // fixed length byte array
		return c.TypeId.Size
	case 4: // float64
		return 8
	case 5: // bool
		return 1
	default:
		return 0
	}
}

func NewColumn(name string, typeId db_types.TypeID) Column {
	return Column{Name: name, TypeId: typeId}
}
