package db_types

import (
	"helin/common"
)

type Value struct {
	typeID TypeID
	value  interface{}
}

func (v *Value) Less(than common.Key) bool {
	return v.LessThanValue(than.(*Value))
}

func (v *Value) LessThanValue(than *Value) bool {
	return GetInstance(v.GetTypeId()).Less(v, than)
}

func (v *Value) GetTypeId() TypeID {
	return v.typeID
}

func (v *Value) Serialize(dest []byte) {
	GetInstance(v.GetTypeId()).Serialize(dest, v)
}

func (v *Value) Size() int {
	return GetInstance(v.GetTypeId()).Length()
}

func Deserialize(typeID TypeID, src []byte) *Value {
	return GetInstance(typeID).Deserialize(src)
}

func (v *Value) GetAsInterface() interface{} {
	return v.value
}

// Add returns v + other, dispatched through v's own type's Add implementation.
func (v *Value) Add(other *Value) *Value {
	return GetInstance(v.GetTypeId()).Add(v, other)
}

func NewValue(src interface{}) *Value {
	var typeID TypeID
	switch src.(type) {
	case int32:
		typeID = IntegerTypeID
	case string:
		typeID = CharTypeID
	case []byte:
		typeID = TypeID{
			KindID: 3,
			Size:   uint32(len(src.([]byte))),
		}
	case float64:
		typeID = Float64TypeID
	case bool:
		// native Go bool is used for transient predicate-evaluation results only; it is never
		// serialized into a tuple, so it does not need to round-trip through GetInstance. KindID 6
		// keeps it distinct from BoolTypeID (5), which is the persisted, uint8-backed boolean column
		// type.
		typeID = TypeID{
			KindID: 6,
			Size:   1,
		}
	default:
		panic("not supported type")
	}

	return &Value{
		typeID: typeID,
		value:  src,
	}
}
