package convert

import (
	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// partSerializer accepts a TokenPart variant
type partSerializer struct {
	expecting[sqlvalue.Part]
}

var part = partSerializer{expecting[sqlvalue.Part]{what: "an idiom part"}}

func (s partSerializer) SerializeUnitVariant(name string, idx uint32, variant string) (sqlvalue.Part, error) {
	if name != sqlvalue.TokenPart {
		return s.expecting.SerializeUnitVariant(name, idx, variant)
	}
	k, _ := sqlvalue.PartKindOf(variant)
	switch k {
	case sqlvalue.PartAll, sqlvalue.PartLast, sqlvalue.PartFirst:
		if k.String() == variant {
			return sqlvalue.Part{Form: k}, nil
		}
	}
	return sqlvalue.Part{}, ser.Custom("unknown unit variant `Part::%s`", variant)
}

func (s partSerializer) SerializeNewtypeVariant(name string, idx uint32, variant string, v any) (sqlvalue.Part, error) {
	if name != sqlvalue.TokenPart {
		return s.expecting.SerializeNewtypeVariant(name, idx, variant, v)
	}
	k, ok := sqlvalue.PartKindOf(variant)
	if !ok {
		return sqlvalue.Part{}, ser.Custom("unknown variant `Part::%s`", variant)
	}
	switch k {
	case sqlvalue.PartField:
		field, err := ser.Serialize[string](v, text)
		if err != nil {
			return sqlvalue.Part{}, err
		}
		return sqlvalue.FieldPart(field), nil
	case sqlvalue.PartIndex:
		n, err := ser.Serialize[sqlvalue.Number](v, number)
		if err != nil {
			return sqlvalue.Part{}, err
		}
		return sqlvalue.IndexPart(n), nil
	case sqlvalue.PartWhere:
		cond, err := ToValue(v)
		if err != nil {
			return sqlvalue.Part{}, err
		}
		return sqlvalue.WherePart(cond), nil
	}
	return sqlvalue.Part{}, ser.Custom("unknown variant `Part::%s`", variant)
}

var parts = listOf[sqlvalue.Part]("idiom parts", part)
