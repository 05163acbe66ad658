package sqlvalue

// Kind identifies a case of the Value union. The order is the sort order
// used by Compare and the variant index used by AsVariant.
type Kind uint8

const (
	KindNone Kind = iota
	KindNull
	KindFalse
	KindTrue
	KindNumber
	KindStrand
	KindDuration
	KindDatetime
	KindUuid
	KindArray
	KindObject
	KindGeometry
	KindBytes
	KindParam
	KindIdiom
	KindTable
	KindThing
	KindModel
	KindRegex
	KindBlock
	KindRange
	KindEdges
	KindFuture
	KindConstant
	KindFunction
	KindSubquery
	KindExpression
)

var kindNames = [...]string{
	KindNone:       "None",
	KindNull:       "Null",
	KindFalse:      "False",
	KindTrue:       "True",
	KindNumber:     "Number",
	KindStrand:     "Strand",
	KindDuration:   "Duration",
	KindDatetime:   "Datetime",
	KindUuid:       "Uuid",
	KindArray:      "Array",
	KindObject:     "Object",
	KindGeometry:   "Geometry",
	KindBytes:      "Bytes",
	KindParam:      "Param",
	KindIdiom:      "Idiom",
	KindTable:      "Table",
	KindThing:      "Thing",
	KindModel:      "Model",
	KindRegex:      "Regex",
	KindBlock:      "Block",
	KindRange:      "Range",
	KindEdges:      "Edges",
	KindFuture:     "Future",
	KindConstant:   "Constant",
	KindFunction:   "Function",
	KindSubquery:   "Subquery",
	KindExpression: "Expression",
}

// String returns the case name
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// KindOf looks up a case by name
func KindOf(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}
