package sqlvalue

// Reserved type names. A source emitting one of these as the name of a
// newtype, struct, variant or tuple variant asks the converter to rebuild
// the matching domain case instead of a generic object.
const (
	TokenValue      = "$sqlvalue::Value"
	TokenNumber     = "$sqlvalue::Number"
	TokenStrand     = "$sqlvalue::Strand"
	TokenBytes      = "$sqlvalue::Bytes"
	TokenDuration   = "$sqlvalue::Duration"
	TokenDatetime   = "$sqlvalue::Datetime"
	TokenUuid       = "$sqlvalue::Uuid"
	TokenParam      = "$sqlvalue::Param"
	TokenTable      = "$sqlvalue::Table"
	TokenRegex      = "$sqlvalue::Regex"
	TokenArray      = "$sqlvalue::Array"
	TokenObject     = "$sqlvalue::Object"
	TokenThing      = "$sqlvalue::Thing"
	TokenId         = "$sqlvalue::Id"
	TokenRange      = "$sqlvalue::Range"
	TokenBound      = "$sqlvalue::Bound"
	TokenEdges      = "$sqlvalue::Edges"
	TokenDir        = "$sqlvalue::Dir"
	TokenExpression = "$sqlvalue::Expression"
	TokenOperator   = "$sqlvalue::Operator"
	TokenFunction   = "$sqlvalue::Function"
	TokenModel      = "$sqlvalue::Model"
	TokenGeometry   = "$sqlvalue::Geometry"
	TokenPolygon    = "$sqlvalue::Polygon"
	TokenSubquery   = "$sqlvalue::Subquery"
	TokenIfelse     = "$sqlvalue::Ifelse"
	TokenConstant   = "$sqlvalue::Constant"
	TokenBlock      = "$sqlvalue::Block"
	TokenFuture     = "$sqlvalue::Future"
	TokenEntry      = "$sqlvalue::Entry"
	TokenIdiom      = "$sqlvalue::Idiom"
	TokenPart       = "$sqlvalue::Part"
)
