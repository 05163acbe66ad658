package convert

import (
	"github.com/wbrown/janus-values/sqlvalue"
	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// pointSerializer accepts a sequence or tuple of exactly two coordinates
type pointSerializer struct {
	expecting[sqlvalue.Point]
}

var point = pointSerializer{expecting[sqlvalue.Point]{what: "a point"}}

func (pointSerializer) SerializeSeq(int) (ser.SeqSerializer[sqlvalue.Point], error) {
	return &pointBuilder{}, nil
}

func (pointSerializer) SerializeTuple(int) (ser.SeqSerializer[sqlvalue.Point], error) {
	return &pointBuilder{}, nil
}

func (p pointSerializer) SerializeNewtypeStruct(_ string, v any) (sqlvalue.Point, error) {
	return ser.Serialize[sqlvalue.Point](v, p)
}

type pointBuilder struct {
	xy [2]float64
	n  int
}

func (b *pointBuilder) SerializeElement(v any) error {
	if b.n >= 2 {
		return ser.Custom("a point has 2 coordinates, got more")
	}
	f, err := ser.Serialize[float64](v, float)
	if err != nil {
		return err
	}
	b.xy[b.n] = f
	b.n++
	return nil
}

func (b *pointBuilder) End() (sqlvalue.Point, error) {
	if b.n != 2 {
		return sqlvalue.Point{}, ser.Custom("a point has 2 coordinates, got %d", b.n)
	}
	return sqlvalue.Point{X: b.xy[0], Y: b.xy[1]}, nil
}

var (
	points = listOf[sqlvalue.Point]("a list of points", point)
	lines  = listOf[[]sqlvalue.Point]("a list of lines", points)
)

// polygonSerializer accepts a TokenPolygon struct
type polygonSerializer struct {
	expecting[sqlvalue.Polygon]
}

var polygon = polygonSerializer{expecting[sqlvalue.Polygon]{what: "a polygon"}}

func (p polygonSerializer) SerializeStruct(name string, n int) (ser.StructSerializer[sqlvalue.Polygon], error) {
	if name != sqlvalue.TokenPolygon {
		return p.expecting.SerializeStruct(name, n)
	}
	return &polygonFields{}, nil
}

var polygons = listOf[sqlvalue.Polygon]("a list of polygons", polygon)

// polygonFields accumulates the exterior ring and holes of a polygon
type polygonFields struct {
	out         sqlvalue.Polygon
	hasExterior bool
}

func (f *polygonFields) SerializeField(key string, v any) error {
	var err error
	switch key {
	case "exterior":
		f.out.Exterior, err = ser.Serialize[[]sqlvalue.Point](v, points)
		f.hasExterior = true
	case "interiors":
		f.out.Interiors, err = ser.Serialize[[][]sqlvalue.Point](v, lines)
	default:
		return ser.Custom("unexpected field `Polygon::%s`", key)
	}
	return ser.AtField(err, "Polygon", key)
}

func (f *polygonFields) End() (sqlvalue.Polygon, error) {
	if !f.hasExterior {
		return sqlvalue.Polygon{}, &ser.MissingFieldError{Type: "Polygon", Field: "exterior"}
	}
	if len(f.out.Interiors) == 0 {
		f.out.Interiors = nil
	}
	return f.out, nil
}

// geometrySerializer accepts a TokenGeometry variant
type geometrySerializer struct {
	expecting[sqlvalue.Geometry]
}

var geometry = geometrySerializer{expecting[sqlvalue.Geometry]{what: "a geometry"}}

func (g geometrySerializer) SerializeNewtypeVariant(name string, idx uint32, variant string, v any) (sqlvalue.Geometry, error) {
	if name != sqlvalue.TokenGeometry {
		return g.expecting.SerializeNewtypeVariant(name, idx, variant, v)
	}
	return geometryFromVariant(variant, v)
}

var geometries = listOf[sqlvalue.Geometry]("a list of geometries", geometry)

// geometryFromVariant rebuilds a shape from its coordinate payload
func geometryFromVariant(variant string, v any) (sqlvalue.Geometry, error) {
	t, ok := sqlvalue.GeometryTypeOf(variant)
	if !ok {
		return sqlvalue.Geometry{}, ser.Custom("unknown variant `Geometry::%s`", variant)
	}
	out := sqlvalue.Geometry{Type: t}
	var err error
	switch t {
	case sqlvalue.GeoPoint:
		out.Point, err = ser.Serialize[sqlvalue.Point](v, point)
	case sqlvalue.GeoLine:
		out.Line, err = ser.Serialize[[]sqlvalue.Point](v, points)
	case sqlvalue.GeoPolygon:
		out.Polygon, err = ser.Serialize[sqlvalue.Polygon](v, polygon)
	case sqlvalue.GeoMultiPoint:
		out.Points, err = ser.Serialize[[]sqlvalue.Point](v, points)
	case sqlvalue.GeoMultiLine:
		out.Lines, err = ser.Serialize[[][]sqlvalue.Point](v, lines)
	case sqlvalue.GeoMultiPolygon:
		out.Polygons, err = ser.Serialize[[]sqlvalue.Polygon](v, polygons)
	case sqlvalue.GeoCollection:
		out.Geometries, err = ser.Serialize[[]sqlvalue.Geometry](v, geometries)
	}
	if err != nil {
		return sqlvalue.Geometry{}, err
	}
	return out, nil
}
