package sqlvalue

import (
	"strconv"
	"strings"

	"github.com/wbrown/janus-values/sqlvalue/ser"
)

// GeometryType selects the shape held by a Geometry
type GeometryType uint8

const (
	GeoPoint GeometryType = iota
	GeoLine
	GeoPolygon
	GeoMultiPoint
	GeoMultiLine
	GeoMultiPolygon
	GeoCollection
)

var geometryTypes = [...]struct {
	name    string
	geojson string
}{
	GeoPoint:        {"Point", "Point"},
	GeoLine:         {"Line", "LineString"},
	GeoPolygon:      {"Polygon", "Polygon"},
	GeoMultiPoint:   {"MultiPoint", "MultiPoint"},
	GeoMultiLine:    {"MultiLine", "MultiLineString"},
	GeoMultiPolygon: {"MultiPolygon", "MultiPolygon"},
	GeoCollection:   {"Collection", "GeometryCollection"},
}

func (t GeometryType) String() string { return geometryTypes[t].name }

// GeometryTypeOf looks up a shape by variant name
func GeometryTypeOf(name string) (GeometryType, bool) {
	for i, g := range geometryTypes {
		if g.name == name {
			return GeometryType(i), true
		}
	}
	return 0, false
}

// Point is a coordinate pair
type Point struct {
	X, Y float64
}

// Polygon is an exterior ring with optional holes
type Polygon struct {
	Exterior  []Point
	Interiors [][]Point
}

// Geometry is a GeoJSON-style shape. Only the field matching Type is used.
type Geometry struct {
	Type       GeometryType
	Point      Point
	Line       []Point
	Polygon    Polygon
	Points     []Point
	Lines      [][]Point
	Polygons   []Polygon
	Geometries []Geometry
}

func NewPoint(x, y float64) Geometry {
	return Geometry{Type: GeoPoint, Point: Point{X: x, Y: y}}
}

func NewLine(points ...Point) Geometry {
	return Geometry{Type: GeoLine, Line: points}
}

func NewPolygon(exterior []Point, interiors ...[]Point) Geometry {
	return Geometry{Type: GeoPolygon, Polygon: Polygon{Exterior: exterior, Interiors: interiors}}
}

func NewMultiPoint(points ...Point) Geometry {
	return Geometry{Type: GeoMultiPoint, Points: points}
}

func NewMultiLine(lines ...[]Point) Geometry {
	return Geometry{Type: GeoMultiLine, Lines: lines}
}

func NewMultiPolygon(polygons ...Polygon) Geometry {
	return Geometry{Type: GeoMultiPolygon, Polygons: polygons}
}

func NewCollection(geometries ...Geometry) Geometry {
	return Geometry{Type: GeoCollection, Geometries: geometries}
}

func (Geometry) Kind() Kind { return KindGeometry }
func (Geometry) isValue()   {}

func coords(points []Point) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, p := range points {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func rings(lines [][]Point) [][][2]float64 {
	out := make([][][2]float64, len(lines))
	for i, l := range lines {
		out[i] = coords(l)
	}
	return out
}

// polygonPayload emits a TokenPolygon struct {exterior, interiors}
type polygonPayload Polygon

func (p polygonPayload) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	st, err := s.SerializeStruct(TokenPolygon, 2)
	if err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("exterior", coords(p.Exterior)); err != nil {
		return ser.Ok{}, err
	}
	if err := st.SerializeField("interiors", rings(p.Interiors)); err != nil {
		return ser.Ok{}, err
	}
	return st.End()
}

// MarshalEvents emits a TokenGeometry newtype variant. Points are (x, y)
// tuples, lines and rings are sequences of points.
func (g Geometry) MarshalEvents(s ser.Serializer[ser.Ok]) (ser.Ok, error) {
	var payload any
	switch g.Type {
	case GeoPoint:
		payload = [2]float64{g.Point.X, g.Point.Y}
	case GeoLine:
		payload = coords(g.Line)
	case GeoPolygon:
		payload = polygonPayload(g.Polygon)
	case GeoMultiPoint:
		payload = coords(g.Points)
	case GeoMultiLine:
		payload = rings(g.Lines)
	case GeoMultiPolygon:
		polys := make([]any, len(g.Polygons))
		for i, p := range g.Polygons {
			polys[i] = polygonPayload(p)
		}
		payload = polys
	case GeoCollection:
		geoms := g.Geometries
		if geoms == nil {
			geoms = []Geometry{}
		}
		payload = geoms
	}
	return s.SerializeNewtypeVariant(TokenGeometry, uint32(g.Type), g.Type.String(), payload)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteByte('[')
	b.WriteString(formatFloat(p.X))
	b.WriteString(", ")
	b.WriteString(formatFloat(p.Y))
	b.WriteByte(']')
}

func writePoints(b *strings.Builder, points []Point) {
	b.WriteByte('[')
	for i, p := range points {
		if i > 0 {
			b.WriteString(", ")
		}
		writePoint(b, p)
	}
	b.WriteByte(']')
}

func writeRings(b *strings.Builder, lines [][]Point) {
	b.WriteByte('[')
	for i, l := range lines {
		if i > 0 {
			b.WriteString(", ")
		}
		writePoints(b, l)
	}
	b.WriteByte(']')
}

func writePolygon(b *strings.Builder, p Polygon) {
	writeRings(b, append([][]Point{p.Exterior}, p.Interiors...))
}

// String renders points as (x, y) and every other shape as a GeoJSON object
func (g Geometry) String() string {
	if g.Type == GeoPoint {
		return "(" + formatFloat(g.Point.X) + ", " + formatFloat(g.Point.Y) + ")"
	}
	var b strings.Builder
	b.WriteString("{ type: '")
	b.WriteString(geometryTypes[g.Type].geojson)
	b.WriteString("', ")
	if g.Type == GeoCollection {
		b.WriteString("geometries: [")
		for i, c := range g.Geometries {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(c.String())
		}
		b.WriteString("] }")
		return b.String()
	}
	b.WriteString("coordinates: ")
	switch g.Type {
	case GeoLine:
		writePoints(&b, g.Line)
	case GeoPolygon:
		writePolygon(&b, g.Polygon)
	case GeoMultiPoint:
		writePoints(&b, g.Points)
	case GeoMultiLine:
		writeRings(&b, g.Lines)
	case GeoMultiPolygon:
		b.WriteByte('[')
		for i, p := range g.Polygons {
			if i > 0 {
				b.WriteString(", ")
			}
			writePolygon(&b, p)
		}
		b.WriteByte(']')
	}
	b.WriteString(" }")
	return b.String()
}

func equalPoints(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalRings(a, b [][]Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalPoints(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalPolygons(a, b Polygon) bool {
	return equalPoints(a.Exterior, b.Exterior) && equalRings(a.Interiors, b.Interiors)
}

func equalGeometry(a, b Geometry) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case GeoPoint:
		return a.Point == b.Point
	case GeoLine:
		return equalPoints(a.Line, b.Line)
	case GeoPolygon:
		return equalPolygons(a.Polygon, b.Polygon)
	case GeoMultiPoint:
		return equalPoints(a.Points, b.Points)
	case GeoMultiLine:
		return equalRings(a.Lines, b.Lines)
	case GeoMultiPolygon:
		if len(a.Polygons) != len(b.Polygons) {
			return false
		}
		for i := range a.Polygons {
			if !equalPolygons(a.Polygons[i], b.Polygons[i]) {
				return false
			}
		}
		return true
	}
	if len(a.Geometries) != len(b.Geometries) {
		return false
	}
	for i := range a.Geometries {
		if !equalGeometry(a.Geometries[i], b.Geometries[i]) {
			return false
		}
	}
	return true
}
