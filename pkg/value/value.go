package value

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Index is the ordered set of labels a series is aligned to, e.g. timestamps
// in milliseconds or plain positions.
type Index []cty.Value

// RangeIndex returns the positional index 0..n-1.
func RangeIndex(n int) Index {
	idx := make(Index, n)
	for i := range idx {
		idx[i] = cty.NumberIntVal(int64(i))
	}
	return idx
}

// Equal reports whether both indexes hold the same labels in the same order.
func (i Index) Equal(other Index) bool {
	if len(i) != len(other) {
		return false
	}
	for n := range i {
		if !Equals(i[n], other[n]) {
			return false
		}
	}
	return true
}

func (i Index) String() string {
	parts := make([]string, len(i))
	for n, label := range i {
		parts[n] = Format(label)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Value is a resolved scalar or a series. The zero Value is a null scalar.
type Value struct {
	scalar cty.Value
	index  Index
	points []cty.Value
	series bool
}

// Scalar wraps a single cty.Value.
func Scalar(v cty.Value) Value {
	return Value{scalar: v}
}

// NewSeries builds a series from an index and one point per label.
func NewSeries(index Index, points []cty.Value) (Value, error) {
	if len(index) != len(points) {
		return Value{}, fmt.Errorf("series has %d points for an index of %d labels", len(points), len(index))
	}
	return Value{index: index, points: points, series: true}, nil
}

// Broadcast repeats a scalar across index. Series are returned unchanged.
func Broadcast(v Value, index Index) Value {
	if v.series {
		return v
	}
	points := make([]cty.Value, len(index))
	for i := range points {
		points[i] = v.Scalar()
	}
	return Value{index: index, points: points, series: true}
}

// IsSeries reports whether v is aligned to an index.
func (v Value) IsSeries() bool { return v.series }

// Scalar returns the scalar value, or cty.NilVal's null equivalent for a
// zero Value. It must not be called on a series.
func (v Value) Scalar() cty.Value {
	if v.scalar == cty.NilVal {
		return cty.NullVal(cty.DynamicPseudoType)
	}
	return v.scalar
}

// Index returns the index of a series, nil for scalars.
func (v Value) Index() Index { return v.index }

// Points returns the points of a series, nil for scalars.
func (v Value) Points() []cty.Value { return v.points }

// Len returns the number of points in a series, or 1 for a scalar.
func (v Value) Len() int {
	if v.series {
		return len(v.points)
	}
	return 1
}

// At returns the point at position i. Scalars return themselves for any i.
func (v Value) At(i int) cty.Value {
	if v.series {
		return v.points[i]
	}
	return v.Scalar()
}

// Last returns the final point of a series or the scalar itself. ok is false
// for an empty series.
func (v Value) Last() (cty.Value, bool) {
	if !v.series {
		return v.Scalar(), true
	}
	if len(v.points) == 0 {
		return cty.NilVal, false
	}
	return v.points[len(v.points)-1], true
}

// Equal reports whether two values have the same shape, index and points.
func (v Value) Equal(other Value) bool {
	if v.series != other.series {
		return false
	}
	if !v.series {
		return Equals(v.Scalar(), other.Scalar())
	}
	if !v.index.Equal(other.index) || len(v.points) != len(other.points) {
		return false
	}
	for i := range v.points {
		if !Equals(v.points[i], other.points[i]) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	if !v.series {
		return Format(v.Scalar())
	}
	parts := make([]string, len(v.points))
	for i, p := range v.points {
		parts[i] = Format(p)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Equals compares two cty values, treating nulls as equal to each other and
// values of different types as different.
func Equals(a, b cty.Value) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	if !a.IsKnown() || !b.IsKnown() || !a.Type().Equals(b.Type()) {
		return false
	}
	eq := a.Equals(b)
	return eq.IsKnown() && eq.True()
}

// Format renders a cty value the way it would be written in a formula file.
func Format(v cty.Value) string {
	if v == cty.NilVal {
		return "null"
	}
	if !v.IsWhollyKnown() {
		return "(unknown)"
	}
	return string(hclwrite.TokensForValue(v).Bytes())
}
