package protect

import (
	"regexp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unifi-protect-cli/pkg/models"
)

func names(c *CameraCollection) []string {
	return MapCameras(c, (*Camera).Name)
}

func TestCollectionCount(t *testing.T) {
	assert.Equal(t, 17, testCameras(t).Len())
}

func TestMatchWithNoAttrs(t *testing.T) {
	cams := testCameras(t)

	m, err := cams.Match(nil)
	require.NoError(t, err)
	assert.Equal(t, cams.Len(), m.Len())
	assert.Equal(t, names(cams), names(m))
	assert.NotSame(t, cams, m)
}

func TestMatchByName(t *testing.T) {
	cams := testCameras(t)

	m, err := cams.Match(Attrs{"name": MustRe(`(?i)barn`)})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"Barn towards House", "Barn Interior"}, names(m))
}

func TestMatchChaining(t *testing.T) {
	cams := testCameras(t)

	barn, err := cams.Match(Attrs{"name": MustRe(`(?i)barn`)})
	require.NoError(t, err)
	m, err := barn.Match(Attrs{"name": MustRe(`(?i)house`)})
	require.NoError(t, err)

	assert.Equal(t, 1, m.Len())
	assert.Equal(t, "Barn towards House", m.At(0).Name())
	assert.Equal(t, 17, cams.Len(), "source collection is untouched")
}

func TestMatchIsOrAcrossAttrs(t *testing.T) {
	cams := testCameras(t)

	m, err := cams.Match(Attrs{
		"name":   Exact("Pool"),
		"isDark": Flag(true),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Barn Interior", "Pool", "Chicken Coop", "Pasture North"}, names(m))
}

func TestMatchSkipsMalformedCamera(t *testing.T) {
	cams := testCameras(t)
	loft := newCamera(nil, models.Record{"id": "bad", "name": "Loft", "lastMotion": "soon"})
	mixed := NewCameraCollection(append(cams.Cameras(), loft))
	attrs := Attrs{"lastMotion": MustRe(`^2020-09-1[34]`)}

	want, err := cams.Match(attrs)
	require.NoError(t, err)
	require.NotZero(t, want.Len())

	got, err := mixed.Match(attrs)
	require.NoError(t, err)
	assert.Equal(t, names(want), names(got))
}

func TestMatchUnknownField(t *testing.T) {
	cams := testCameras(t)

	_, err := cams.Match(Attrs{"noSuchField": Exact("x")})
	var fieldErr *FieldResolutionError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "noSuchField", fieldErr.Field)
}

func TestMatchPatternEquivalence(t *testing.T) {
	cams := testCameras(t)

	for _, expr := range []string{`(?i)house`, `^P`, `door$`, `\d`, `.`} {
		t.Run(expr, func(t *testing.T) {
			re := regexp.MustCompile(expr)

			m, err := cams.Match(Attrs{"name": Re(re)})
			require.NoError(t, err)

			want := []string{}
			for _, cam := range cams.All() {
				if re.MatchString(cam.Name()) {
					want = append(want, cam.Name())
				}
			}
			assert.Equal(t, want, names(m))
		})
	}
}

func TestMatchAlternativesIsUnion(t *testing.T) {
	cams := testCameras(t)
	m1 := MustRe(`(?i)barn`)
	m2 := Exact("Front Door")

	union, err := cams.Match(Attrs{"name": Any(m1, m2)})
	require.NoError(t, err)

	a, err := cams.Match(Attrs{"name": m1})
	require.NoError(t, err)
	b, err := cams.Match(Attrs{"name": m2})
	require.NoError(t, err)

	want := append(names(a), names(b)...)
	got := names(union)
	slices.Sort(want)
	slices.Sort(got)
	assert.Equal(t, want, got)
}

func TestMatchIsSubset(t *testing.T) {
	cams := testCameras(t)
	all := names(cams)

	m, err := cams.Match(Attrs{"type": MustRe(`G3`), "isRecording": Flag(false)})
	require.NoError(t, err)
	require.NotZero(t, m.Len())
	for _, n := range names(m) {
		assert.Contains(t, all, n)
	}
}

func TestFetch(t *testing.T) {
	cams := testCameras(t)

	cam, ok, err := cams.Fetch(Attrs{"name": Exact("Front Door")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Front Door", cam.Name())

	cam, ok, err = cams.Fetch(Attrs{"name": Exact("Moat")})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, cam)

	house, err := cams.Match(Attrs{"name": MustRe(`(?i)house`)})
	require.NoError(t, err)
	assert.Equal(t, 3, house.Len())

	first, ok, err := cams.Fetch(Attrs{"name": MustRe(`(?i)house`)})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, house.At(0), first)

	head, ok, err := cams.Fetch(nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, cams.At(0), head)
}

func TestFilter(t *testing.T) {
	cams := testCameras(t)

	tests := []struct {
		name  string
		value bool
		want  int
	}{
		{"adopted", true, 17},
		{"adopted", false, 0},
		{"connected", true, 15},
		{"connected", false, 2},
		{"attempting_to_connect", true, 2},
		{"recording", true, 14},
		{"dark", true, 3},
		{"motion_detected", true, 1},
		{"smart_detected", true, 3},
		{"provisioned", true, 1},
		{"rebooting", true, 0},
		{"deleting", false, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := cams.Filter(tt.name, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Len())
		})
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	dark, err := testCameras(t).Filter("dark", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Barn Interior", "Chicken Coop", "Pasture North"}, names(dark))
}

func TestFilterUnknownName(t *testing.T) {
	_, err := testCameras(t).Filter("sleeping", true)

	var filterErr *UnknownFilterError
	require.ErrorAs(t, err, &filterErr)
	assert.Equal(t, "sleeping", filterErr.Name)
}

func TestFilterEmptyCollection(t *testing.T) {
	empty := NewCameraCollection(nil)

	for _, name := range append(FilterNames(), "sleeping") {
		f, err := empty.Filter(name, true)
		require.NoError(t, err)
		assert.Zero(t, f.Len())
	}
}

func TestFilterNames(t *testing.T) {
	got := FilterNames()
	assert.Len(t, got, 15)
	assert.True(t, slices.IsSorted(got))

	field, ok := FilterField("motion_detected")
	assert.True(t, ok)
	assert.Equal(t, "isMotionDetected", field)
}

func TestSequenceOperations(t *testing.T) {
	cams := testCameras(t)

	var idx []int
	for i, cam := range cams.All() {
		idx = append(idx, i)
		assert.Same(t, cams.At(i), cam)
	}
	assert.Len(t, idx, 17)

	var sizes []int
	for chunk := range cams.Chunks(5) {
		sizes = append(sizes, len(chunk))
	}
	assert.Equal(t, []int{5, 5, 5, 2}, sizes)

	copied := cams.Cameras()
	copied[0] = nil
	assert.NotNil(t, cams.At(0))

	empty := NewCameraCollection(nil)
	_, ok := empty.First()
	assert.False(t, ok)
	_, ok = empty.Last()
	assert.False(t, ok)
}
