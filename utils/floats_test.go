package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestParseFloatList(t *testing.T) {
	vals, err := ParseFloatList("  0.1 -2  3e-3 ", 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, vals, test.ShouldResemble, []float64{0.1, -2, 0.003})

	vals, err = ParseFloatList("", 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, vals, test.ShouldHaveLength, 0)

	_, err = ParseFloatList("1 2", 3)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "expected 3")

	_, err = ParseFloatList("1 two 3", 3)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"two"`)
}

func TestFormatFloatRoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1, -0.5, math.Pi, 0.1625, 1e-9, 6.2831853} {
		back, err := ParseFloatList(FormatFloatList(f, f), 2)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, back[0], test.ShouldEqual, f)
		test.That(t, back[1], test.ShouldEqual, f)
	}
	test.That(t, FormatFloatList(1, 0.5, -3), test.ShouldEqual, "1 0.5 -3")
}

func TestMath(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90)
	test.That(t, IsFinite(1e308), test.ShouldBeTrue)
	test.That(t, IsFinite(math.NaN()), test.ShouldBeFalse)
	test.That(t, IsFinite(math.Inf(-1)), test.ShouldBeFalse)
	test.That(t, IsFinite(3), test.ShouldBeTrue)
}
