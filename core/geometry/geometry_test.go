package geometry

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Point
		want float64
	}{
		{Point{0, 0}, Point{3, 4}, 5},
		{Point{1, 1}, Point{1, 1}, 0},
		{Point{-2, 0}, Point{2, 0}, 4},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Distance(%v,%v)=%v want %v", c.a, c.b, got, c.want)
		}
		if Distance(c.a, c.b) != Distance(c.b, c.a) {
			t.Errorf("distance not symmetric for %v %v", c.a, c.b)
		}
	}
}

func TestWithin(t *testing.T) {
	if !(Point{0, 10}).Within(10) {
		t.Fatalf("boundary point should be within")
	}
	if (Point{10.01, 5}).Within(10) {
		t.Fatalf("point outside reported within")
	}
	if (Point{-0.1, 5}).Within(10) {
		t.Fatalf("negative coordinate reported within")
	}
}
