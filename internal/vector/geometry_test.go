/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestRectContainsAndIntersects(t *testing.T) {
	r := R(10, 10, 100, 50)
	if !r.Contains(Pt{10, 10}) || !r.Contains(Pt{110, 60}) {
		t.Fatalf("corner points should be contained")
	}
	if r.Contains(Pt{9.9, 10}) {
		t.Fatalf("outside point contained")
	}
	if !r.Intersects(R(100, 50, 50, 50)) {
		t.Fatalf("overlapping rects should intersect")
	}
	if !r.Intersects(R(110, 10, 10, 10)) {
		t.Fatalf("touching rects should intersect")
	}
	if r.Intersects(R(200, 200, 5, 5)) {
		t.Fatalf("distant rects should not intersect")
	}
}

func TestRectExpandOffsetUnion(t *testing.T) {
	r := R(10, 10, 20, 20)
	e := r.Expand(5)
	if e.X != 5 || e.Y != 5 || e.W != 30 || e.H != 30 {
		t.Fatalf("expand wrong: %+v", e)
	}
	o := r.Offset(3, -4)
	if o.X != 13 || o.Y != 6 || o.W != 20 || o.H != 20 {
		t.Fatalf("offset wrong: %+v", o)
	}
	u := r.Union(R(40, 0, 10, 10))
	if u.X != 10 || u.Y != 0 || u.W != 40 || u.H != 30 {
		t.Fatalf("union wrong: %+v", u)
	}
}

func TestAffineApplyAndInvert(t *testing.T) {
	m := Translate(10, 20).Mul(Scale(2, 2))
	p := m.Apply(Pt{3, 4})
	if p.X != 16 || p.Y != 28 {
		t.Fatalf("apply wrong: %+v", p)
	}
	q := m.Invert().Apply(p)
	if math.Abs(q.X-3) > 1e-9 || math.Abs(q.Y-4) > 1e-9 {
		t.Fatalf("invert round trip wrong: %+v", q)
	}
}

func TestApplyRectUnderRotation(t *testing.T) {
	r := R(0, 0, 10, 10)
	b := Rotate(math.Pi / 2).ApplyRect(r)
	// quarter turn maps the square into x in [-10,0], y in [0,10]
	if math.Abs(b.X+10) > 1e-9 || math.Abs(b.Y) > 1e-9 || math.Abs(b.W-10) > 1e-9 || math.Abs(b.H-10) > 1e-9 {
		t.Fatalf("rotated bounds wrong: %+v", b)
	}
}

func TestFloatRound(t *testing.T) {
	if got := FloatRound(1.23456, 3); got != 1.235 {
		t.Fatalf("FloatRound = %v", got)
	}
	if got := FloatRound(1.5, -1); got != 1.5 {
		t.Fatalf("negative places must be identity, got %v", got)
	}
}
