/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package textlayout

import "testing"

func TestBuiltinStyles(t *testing.T) {
	for _, name := range ListStyles() {
		st, ok := GetStyle(name)
		if !ok {
			t.Fatalf("builtin %q missing", name)
		}
		if st.Name != name || st.Font.SizePt <= 0 {
			t.Fatalf("builtin %q malformed: %+v", name, st)
		}
	}
	if _, ok := GetStyle("Nope"); ok {
		t.Fatalf("unknown style must not resolve")
	}
}

func TestResolvePrecedence(t *testing.T) {
	ss := NewStyleSheet().
		WithDocument(map[string]TextStyle{"Body": {Name: "Body", Font: FontSpec{SizePt: 13}}}).
		WithPage(map[string]TextStyle{"Body": {Name: "Body", Font: FontSpec{SizePt: 15}}})

	st, ok := ss.Resolve("Body")
	if !ok || st.Font.SizePt != 15 {
		t.Fatalf("page override should win, got %+v %v", st, ok)
	}

	docOnly := NewStyleSheet().WithDocument(map[string]TextStyle{"Body": {Name: "Body", Font: FontSpec{SizePt: 13}}})
	if st, _ := docOnly.Resolve("Body"); st.Font.SizePt != 13 {
		t.Fatalf("document override should beat global, got %+v", st)
	}

	if st, ok := NewStyleSheet().Resolve("Heading"); !ok || st.Font.Weight != 700 {
		t.Fatalf("global/builtin resolution failed: %+v %v", st, ok)
	}
}

func TestWithScopesDoNotMutateReceiver(t *testing.T) {
	base := NewStyleSheet()
	_ = base.WithPage(map[string]TextStyle{"Body": {Name: "Body", Font: FontSpec{SizePt: 99}}})
	if st, _ := base.Resolve("Body"); st.Font.SizePt == 99 {
		t.Fatalf("WithPage mutated the receiver")
	}
}

func TestNamesIncludesCustomStyles(t *testing.T) {
	ss := NewStyleSheet().WithDocument(map[string]TextStyle{
		"Exercise": {Name: "Exercise", Font: FontSpec{SizePt: 10}},
		"Answer":   {Name: "Answer", Font: FontSpec{SizePt: 10}},
	})
	names := ss.Names()
	if len(names) != 5 {
		t.Fatalf("names = %v", names)
	}
	// Builtins first in fixed order, extras sorted.
	want := []string{"Heading", "Body", "Caption", "Answer", "Exercise"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("names[%d] = %q, want %q (all: %v)", i, names[i], n, names)
		}
	}
}
