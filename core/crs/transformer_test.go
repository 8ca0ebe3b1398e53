// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package crs

import (
	"fmt"
	"math"
	"testing"
)

// Reference values from independent geodetic computation (Karney's series,
// cross-checked against the published test point for Milan).
func TestTransformUTM32North(t *testing.T) {
	trans, err := NewTransformer(4326, 32632)
	if err != nil {
		t.Fatalf("NewTransformer failed: %v", err)
	}

	e, n, err := trans.Transform(45.463873, 9.190653)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if math.Abs(e-514904.631) > 0.001 {
		t.Errorf("easting: got %v, want 514904.631", e)
	}
	if math.Abs(n-5034500.589) > 0.001 {
		t.Errorf("northing: got %v, want 5034500.589", n)
	}
}

func TestTransformETRS89(t *testing.T) {
	trans, err := NewTransformer(4258, 25832)
	if err != nil {
		t.Fatalf("NewTransformer failed: %v", err)
	}

	e, n, err := trans.Transform(45.463873, 9.190653)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if math.Abs(e-514904.631) > 0.001 {
		t.Errorf("easting: got %v, want 514904.631", e)
	}
	if math.Abs(n-5034500.588) > 0.001 {
		t.Errorf("northing: got %v, want 5034500.588", n)
	}
}

func TestTransformSouthernHemisphere(t *testing.T) {
	trans, err := NewTransformer(4326, 32733)
	if err != nil {
		t.Fatalf("NewTransformer failed: %v", err)
	}

	e, n, err := trans.Transform(-22.57, 17.08)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	if math.Abs(e-713864.149) > 0.001 {
		t.Errorf("easting: got %v, want 713864.149", e)
	}
	if math.Abs(n-7502589.444) > 0.001 {
		t.Errorf("northing: got %v, want 7502589.444", n)
	}
}

// Same transformer, same input: bit-identical output. The projection has no
// hidden state so downstream position files are reproducible.
func TestTransformDeterministic(t *testing.T) {
	trans, err := NewTransformer(4326, 32632)
	if err != nil {
		t.Fatalf("NewTransformer failed: %v", err)
	}

	e1, n1, _ := trans.Transform(45.463873, 9.190653)
	e2, n2, _ := trans.Transform(45.463873, 9.190653)

	if e1 != e2 || n1 != n2 {
		t.Errorf("repeat transform differed: (%v,%v) vs (%v,%v)", e1, n1, e2, n2)
	}
}

func TestTransform3DHeightPassThrough(t *testing.T) {
	trans, err := NewTransformer(4326, 32632)
	if err != nil {
		t.Fatalf("NewTransformer failed: %v", err)
	}

	_, _, h, err := trans.Transform3D(45.463873, 9.190653, 131.45)
	if err != nil {
		t.Fatalf("Transform3D failed: %v", err)
	}
	if h != 131.45 {
		t.Errorf("height must pass through unchanged, got %v", h)
	}
}

func Example_newTransformerValidation() {
	_, err := NewTransformer(4326, 4326)
	fmt.Println(err)

	_, err = NewTransformer(32632, 4326)
	fmt.Println(err)

	_, err = NewTransformer(4326, 4258)
	fmt.Println(err)

	_, err = NewTransformer(4326, 99999)
	fmt.Println(err)

	// Output:
	// source and destination EPSG codes must differ, got 4326 for both
	// source CRS must be geographic, EPSG:32632 (WGS 84 / UTM zone 32N) is not
	// destination CRS must be projected, EPSG:4258 (ETRS89) is not
	// destination CRS: unsupported EPSG code: 99999
}

func Example_fromUTMZone() {
	c, _ := FromUTMZone("32N")
	fmt.Println(c)

	c, _ = FromUTMZone("17S")
	fmt.Println(c)

	_, err := FromUTMZone("99X")
	fmt.Println(err)

	// Output:
	// EPSG:32632 (WGS 84 / UTM zone 32N)
	// EPSG:32717 (WGS 84 / UTM zone 17S)
	// invalid UTM zone: 99X
}

func TestTransformBadInput(t *testing.T) {
	trans, err := NewTransformer(4326, 32632)
	if err != nil {
		t.Fatalf("NewTransformer failed: %v", err)
	}

	if _, _, err = trans.Transform(math.NaN(), 9.0); err == nil {
		t.Errorf("expected error for NaN latitude")
	}
	if _, _, err = trans.Transform(95.0, 9.0); err == nil {
		t.Errorf("expected error for out of range latitude")
	}
}
