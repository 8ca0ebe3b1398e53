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

// Coordinate reference systems resolved from EPSG codes, and transformation
// between a geographic CRS and a projected (UTM) one. This covers the systems
// survey flights actually use: WGS84/ETRS89 geographic coordinates out of the
// GNSS receiver, UTM grid coordinates for the photogrammetry software.
package crs

import "fmt"

// Kind - whether a CRS expresses positions as angles or as planar distances
type Kind int

const (
	// KindGeographic - latitude/longitude in degrees
	KindGeographic Kind = iota

	// KindProjected - easting/northing in metres
	KindProjected
)

// Ellipsoid - reference ellipsoid parameters (semi-major axis, inverse flattening)
type Ellipsoid struct {
	A    float64
	InvF float64
}

var (
	ellipsoidWGS84 = Ellipsoid{A: 6378137.0, InvF: 298.257223563}
	ellipsoidGRS80 = Ellipsoid{A: 6378137.0, InvF: 298.257222101}
)

// CRS - one coordinate reference system resolved from its EPSG code.
// Immutable value, construct through FromEPSG only.
type CRS struct {
	EPSG      int
	Name      string
	Kind      Kind
	Ellipsoid Ellipsoid

	// Only meaningful for projected systems
	UTMZone  int
	Northern bool
}

func (c CRS) IsGeographic() bool {
	return c.Kind == KindGeographic
}

func (c CRS) IsProjected() bool {
	return c.Kind == KindProjected
}

func (c CRS) String() string {
	return fmt.Sprintf("EPSG:%v (%v)", c.EPSG, c.Name)
}

// FromEPSG - resolves an EPSG code to a CRS. Codes outside the supported set
// fail: this is a configuration error the caller must surface, not coerce.
//
// Supported: 4326 (WGS84), 4258 (ETRS89), 32601-32660 (WGS84/UTM north),
// 32701-32760 (WGS84/UTM south), 25828-25838 (ETRS89/UTM north).
func FromEPSG(code int) (CRS, error) {
	switch {
	case code == 4326:
		return CRS{EPSG: code, Name: "WGS 84", Kind: KindGeographic, Ellipsoid: ellipsoidWGS84}, nil
	case code == 4258:
		return CRS{EPSG: code, Name: "ETRS89", Kind: KindGeographic, Ellipsoid: ellipsoidGRS80}, nil
	case code >= 32601 && code <= 32660:
		zone := code - 32600
		return CRS{
			EPSG:      code,
			Name:      fmt.Sprintf("WGS 84 / UTM zone %vN", zone),
			Kind:      KindProjected,
			Ellipsoid: ellipsoidWGS84,
			UTMZone:   zone,
			Northern:  true,
		}, nil
	case code >= 32701 && code <= 32760:
		zone := code - 32700
		return CRS{
			EPSG:      code,
			Name:      fmt.Sprintf("WGS 84 / UTM zone %vS", zone),
			Kind:      KindProjected,
			Ellipsoid: ellipsoidWGS84,
			UTMZone:   zone,
			Northern:  false,
		}, nil
	case code >= 25828 && code <= 25838:
		zone := code - 25800
		return CRS{
			EPSG:      code,
			Name:      fmt.Sprintf("ETRS89 / UTM zone %vN", zone),
			Kind:      KindProjected,
			Ellipsoid: ellipsoidGRS80,
			UTMZone:   zone,
			Northern:  true,
		}, nil
	}

	return CRS{}, fmt.Errorf("unsupported EPSG code: %v", code)
}

// FromUTMZone - resolves a zone string like "32N" or "17S" to the matching
// WGS84/UTM EPSG code. Used by report generation where operators configure a
// UTM zone rather than an EPSG code.
func FromUTMZone(zone string) (CRS, error) {
	if len(zone) < 2 || len(zone) > 3 {
		return CRS{}, fmt.Errorf("invalid UTM zone: %v", zone)
	}

	hemi := zone[len(zone)-1]
	num := 0
	_, err := fmt.Sscanf(zone[:len(zone)-1], "%d", &num)
	if err != nil || num < 1 || num > 60 {
		return CRS{}, fmt.Errorf("invalid UTM zone: %v", zone)
	}

	switch hemi {
	case 'N', 'n':
		return FromEPSG(32600 + num)
	case 'S', 's':
		return FromEPSG(32700 + num)
	}
	return CRS{}, fmt.Errorf("invalid UTM zone hemisphere: %v", zone)
}
