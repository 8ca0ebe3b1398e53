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

import "math"

// Transverse Mercator projection using the Karney/Krueger series, 3rd order
// in the third flattening n. Agrees with reference geodetic computations to
// well under a millimetre inside a UTM zone, which is far below the GNSS
// noise floor of the positions we project.

const (
	utmScaleFactor    = 0.9996
	utmFalseEasting   = 500000.0
	utmFalseNorthingS = 10000000.0
)

type transverseMercator struct {
	a     float64 // semi-major axis
	f     float64 // flattening
	e     float64 // first eccentricity
	aHat  float64 // rectifying radius * (1+n) term, Karney's A
	alpha [3]float64
	lon0  float64 // central meridian, radians
	k0    float64
	e0    float64 // false easting
	n0    float64 // false northing
}

func newTransverseMercator(ell Ellipsoid, zone int, northern bool) transverseMercator {
	f := 1.0 / ell.InvF
	n := f / (2.0 - f)

	tm := transverseMercator{
		a:    ell.A,
		f:    f,
		e:    math.Sqrt(f * (2.0 - f)),
		aHat: ell.A / (1.0 + n) * (1.0 + n*n/4.0 + n*n*n*n/64.0),
		lon0: float64(zone*6-183) * math.Pi / 180.0,
		k0:   utmScaleFactor,
		e0:   utmFalseEasting,
	}
	if !northern {
		tm.n0 = utmFalseNorthingS
	}

	tm.alpha[0] = n/2.0 - 2.0*n*n/3.0 + 5.0*n*n*n/16.0
	tm.alpha[1] = 13.0*n*n/48.0 - 3.0*n*n*n/5.0
	tm.alpha[2] = 61.0 * n * n * n / 240.0

	return tm
}

// forward - geographic (radians) to grid easting/northing (metres)
func (tm transverseMercator) forward(latRad, lonRad float64) (float64, float64) {
	dLon := normaliseLonDelta(lonRad - tm.lon0)

	// Conformal latitude
	sinLat := math.Sin(latRad)
	t := math.Sinh(math.Atanh(sinLat) - tm.e*math.Atanh(tm.e*sinLat))

	xiPrime := math.Atan2(t, math.Cos(dLon))
	etaPrime := math.Atanh(math.Sin(dLon) / math.Hypot(1.0, t))

	xi := xiPrime
	eta := etaPrime
	for j := 0; j < len(tm.alpha); j++ {
		k := 2.0 * float64(j+1)
		xi += tm.alpha[j] * math.Sin(k*xiPrime) * math.Cosh(k*etaPrime)
		eta += tm.alpha[j] * math.Cos(k*xiPrime) * math.Sinh(k*etaPrime)
	}

	easting := tm.e0 + tm.k0*tm.aHat*eta
	northing := tm.n0 + tm.k0*tm.aHat*xi
	return easting, northing
}

// normaliseLonDelta - wraps a longitude difference into (-pi, pi]
func normaliseLonDelta(d float64) float64 {
	for d > math.Pi {
		d -= 2.0 * math.Pi
	}
	for d <= -math.Pi {
		d += 2.0 * math.Pi
	}
	return d
}
