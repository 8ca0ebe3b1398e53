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
	"math"

	"github.com/pkg/errors"
)

// Transformer - converts positions from one CRS to another. Bound to its
// (from, to) pair at construction and validated there; immutable afterwards,
// so a single Transformer can convert any number of points repeatably.
//
// NOTE: WGS84 and ETRS89 are treated as coincident datums. Their divergence
// (currently under a metre, from plate drift) is below the accuracy class of
// RTK drone surveys, and matching the receiver vendor's own convention.
type Transformer struct {
	from CRS
	to   CRS
	tm   transverseMercator
}

// NewTransformer - builds a Transformer for the given EPSG pair. Fails unless
// the source is geographic, the destination is projected and the codes differ.
// These are configuration errors: no partially-working transformer is ever
// returned.
func NewTransformer(epsgFrom int, epsgTo int) (*Transformer, error) {
	if epsgFrom == epsgTo {
		return nil, errors.Errorf("source and destination EPSG codes must differ, got %v for both", epsgFrom)
	}

	from, err := FromEPSG(epsgFrom)
	if err != nil {
		return nil, errors.Wrap(err, "source CRS")
	}

	to, err := FromEPSG(epsgTo)
	if err != nil {
		return nil, errors.Wrap(err, "destination CRS")
	}

	if !from.IsGeographic() {
		return nil, errors.Errorf("source CRS must be geographic, %v is not", from)
	}
	if !to.IsProjected() {
		return nil, errors.Errorf("destination CRS must be projected, %v is not", to)
	}

	return &Transformer{
		from: from,
		to:   to,
		tm:   newTransverseMercator(to.Ellipsoid, to.UTMZone, to.Northern),
	}, nil
}

func (t *Transformer) From() CRS {
	return t.from
}

func (t *Transformer) To() CRS {
	return t.to
}

// Transform - projects a geographic (lat, lon) in degrees to grid (E, N) in
// metres. Fails for non-finite input or latitudes outside the transverse
// Mercator domain.
func (t *Transformer) Transform(lat float64, lon float64) (float64, float64, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return 0, 0, errors.Errorf("cannot transform non-finite coordinate (%v, %v)", lat, lon)
	}
	if lat < -90 || lat > 90 {
		return 0, 0, errors.Errorf("latitude out of range: %v", lat)
	}

	e, n := t.tm.forward(lat*math.Pi/180.0, lon*math.Pi/180.0)
	return e, n, nil
}

// Transform3D - as Transform, but carries a height through. The height is NOT
// converted to the destination's vertical datum: it is returned unchanged as
// an ellipsoidal height. Downstream consumers depend on this, so any real
// vertical transformation has to be a separate, explicit step (see the geoid
// package).
func (t *Transformer) Transform3D(lat float64, lon float64, ellh float64) (float64, float64, float64, error) {
	e, n, err := t.Transform(lat, lon)
	return e, n, ellh, err
}
