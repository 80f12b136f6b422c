package digipin

import (
	"math"

	"github.com/paulmach/orb/geo"
)

// WGS-84 ellipsoid.
const (
	wgs84A = 6378137.0
	wgs84F = 1 / 298.257223563
	wgs84B = (1 - wgs84F) * wgs84A
)

const (
	vincentyMaxIterations = 200
	vincentyTolerance     = 1e-12
)

// Distance returns the surface distance between a and b in kilometres,
// measured on the WGS-84 ellipsoid.
//
// The inverse Vincenty formula is used. For the rare nearly antipodal pairs
// where it does not converge, the spherical haversine distance is returned
// instead.
func Distance(a, b Coordinate) float64 {
	if m, ok := vincentyInverse(a, b); ok {
		return m / 1000
	}
	return geo.DistanceHaversine(a.Point(), b.Point()) / 1000
}

// vincentyInverse returns the ellipsoidal distance in metres and whether
// the iteration converged.
func vincentyInverse(p1, p2 Coordinate) (float64, bool) {
	L := toRadians(p2.Lon - p1.Lon)
	U1 := math.Atan((1 - wgs84F) * math.Tan(toRadians(p1.Lat)))
	U2 := math.Atan((1 - wgs84F) * math.Tan(toRadians(p2.Lat)))
	sinU1, cosU1 := math.Sincos(U1)
	sinU2, cosU2 := math.Sincos(U2)

	lambda := L
	var sinSigma, cosSigma, sigma, cos2Alpha, cos2SigmaM float64

	converged := false
	for i := 0; i < vincentyMaxIterations; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)

		t1 := cosU2 * sinLambda
		t2 := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSigma = math.Sqrt(t1*t1 + t2*t2)
		if sinSigma == 0 {
			return 0, true // coincident points
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cos2Alpha = 1 - sinAlpha*sinAlpha
		if cos2Alpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cos2Alpha
		} else {
			cos2SigmaM = 0 // equatorial line
		}

		C := wgs84F / 16 * cos2Alpha * (4 + wgs84F*(4-3*cos2Alpha))
		prev := lambda
		lambda = L + (1-C)*wgs84F*sinAlpha*
			(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-prev) < vincentyTolerance {
			converged = true
			break
		}
	}
	if !converged {
		return 0, false
	}

	uSq := cos2Alpha * (wgs84A*wgs84A - wgs84B*wgs84B) / (wgs84B * wgs84B)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	return wgs84B * A * (sigma - deltaSigma), true
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
