package sketch

import "math"

// Vec3 is a plain 3-vector used for frame math.
type Vec3 [3]float64

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func (a Vec3) Dot(b Vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func (a Vec3) Length() float64 { return math.Sqrt(a.Dot(a)) }

func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return Vec3{a[0] / l, a[1] / l, a[2] / l}
}

// Quaternion is (w, x, y, z).
type Quaternion struct {
	W, X, Y, Z float64
}

// MakeQuaternion returns the unit quaternion whose rotation carries the x
// axis onto u and the y axis onto v. u and v should be orthogonal; they are
// normalized first.
func MakeQuaternion(u, v Vec3) Quaternion {
	u, v = u.Normalize(), v.Normalize()
	n := u.Cross(v)

	var q Quaternion
	if tr := 1 + u[0] + v[1] + n[2]; tr > 1e-4 {
		s := 2 * math.Sqrt(tr)
		q = Quaternion{
			W: s / 4,
			X: (v[2] - n[1]) / s,
			Y: (n[0] - u[2]) / s,
			Z: (u[1] - v[0]) / s,
		}
	} else if u[0] > v[1] && u[0] > n[2] {
		s := 2 * math.Sqrt(1+u[0]-v[1]-n[2])
		q = Quaternion{
			W: (v[2] - n[1]) / s,
			X: s / 4,
			Y: (u[1] + v[0]) / s,
			Z: (n[0] + u[2]) / s,
		}
	} else if v[1] > n[2] {
		s := 2 * math.Sqrt(1-u[0]+v[1]-n[2])
		q = Quaternion{
			W: (n[0] - u[2]) / s,
			X: (u[1] + v[0]) / s,
			Y: s / 4,
			Z: (v[2] + n[1]) / s,
		}
	} else {
		s := 2 * math.Sqrt(1-u[0]-v[1]+n[2])
		q = Quaternion{
			W: (u[1] - v[0]) / s,
			X: (n[0] + u[2]) / s,
			Y: (v[2] + n[1]) / s,
			Z: s / 4,
		}
	}
	return q.Normalize()
}

func (q Quaternion) Normalize() Quaternion {
	m := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if m == 0 {
		return q
	}
	return Quaternion{q.W / m, q.X / m, q.Y / m, q.Z / m}
}

// RotationU is the image of the x axis.
func (q Quaternion) RotationU() Vec3 {
	return Vec3{
		q.W*q.W + q.X*q.X - q.Y*q.Y - q.Z*q.Z,
		2 * (q.W*q.Z + q.X*q.Y),
		2 * (q.X*q.Z - q.W*q.Y),
	}
}

// RotationV is the image of the y axis.
func (q Quaternion) RotationV() Vec3 {
	return Vec3{
		2 * (q.X*q.Y - q.W*q.Z),
		q.W*q.W - q.X*q.X + q.Y*q.Y - q.Z*q.Z,
		2 * (q.W*q.X + q.Y*q.Z),
	}
}

// RotationN is the image of the z axis, the plane normal.
func (q Quaternion) RotationN() Vec3 {
	return Vec3{
		2 * (q.W*q.Y + q.X*q.Z),
		2 * (q.Y*q.Z - q.W*q.X),
		q.W*q.W - q.X*q.X - q.Y*q.Y + q.Z*q.Z,
	}
}
