package colorspace

// matrix3 is a row-major 3x3 matrix.
type matrix3 [9]float64

func (m matrix3) apply(v [3]float64) [3]float64 {
	return [3]float64{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

// inverse computes the matrix inverse by cofactor expansion.
func (m matrix3) inverse() matrix3 {
	a := +(m[4]*m[8] - m[5]*m[7])
	b := -(m[3]*m[8] - m[5]*m[6])
	c := +(m[3]*m[7] - m[4]*m[6])

	d := -(m[1]*m[8] - m[2]*m[7])
	e := +(m[0]*m[8] - m[2]*m[6])
	f := -(m[0]*m[7] - m[1]*m[6])

	g := +(m[1]*m[5] - m[2]*m[4])
	h := -(m[0]*m[5] - m[2]*m[3])
	i := +(m[0]*m[4] - m[1]*m[3])

	det := m[0]*a + m[1]*b + m[2]*c

	return matrix3{
		a / det, d / det, g / det,
		b / det, e / det, h / det,
		c / det, f / det, i / det,
	}
}
