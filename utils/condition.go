package utils

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ConditionNumber is the 2-norm condition number from the singular values.
// A singular matrix reports +Inf.
func ConditionNumber(A mat.Matrix) float64 {
	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDNone); !ok {
		return math.Inf(1)
	}
	s := svd.Values(nil)
	if len(s) == 0 || s[len(s)-1] == 0 {
		return math.Inf(1)
	}
	return s[0] / s[len(s)-1]
}
