// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package vsm

import "math"

// Vector is a sparse weight vector over a fitted vocabulary. Indices
// are strictly increasing vocabulary positions; Values holds the
// matching non-negative weights.
type Vector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int {
	return len(v.Indices)
}

// IsZero reports whether every weight is zero.
func (v Vector) IsZero() bool {
	for _, value := range v.Values {
		if value != 0 {
			return false
		}
	}
	return true
}

// Dot returns the inner product of v and other.
func (v Vector) Dot(other Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(other.Indices) {
		switch {
		case v.Indices[i] == other.Indices[j]:
			sum += v.Values[i] * other.Values[j]
			i++
			j++
		case v.Indices[i] < other.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm2 returns the Euclidean length of v.
func (v Vector) Norm2() float64 {
	var sum float64
	for _, value := range v.Values {
		sum += value * value
	}
	return math.Sqrt(sum)
}

// Norm1 returns the sum of absolute weights.
func (v Vector) Norm1() float64 {
	var sum float64
	for _, value := range v.Values {
		sum += math.Abs(value)
	}
	return sum
}

// Weight returns the weight at vocabulary index, zero when absent.
func (v Vector) Weight(index int) float64 {
	low, high := 0, len(v.Indices)
	for low < high {
		middle := (low + high) / 2
		if v.Indices[middle] < index {
			low = middle + 1
		} else {
			high = middle
		}
	}
	if low < len(v.Indices) && v.Indices[low] == index {
		return v.Values[low]
	}
	return 0
}

func (v Vector) scale(factor float64) {
	for i := range v.Values {
		v.Values[i] *= factor
	}
}
