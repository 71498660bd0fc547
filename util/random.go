package util

import "math/rand"

func RandWithProb(prob float64) bool {
	return rand.Float64() < prob
}
