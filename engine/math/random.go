package math

import (
	"time"

	"golang.org/x/exp/rand"
)

var randSeeded bool

func seed() {
	if !randSeeded {
		rand.Seed(uint64(time.Now().UnixNano()))
		randSeeded = true
	}
}

func Random() int32 {
	seed()
	return rand.Int31()
}

func RandomInRange(min, max int32) int32 {
	seed()
	return (rand.Int31() % (max - min + 1)) + min
}

func FRandom() float32 {
	seed()
	return rand.Float32()
}

func FRandomInRange(min, max float32) float32 {
	return min + FRandom()*(max-min)
}
