package math

import "github.com/chewxy/math32"

const Pi = math32.Pi

func Deg2Rad(deg float32) float32 {
	return deg * Pi / 180
}

func Rad2Deg(rad float32) float32 {
	return rad * 180 / Pi
}

func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
