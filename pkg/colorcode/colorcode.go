// Package colorcode assigns the display color shown next to a person in
// calendars and lists.
package colorcode

import (
	"fmt"
	"math/rand/v2"
)

// Random returns a "#rrggbb" color with every channel in 64-223.
func Random() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(), channel(), channel())
}

func channel() int {
	return 64 + rand.IntN(160)
}
