// Package passphrase generates human-readable credentials handed to
// guests in onboarding email. They need to be easy to read over the
// phone, so no symbols and no ambiguous casing.
package passphrase

import (
	"math/rand"
	"strconv"
	"strings"
)

var words = []string{
	"apple", "banjo", "cactus", "dragon", "ember", "falcon", "glacier",
	"harbor", "island", "jungle", "kettle", "lantern", "meadow", "nectar",
	"orbit", "prairie", "quartz", "raven", "saddle", "timber", "umbrella",
	"violet", "walnut", "xylophone", "yonder", "zephyr", "anchor", "breeze",
	"canyon", "drift", "echo", "fossil", "grove", "horizon", "iris",
	"juniper", "kayak", "lagoon", "marble", "nimbus", "opal", "pebble",
	"quiver", "ripple", "summit", "thistle", "updraft", "vertex", "willow",
	"yarrow",
}

// New returns a fresh credential of two or three capitalized words,
// sometimes with a two digit number between them.
func New() string {
	var parts []string
	parts = append(parts, pick(), pick())

	switch rand.Intn(3) {
	case 0:
		parts = append(parts, strconv.Itoa(10+rand.Intn(90)))
	case 1:
		parts = append(parts, pick())
	}

	return strings.Join(parts, "")
}

func pick() string {
	w := words[rand.Intn(len(words))]
	return strings.ToUpper(w[:1]) + w[1:]
}
