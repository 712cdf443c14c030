// gocube-vision - scan a Rubik's Cube from camera frames, solve it and guide
// the solution move by move.
package main

import (
	"github.com/SeamusWaldron/gocube_vision/internal/cli"
)

func main() {
	cli.Execute()
}
