//go:build tinygo && baremetal

package main

import (
	"voltscope/app"
	"voltscope/hal"
)

func main() {
	app.Run(hal.New())
}
