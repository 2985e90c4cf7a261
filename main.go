// Package main is the entry point for the blender-launch CLI application.
package main

import (
	"log"

	"github.com/sgtk-tools/blender-launch/cmd"
)

var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
