package main

import (
	"os"

	manifestcmder "github.com/papercomputeco/manifest/cmd/manifest"
)

func main() {
	cmd := manifestcmder.NewManifestCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
