package main

import (
	"fmt"
	"os"

	"github.com/joshuapare/romkit/rom/image"
)

// readImage loads the ROM at path into memory. Commands that only inspect
// use it so nothing can reach the file.
func readImage(path string) (*image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM: %w", err)
	}
	return image.FromBytes(data), nil
}
