package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"math/rand/v2"
	"os"

	"github.com/setanarut/apng"

	pixelshuffle "github.com/hellolucient/pixel-shuffle"
	"github.com/hellolucient/pixel-shuffle/imageutil"
)

func main() {
	inputFile := flag.String("input", "",
		"Path to the input image file (required)")
	blockSize := flag.Int("block-size", 25,
		"Sampling block size in pixels")
	maxDim := flag.Int("max-dim", 0,
		"Cap the longer image side to this many pixels before sampling (0 = off)")
	seed := flag.Int64("seed", 0,
		"Random seed for reproducible shakes (0 = nondeterministic)")
	shakes := flag.Int("shakes", 0,
		"Number of shakes to apply before writing outputs")
	outputFile := flag.String("output", "",
		"Path to save the reconstructed frame (png, jpg, gif, bmp, webp)")
	jsonFile := flag.String("json", "",
		"Path to save the grid document as JSON")
	animateFile := flag.String("animate", "",
		"Path to save an animated PNG of successive shakes")
	frameCount := flag.Int("frames", 8,
		"Number of frames in the animated PNG")
	flag.Parse()

	if *inputFile == "" {
		fmt.Println("Please provide the image using the -input flag")
		flag.PrintDefaults()
		return
	}

	img, err := imageutil.LoadImage(*inputFile)
	if err != nil {
		fmt.Printf("Error loading image: %v\n", err)
		os.Exit(1)
	}

	grid, err := pixelshuffle.Sample(imageutil.CapDimensions(img, *maxDim), *blockSize)
	if err != nil {
		fmt.Printf("Error sampling image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Sampled %dx%d grid (%d colored cells) from %s\n",
		grid.Cols(), grid.Rows(), grid.Len(), *inputFile)

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(uint64(*seed), 0))
	}

	for i := 0; i < *shakes; i++ {
		grid, err = pixelshuffle.Shuffle(grid, rng)
		if err != nil {
			fmt.Printf("Error shaking grid: %v\n", err)
			os.Exit(1)
		}
	}
	if *shakes > 0 {
		fmt.Printf("Applied %d shakes\n", *shakes)
	}

	wroteArtifact := false

	if *jsonFile != "" {
		data, err := json.MarshalIndent(grid, "", "  ")
		if err != nil {
			fmt.Printf("Error encoding grid: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*jsonFile, data, 0644); err != nil {
			fmt.Printf("Error writing to file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Grid document written to %s\n", *jsonFile)
		wroteArtifact = true
	}

	if *outputFile != "" {
		if err := imageutil.SaveImage(pixelshuffle.Reconstruct(grid), *outputFile); err != nil {
			fmt.Printf("Error writing frame: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Frame written to %s\n", *outputFile)
		wroteArtifact = true
	}

	if *animateFile != "" {
		if *frameCount < 1 {
			fmt.Println("-frames must be at least 1")
			os.Exit(1)
		}
		frames := make([]image.Image, 0, *frameCount)
		current := grid
		for i := 0; i < *frameCount; i++ {
			current, err = pixelshuffle.Shuffle(current, rng)
			if err != nil {
				fmt.Printf("Error shaking grid: %v\n", err)
				os.Exit(1)
			}
			frames = append(frames, pixelshuffle.Reconstruct(current))
		}
		if err := apng.Save(*animateFile, frames, 6); err != nil {
			fmt.Printf("Error writing animation: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Animation written to %s (%d frames)\n", *animateFile, len(frames))
		wroteArtifact = true
	}

	// With no artifact flags the grid document goes to stdout, like
	// piping the analyzer output straight to a file.
	if !wroteArtifact {
		data, err := json.MarshalIndent(grid, "", "  ")
		if err != nil {
			fmt.Printf("Error encoding grid: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	}
}
