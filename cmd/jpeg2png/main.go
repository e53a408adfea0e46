// Command jpeg2png reduces block artifacts in a baseline JPEG by
// recovering, per color plane, a spatial-domain image whose DCT
// coefficients re-quantize exactly to the ones stored in the file, and
// writes the result as a PNG.
package main

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/cocosip/jpeg2png/internal/deblock"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: jpeg2png in.jpg out.png")
		os.Exit(1)
	}
	inPath, outPath := os.Args[1], os.Args[2]

	data, err := os.ReadFile(inPath)
	if err != nil {
		die(err)
	}

	start := time.Now()
	rgb, objectives, err := deblock.Run(data)
	if err != nil {
		die(err)
	}
	fmt.Printf("compute: %s\n", time.Since(start))
	for _, o := range objectives {
		fmt.Printf("objective[%s] = %f\n", o.Name, o.Value)
	}

	out, err := os.Create(outPath)
	if err != nil {
		die(err)
	}
	defer out.Close()

	if err := png.Encode(out, rgb); err != nil {
		die(err)
	}
}

func die(err error) {
	fmt.Fprintf(os.Stderr, "jpeg2png: %v\n", err)
	os.Exit(1)
}
