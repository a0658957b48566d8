package main

import (
	"flag"
	"log"

	"github.com/hellolucient/pixel-shuffle/internal/web"
)

func main() {
	addr := flag.String("addr", ":3000",
		"Address for the HTTP server to listen on")
	blockSize := flag.Int("block-size", web.DefaultBlockSize,
		"Default sampling block size for uploads")
	maxDim := flag.Int("max-dim", 0,
		"Cap uploaded images to this many pixels on the longer side (0 = off)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	srv := web.New(
		web.WithBlockSize(*blockSize),
		web.WithMaxDimension(*maxDim),
	)

	log.Printf("Pixel shuffle server listening on %s", *addr)
	log.Fatal(srv.Listen(*addr))
}
