// Command huff compresses files into the .huff container format and back.
//
//	huff file...            compress each file to <file>.huff
//	huff -d file.huff...    decompress each file
//	huff -x fileA fileB     report whether two files hold identical bytes
//
// Decompressing a file without the .huff suffix asks for confirmation first,
// since feeding an arbitrary file to the decoder usually means a mixed-up
// argument; -f skips the prompt.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ovrld/huff"
	"github.com/ovrld/huff/internal/integrity"
)

const suffix = ".huff"

func main() {
	var (
		decompress = flag.Bool("d", false, "decompress instead of compress")
		compare    = flag.Bool("x", false, "compare two files for byte equality")
		output     = flag.String("o", "", "output path (single input only)")
		force      = flag.Bool("f", false, "skip the missing-suffix confirmation prompt")
		verbose    = flag.Bool("v", false, "log pipeline milestones")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	if *compare {
		runCompare(log)
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: huff [-d] [-f] [-o out] [-v] file...")
		os.Exit(2)
	}
	if *output != "" && flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "-o requires a single input file")
		os.Exit(2)
	}

	// The confirmation prompt reads stdin, so settle it before fanning out.
	if *decompress && !*force {
		for _, path := range flag.Args() {
			if !strings.HasSuffix(path, suffix) && !confirm(path) {
				log.Info().Str("file", path).Msg("cancelled")
				return
			}
		}
	}

	var g errgroup.Group
	for _, path := range flag.Args() {
		path := path
		g.Go(func() error {
			if *decompress {
				return decompressFile(log, path, *output)
			}
			return compressFile(log, path, *output)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("failed")
	}
}

func runCompare(log zerolog.Logger) {
	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: huff -x fileA fileB")
		os.Exit(2)
	}
	a, b := flag.Arg(0), flag.Arg(1)
	eq, err := integrity.Equal(a, b)
	if err != nil {
		log.Fatal().Err(err).Msg("compare failed")
	}
	if !eq {
		fmt.Println("files differ")
		os.Exit(1)
	}
	fp, err := integrity.Fingerprint(a)
	if err != nil {
		log.Fatal().Err(err).Msg("compare failed")
	}
	fmt.Printf("files are identical (blake2b %s)\n", fp)
}

func confirm(path string) bool {
	fmt.Printf("%s does not end in %s and may not be a compressed container.\n", path, suffix)
	fmt.Print("Decompressing an arbitrary file can produce garbage. Continue? [y/N] ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func compressFile(log zerolog.Logger, path, out string) error {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c, err := huff.Compress(data, huff.WithLogger(log))
	if err != nil {
		return fmt.Errorf("compress %s: %w", path, err)
	}
	if out == "" {
		out = path + suffix
	}
	if err := os.WriteFile(out, c, 0o644); err != nil {
		return err
	}
	log.Info().
		Str("file", path).
		Str("out", out).
		Int("original", len(data)).
		Int("compressed", len(c)).
		Float64("ratio", float64(len(c))/float64(len(data))).
		Dur("took", time.Since(start)).
		Msg("compressed")
	return nil
}

func decompressFile(log zerolog.Logger, path, out string) error {
	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	d, err := huff.Decompress(data, huff.WithLogger(log))
	if err != nil {
		return fmt.Errorf("decompress %s: %w", path, err)
	}
	if out == "" {
		out = strings.TrimSuffix(path, suffix)
		if out == path {
			out = path + ".out"
		}
	}
	if err := os.WriteFile(out, d, 0o644); err != nil {
		return err
	}
	log.Info().
		Str("file", path).
		Str("out", out).
		Int("size", len(d)).
		Dur("took", time.Since(start)).
		Msg("decompressed")
	return nil
}
