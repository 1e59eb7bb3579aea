package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"git.sr.ht/~whereswaldon/voicestats/backend"
	"git.sr.ht/~whereswaldon/voicestats/chart"
	"git.sr.ht/~whereswaldon/voicestats/l10n"
	"git.sr.ht/~whereswaldon/voicestats/logging"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: render a clip statistics chart
Usage:

 %[1]s -input stats.csv -width 600 > chart.svg

OR

 %[1]s -format png -output chart.png

Without -input the built in sample statistics are drawn.

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	inputName := flag.String("input", "", "CSV file of clip statistics (- for stdin)")
	outputName := flag.String("output", "-", "Output file for the rendered chart")
	format := flag.String("format", "svg", "Output format: svg, png or json")
	width := flag.Float64("width", 600, "Chart width")
	locale := flag.String("locale", "", "Locale used to format dates")
	minify := flag.Bool("minify", false, "Minify SVG output")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	log, err := logging.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	data := chart.DefaultDataset()
	if *inputName != "" {
		var input io.ReadCloser = os.Stdin
		if *inputName != "-" {
			f, err := os.Open(*inputName)
			if err != nil {
				log.WithError(err).Fatalf("failed opening input file %q", *inputName)
			}
			input = f
		}
		data, err = backend.ReadDataset(input)
		input.Close()
		if err != nil {
			if data.Len() == 0 {
				log.WithError(err).Fatal("failed reading dataset")
			}
			log.WithError(err).Warn("skipped malformed rows")
		}
	}

	var opts []chart.Option
	if *locale != "" {
		opts = append(opts, chart.WithDateFormatter(l10n.New(*locale).FormatDate))
	}
	scene := chart.Render(data, *width, opts...)

	var output io.WriteCloser
	if *outputName == "-" {
		output = os.Stdout
	} else {
		f, err := os.Create(*outputName)
		if err != nil {
			log.WithError(err).Fatalf("failed opening output file %q", *outputName)
		}
		output = f
	}

	switch strings.ToLower(*format) {
	case "svg":
		err = scene.EncodeSVG(output, chart.SVGOptions{Minify: *minify})
	case "png":
		err = scene.EncodePNG(output, chart.PNGOptions{})
	case "json":
		enc := json.NewEncoder(output)
		enc.SetIndent("", "  ")
		err = enc.Encode(scene)
	default:
		err = fmt.Errorf("unknown format %q", *format)
	}
	if closeErr := output.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		log.WithError(err).Fatal("failed rendering chart")
	}
}
