// Command iiif runs IIIF Image API requests against the configured source
// and writes the resulting images.
//
//	iiif -config config.toml demo.jpg/full/max/0/default.jpg
//	iiif -info demo.jpg
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/greut/iiif-pipeline/config"
	"github.com/greut/iiif-pipeline/iiif"
	"github.com/greut/iiif-pipeline/source"
	"github.com/greut/iiif-pipeline/vips"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var configFile = flag.String("config", "", "Define the configuration file to use.")
	var output = flag.String("out", "", "Directory receiving the images, overrides the configuration.")
	var metricsFile = flag.String("metrics", "", "Write the metrics to this file, in the textfile collector format.")
	var check = flag.Bool("check", false, "Only validate the requests.")
	var info = flag.Bool("info", false, "Print the info.json of the given identifiers.")
	flag.Parse()

	runID := uuid.NewString()
	log.SetPrefix(fmt.Sprintf("[%s] ", runID[:8]))

	if *check {
		if !checkRequests(flag.Args()) {
			os.Exit(1)
		}
		return
	}

	if *configFile != "" {
		log.Printf("Reading configuration from %s", *configFile)
	}
	c, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *output != "" {
		c.Output = *output
	}

	ctx := context.Background()
	p, err := newPipeline(ctx, c)
	if err != nil {
		log.Fatal(err)
	}

	var reg *prometheus.Registry
	if *metricsFile != "" {
		reg = prometheus.NewRegistry()
		p.Metrics = iiif.NewMetrics(reg)
	}

	var ok bool
	if *info {
		ok = printInfos(ctx, p, c.BaseURI, flag.Args())
	} else {
		ok = processRequests(ctx, p, c.Output, flag.Args())
	}

	if reg != nil {
		if err := prometheus.WriteToTextfile(*metricsFile, reg); err != nil {
			log.Printf("Cannot write the metrics: %v", err)
			ok = false
		}
	}

	if !ok {
		os.Exit(1)
	}
}

func newPipeline(ctx context.Context, c *config.Config) (*iiif.Pipeline, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}

	storage, err := source.NewSourceFromConfig(ctx, c)
	if err != nil {
		return nil, err
	}

	native := iiif.NativeCodec{JPEGQuality: c.JPEGQuality}
	var codec iiif.Codec = native
	switch strings.ToLower(c.Codec) {
	case "", "native":
	case "vips":
		codec = vips.Codec{Native: native, Quality: c.JPEGQuality}
	default:
		return nil, fmt.Errorf("unknown codec %#v", c.Codec)
	}

	return &iiif.Pipeline{
		Storage: storage,
		Codec:   codec,
		Options: opts,
	}, nil
}

func checkRequests(args []string) bool {
	ok := true
	for _, arg := range args {
		req, err := iiif.ParseRequest(arg)
		if err != nil {
			log.Printf("%s: %v", arg, err)
			ok = false
			continue
		}
		fmt.Println(req)
	}
	return ok
}

func processRequests(ctx context.Context, p *iiif.Pipeline, dir string, args []string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Print(err)
		return false
	}

	ok := true
	for _, arg := range args {
		req, err := iiif.ParseRequest(arg)
		if err != nil {
			log.Printf("%s: %v", arg, err)
			ok = false
			continue
		}

		img, err := p.Process(ctx, req)
		if err != nil {
			log.Printf("%s: %v", req, err)
			ok = false
			continue
		}

		filename := filepath.Join(dir, req.Filename())
		if err := os.WriteFile(filename, img.Data, 0o644); err != nil {
			log.Print(err)
			ok = false
			continue
		}
		log.Printf("%s: %dx%d %s written to %s", req, img.Width, img.Height, img.ContentType, filename)
	}
	return ok
}

func printInfos(ctx context.Context, p *iiif.Pipeline, baseURI string, identifiers []string) bool {
	ok := true
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for _, identifier := range identifiers {
		id := strings.TrimSuffix(baseURI, "/") + "/" + url.PathEscape(identifier)
		info, err := p.Info(ctx, identifier, id)
		if err != nil {
			log.Printf("%s: %v", identifier, err)
			ok = false
			continue
		}
		if err := enc.Encode(info); err != nil {
			log.Print(err)
			ok = false
		}
	}
	return ok
}
