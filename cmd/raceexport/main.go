package main

import (
	"fmt"
	"image/png"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/DavidZechm/race-analyzer/src/analysis"
	"github.com/DavidZechm/race-analyzer/src/plot"
	"github.com/DavidZechm/race-analyzer/src/race"
	"github.com/DavidZechm/race-analyzer/src/writers"
)

const (
	inputFlag     = "input"
	modeFlag      = "mode"
	pngFlag       = "png"
	splitsFlag    = "splits"
	widthFlag     = "width"
	heightFlag    = "height"
	logLevelFlag  = "log-level"
	stdoutCLIName = "-"
)

var build string
var semanticVersion = "v0.1.0-dev" + build

// segmentTimes is the per-leg block of the YAML dump, empty strings for
// legs without a recorded time.
type segmentTimes struct {
	Swim string `yaml:"swim"`
	T1   string `yaml:"t1"`
	Bike string `yaml:"bike"`
	T2   string `yaml:"t2"`
	Run  string `yaml:"run"`
}

func segTimes(vals [race.SegmentCount]race.Seconds) segmentTimes {
	return segmentTimes{
		Swim: vals[race.Swim].String(),
		T1:   vals[race.T1].String(),
		Bike: vals[race.Bike].String(),
		T2:   vals[race.T2].String(),
		Run:  vals[race.Run].String(),
	}
}

type athleteDump struct {
	Name       string       `yaml:"name"`
	Position   int          `yaml:"position,omitempty"`
	Splits     segmentTimes `yaml:"splits"`
	Cumulative segmentTimes `yaml:"cumulative"`
	Total      string       `yaml:"total,omitempty"`
	// Values carries the derived metric (rank or gap) per segment in race
	// order, truncated at the first segment without a cumulative time.
	Values []float64 `yaml:"values"`
}

type splitsDump struct {
	Source   string        `yaml:"source"`
	Mode     string        `yaml:"mode"`
	Axis     string        `yaml:"axis"`
	Athletes []athleteDump `yaml:"athletes"`
}

// openInput returns a reader for a local path or an HTTP(S) URL, plus the
// name used for extension dispatch.
func openInput(location string) (io.ReadCloser, string, error) {
	if u, err := url.ParseRequestURI(location); err == nil && u.Scheme != "" {
		resp, err := http.Get(u.String())
		if err != nil {
			return nil, "", fmt.Errorf("fetch %s: %w", location, err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, "", fmt.Errorf("fetch %s: %s", location, resp.Status)
		}
		return resp.Body, u.Path, nil
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, "", err
	}
	return f, location, nil
}

func buildDump(source string, records []race.RaceRecord, view analysis.RaceView) splitsDump {
	byName := make(map[string]race.RaceRecord, len(records))
	for _, r := range records {
		byName[r.Name()] = r
	}
	dump := splitsDump{
		Source: source,
		Mode:   string(view.Mode),
		Axis:   view.Mode.AxisTitle(),
	}
	for _, a := range view.Athletes {
		rec := byName[a.Name]
		ad := athleteDump{
			Name:       a.Name,
			Position:   a.Position,
			Splits:     segTimes(rec.Splits),
			Cumulative: segTimes(rec.Cum),
			Total:      rec.Total.String(),
		}
		for i := 0; i < race.SegmentCount; i++ {
			if !a.Present[i] {
				break
			}
			ad.Values = append(ad.Values, a.Values[i])
		}
		dump.Athletes = append(dump.Athletes, ad)
	}
	return dump
}

func cliHandle(input, mode, pngPath, splitsPath string, width, height int) error {
	defer race.TimeTrack(time.Now(), "export")
	m, err := analysis.ParseMode(mode)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	rc, name, err := openInput(input)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer rc.Close()
	records, err := race.Parse(rc, name)
	if err != nil {
		return cli.Exit(fmt.Sprintf("parse %s: %v", input, err), 4)
	}
	race.Infof("parsed %d athletes from %s", len(records), input)
	view := analysis.ComputeView(records, m)

	if pngPath != "" {
		ch := plot.BuildSeries(view, "Visualizing: "+filepath.Base(name), "")
		img, err := plot.Render(ch, width, height)
		if err != nil {
			return cli.Exit(err.Error(), 3)
		}
		f, err := os.Create(pngPath)
		if err != nil {
			return cli.Exit(err.Error(), 3)
		}
		defer f.Close()
		if err := png.Encode(f, img); err != nil {
			return cli.Exit(fmt.Sprintf("encode %s: %v", pngPath, err), 3)
		}
		race.Infof("wrote chart to %s", pngPath)
	}

	if splitsPath != "" {
		var out io.WriteCloser = os.Stdout
		if splitsPath != stdoutCLIName {
			out = writers.NewLazyWriteCloser(func() (io.WriteCloser, error) {
				return os.OpenFile(splitsPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
			})
			defer out.Close()
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		dump := buildDump(filepath.Base(name), records, view)
		if err := enc.Encode(&dump); err != nil {
			return cli.Exit(fmt.Sprintf("encode to YAML failed: %v", err), 3)
		}
		if err := enc.Close(); err != nil {
			return cli.Exit(fmt.Sprintf("encode to YAML failed on close: %v", err), 3)
		}
	}
	return nil
}

func main() {
	var (
		input      string
		mode       string
		pngPath    string
		splitsPath string
		width      int
		height     int
		logLevel   string
	)
	app := &cli.App{
		Name:    "raceexport",
		Usage:   "Render a race progression chart and splits dump from a timing export",
		Version: semanticVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        inputFlag,
				Aliases:     []string{"i"},
				Usage:       "URL or path of the CSV/HTML timing export",
				Destination: &input,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        modeFlag,
				Aliases:     []string{"m"},
				Usage:       "Calculation mode: position or time_gap",
				Value:       string(analysis.ModePosition),
				Destination: &mode,
			},
			&cli.StringFlag{
				Name:        pngFlag,
				Usage:       "Write the rendered chart to this PNG file",
				Destination: &pngPath,
			},
			&cli.StringFlag{
				Name:        splitsFlag,
				Usage:       "Write the derived split table as YAML. Can be a file path or \"-\" (for stdout).",
				Destination: &splitsPath,
			},
			&cli.IntFlag{
				Name:        widthFlag,
				Value:       1100,
				Usage:       "Chart width in pixels",
				Destination: &width,
			},
			&cli.IntFlag{
				Name:        heightFlag,
				Value:       400,
				Usage:       "Chart height in pixels",
				Destination: &height,
			},
			&cli.StringFlag{
				Name:        logLevelFlag,
				Value:       "info",
				Usage:       "Log level: debug, info, warn, error",
				Destination: &logLevel,
			},
		},
		Action: func(cCtx *cli.Context) error {
			race.SetLogLevel(logLevel)
			if pngPath == "" && splitsPath == "" {
				return cli.Exit("nothing to do: set --png and/or --splits", 2)
			}
			return cliHandle(input, mode, pngPath, splitsPath, width, height)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
