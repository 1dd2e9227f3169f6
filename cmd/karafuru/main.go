package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/kovidgoyal/karafuru"
	"github.com/kovidgoyal/karafuru/internal/config"
	"github.com/kovidgoyal/karafuru/internal/termcolor"
)

var _ = fmt.Print

const usage = `usage: karafuru [-config file] [-output text|json] [-color auto|always|never] [-verbose] command [args]

commands:
  rgb R G B                          convert sRGB values (0-255)
  hex #rrggbb                        convert a hex color
  lch L C H                          convert CIE LCH values
  pick [-frame N] [-preview out.png] IMAGE X Y
                                     pick the color at X, Y of an image
  swatch -o out.png [-track CHANNEL] (rgb|hex|lch) VALUES...
                                     write a swatch or slider track image
`

// errUsage is returned for bad command lines, the usage is printed for it
var errUsage = errors.New("invalid command line")

type env struct {
	stdout, stderr io.Writer
	environ        map[string]string
	settings       config.Settings
	colored        bool
	profile        termcolor.Profile
}

type result struct {
	Hex     string     `json:"hex"`
	RGB     [3]int     `json:"rgb"`
	LCH     [3]float64 `json:"lch"`
	Warning string     `json:"warning,omitempty"`
	X       *int       `json:"x,omitempty"`
	Y       *int       `json:"y,omitempty"`
	File    string     `json:"file,omitempty"`
}

func result_from_state(s karafuru.State) result {
	return result{
		Hex: s.Hex, RGB: [3]int{s.Red, s.Green, s.Blue},
		LCH: [3]float64{s.Lightness, s.Chroma, s.Hue}, Warning: s.Warning,
	}
}

func (e *env) print(r result) error {
	if e.settings.Output == "json" {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	swatch := ""
	if e.colored {
		c, err := karafuru.ParseSharp(r.Hex)
		if err == nil {
			swatch = " " + termcolor.Swatch(e.profile, c.R, c.G, c.B, 4)
		}
	}
	if r.File != "" {
		fmt.Fprintf(e.stdout, "file:    %s\n", r.File)
	}
	if r.X != nil && r.Y != nil {
		fmt.Fprintf(e.stdout, "point:   %d, %d\n", *r.X, *r.Y)
	}
	fmt.Fprintf(e.stdout, "hex:     %s%s\n", r.Hex, swatch)
	fmt.Fprintf(e.stdout, "rgb:     %d %d %d\n", r.RGB[0], r.RGB[1], r.RGB[2])
	fmt.Fprintf(e.stdout, "lch:     %s %s %s\n", fmt_float(r.LCH[0]), fmt_float(r.LCH[1]), fmt_float(r.LCH[2]))
	if r.Warning != "" {
		fmt.Fprintf(e.stdout, "warning: %s\n", r.Warning)
	}
	return nil
}

func fmt_float(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func parse_ints(args []string) (ans [3]int, err error) {
	if len(args) != 3 {
		return ans, fmt.Errorf("%w: expected three values, got %d", errUsage, len(args))
	}
	for i, a := range args {
		if ans[i], err = strconv.Atoi(a); err != nil {
			return ans, fmt.Errorf("not an integer: %q", a)
		}
	}
	return
}

func parse_floats(args []string) (ans [3]float64, err error) {
	if len(args) != 3 {
		return ans, fmt.Errorf("%w: expected three values, got %d", errUsage, len(args))
	}
	for i, a := range args {
		if ans[i], err = strconv.ParseFloat(a, 64); err != nil {
			return ans, fmt.Errorf("not a number: %q", a)
		}
	}
	return
}

// color_from_args sets the controller from a (rgb|hex|lch) VALUES... command
func color_from_args(c *karafuru.Controller, cmd string, args []string) error {
	switch cmd {
	case "rgb":
		v, err := parse_ints(args)
		if err != nil {
			return err
		}
		for i, f := range []karafuru.Field{karafuru.Red, karafuru.Green, karafuru.Blue} {
			c.SetRGB(f, v[i])
		}
	case "hex":
		if len(args) != 1 {
			return fmt.Errorf("%w: expected one hex color", errUsage)
		}
		if _, err := karafuru.ParseSharp(args[0]); err != nil {
			return err
		}
		c.SetHex(args[0])
	case "lch":
		v, err := parse_floats(args)
		if err != nil {
			return err
		}
		for i, f := range []karafuru.Field{karafuru.Lightness, karafuru.Chroma, karafuru.Hue} {
			c.SetLCH(f, v[i])
		}
	default:
		return fmt.Errorf("%w: unknown color type: %q", errUsage, cmd)
	}
	return nil
}

func (e *env) pick(args []string) error {
	fs := flag.NewFlagSet("pick", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	frame := fs.Uint("frame", 1, "frame number for animated images")
	preview := fs.String("preview", "", "save the magnified preview to this file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s", errUsage, err)
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("%w: pick needs IMAGE X Y", errUsage)
	}
	path := fs.Arg(0)
	x, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("not an integer: %q", fs.Arg(1))
	}
	y, err := strconv.Atoi(fs.Arg(2))
	if err != nil {
		return fmt.Errorf("not an integer: %q", fs.Arg(2))
	}
	img, err := karafuru.OpenAll(path)
	if err != nil {
		return err
	}
	src, err := img.Snapshot(*frame)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err = karafuru.SampleAt(src, x, y); err != nil {
		return err
	}
	p := karafuru.NewPicker(src)
	p.Radius, p.Magnification = e.settings.PickRadius, e.settings.Magnify
	col, err := p.Grab(x, y)
	if err != nil {
		return err
	}
	if *preview != "" {
		if err = karafuru.Save(p.Preview(), *preview); err != nil {
			return err
		}
	}
	c := karafuru.NewController()
	c.SetColor(col)
	r := result_from_state(c.State())
	r.File, r.X, r.Y = path, &x, &y
	return e.print(r)
}

func (e *env) swatch(args []string) error {
	fs := flag.NewFlagSet("swatch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	output := fs.String("o", "", "output image file")
	track := fs.String("track", "", "write the slider track for this channel instead")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s", errUsage, err)
	}
	if *output == "" || fs.NArg() < 1 {
		return fmt.Errorf("%w: swatch needs -o and a color", errUsage)
	}
	c := karafuru.NewController()
	if err := color_from_args(c, fs.Arg(0), fs.Args()[1:]); err != nil {
		return err
	}
	s := c.State()
	var img *karafuru.NRGB
	if *track != "" {
		field, err := karafuru.ParseField(*track)
		if err != nil {
			return err
		}
		if img, err = karafuru.SliderTrack(field, s, e.settings.TrackWidth, e.settings.TrackHeight); err != nil {
			return err
		}
	} else {
		img = karafuru.Swatch(s.Color(), e.settings.SwatchSize, e.settings.SwatchSize)
	}
	if err := karafuru.Save(img, *output); err != nil {
		return err
	}
	r := result_from_state(s)
	r.File = *output
	return e.print(r)
}

func run(args []string, stdout, stderr io.Writer, environ map[string]string) (err error) {
	fs := flag.NewFlagSet("karafuru", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	config_path := fs.String("config", "", "config file (yaml, toml or json)")
	output := fs.String("output", "", "output format: text or json")
	color := fs.String("color", "", "color mode: auto, always or never")
	verbose := fs.Bool("verbose", false, "log debug messages to stderr")
	if err = fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s", errUsage, err)
	}
	path, source, err := config.Find(*config_path, environ[config.EnvVar], environ["XDG_CONFIG_HOME"], environ["HOME"])
	if err != nil {
		return err
	}
	file_cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	var flag_cfg config.Config
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output":
			flag_cfg.Output = output
		case "color":
			flag_cfg.Color = color
		case "verbose":
			flag_cfg.Verbose = verbose
		}
	})
	e := env{stdout: stdout, stderr: stderr, environ: environ, settings: config.Merge(config.Defaults(), file_cfg, flag_cfg)}
	if err = e.settings.Validate(); err != nil {
		return err
	}
	if e.settings.Verbose {
		karafuru.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer karafuru.SetLogger(nil)
	}
	if path != "" {
		karafuru.Logger().Debug("loaded config", "path", path, "source", source)
	}
	mode, err := termcolor.ParseMode(e.settings.Color)
	if err != nil {
		return err
	}
	out_file, _ := stdout.(*os.File)
	e.colored = termcolor.Enabled(mode, out_file, environ)
	e.profile = termcolor.DetectProfile(environ)

	if fs.NArg() == 0 {
		return fmt.Errorf("%w: no command", errUsage)
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "rgb", "hex", "lch":
		c := karafuru.NewController()
		if err = color_from_args(c, cmd, rest); err != nil {
			return err
		}
		return e.print(result_from_state(c.State()))
	case "pick":
		return e.pick(rest)
	case "swatch":
		return e.swatch(rest)
	}
	return fmt.Errorf("%w: unknown command: %q", errUsage, cmd)
}

func main() {
	var err error
	defer func() {
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			if errors.Is(err, errUsage) {
				fmt.Fprint(os.Stderr, usage)
			}
			os.Exit(1)
		}
	}()
	err = run(os.Args[1:], os.Stdout, os.Stderr, termcolor.EnvMap(os.Environ()))
}
