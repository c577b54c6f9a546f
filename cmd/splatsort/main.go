// splatsort sorts a .splat file back to front for a camera and packs the
// result into a GPU texture.
//
// Usage:
//
//	splatsort [options] in.splat
//
// Options:
//
//	-eye x,y,z       camera position (default 0,0,10)
//	-target x,y,z    point the camera looks at (default 0,0,0)
//	-up x,y,z        camera up vector (default 0,1,0)
//	-translate       include the view translation in depths
//	-kernel name     sort kernel (auto, scalar, wide)
//	-o file          write the sorted splats as .splat
//	-texture file    write the packed texture container
//	-compress name   texture compression (none, zlib, zstd)
//	-preview file    write a JPEG 2000 color preview of the texture
//	-views n         also sort n views orbiting the target and report timing
//	-v               verbose output
//	-version         show version information
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mrjoshuak/go-gsplat/splat"
	"github.com/mrjoshuak/go-gsplat/splatio"
)

const version = "1.0.0"

// vec3Flag parses "x,y,z".
type vec3Flag struct {
	v *mgl32.Vec3
}

func (f vec3Flag) String() string {
	if f.v == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", f.v[0], f.v[1], f.v[2])
}

func (f vec3Flag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return errors.New("want three comma-separated numbers")
	}
	var v mgl32.Vec3
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return err
		}
		v[i] = float32(x)
	}
	*f.v = v
	return nil
}

type options struct {
	in        string
	eye       mgl32.Vec3
	target    mgl32.Vec3
	up        mgl32.Vec3
	translate bool
	kernel    splat.Kernel
	out       string
	texture   string
	compress  splatio.Compression
	preview   string
	views     int
	verbose   bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

func run(args []string, stdout, stderr io.Writer) error {
	opts, showVersion, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	if showVersion {
		fmt.Fprintf(stdout, "splatsort version %s\n", version)
		return nil
	}

	if opts.verbose {
		splat.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer splat.SetLogger(nil)
	}
	return sortFile(opts, stdout)
}

func parseArgs(args []string, stderr io.Writer) (options, bool, error) {
	opts := options{
		eye: mgl32.Vec3{0, 0, 10},
		up:  mgl32.Vec3{0, 1, 0},
	}

	fs := flag.NewFlagSet("splatsort", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Var(vec3Flag{&opts.eye}, "eye", "camera position `x,y,z`")
	fs.Var(vec3Flag{&opts.target}, "target", "point the camera looks at `x,y,z`")
	fs.Var(vec3Flag{&opts.up}, "up", "camera up vector `x,y,z`")
	fs.BoolVar(&opts.translate, "translate", false, "include the view translation in depths")
	kernelStr := fs.String("kernel", "auto", "sort kernel (auto, scalar, wide)")
	fs.StringVar(&opts.out, "o", "", "write the sorted splats to `file`")
	fs.StringVar(&opts.texture, "texture", "", "write the packed texture container to `file`")
	compressStr := fs.String("compress", "zstd", "texture compression (none, zlib, zstd)")
	fs.StringVar(&opts.preview, "preview", "", "write a JPEG 2000 color preview to `file`")
	fs.IntVar(&opts.views, "views", 0, "also sort `n` views orbiting the target")
	fs.BoolVar(&opts.verbose, "v", false, "verbose output")
	showVersion := fs.Bool("version", false, "show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: splatsort [options] in.splat\n\n")
		fmt.Fprintf(stderr, "Sort Gaussian splats back to front for a camera and pack them\n")
		fmt.Fprintf(stderr, "into a %d-texel-wide RGBA32 texture.\n\n", splat.TextureWidth)
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, false, err
	}
	if *showVersion {
		return opts, true, nil
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return opts, false, errUsage
	}
	opts.in = fs.Arg(0)

	var err error
	if opts.kernel, err = splat.ParseKernel(*kernelStr); err != nil {
		return opts, false, err
	}
	if opts.compress, err = splatio.ParseCompression(*compressStr); err != nil {
		return opts, false, err
	}
	if opts.views < 0 {
		return opts, false, fmt.Errorf("invalid view count: %d", opts.views)
	}
	if opts.eye.Sub(opts.target).Len() == 0 {
		return opts, false, errors.New("eye and target must differ")
	}
	return opts, false, nil
}

func sortFile(opts options, stdout io.Writer) error {
	f, err := os.Open(opts.in)
	if err != nil {
		return fmt.Errorf("cannot open input file: %w", err)
	}
	defer f.Close()

	set, err := splatio.ReadSplat(f)
	if err != nil {
		return fmt.Errorf("cannot read input file: %w", err)
	}

	sorter, err := splat.NewSorter(set.Count, &splat.SorterOptions{
		Kernel:    opts.kernel,
		Translate: opts.translate,
	})
	if err != nil {
		return err
	}

	view := splat.LookAt(opts.eye, opts.target, opts.up)
	start := time.Now()
	sorted, err := sorter.SortAndReorder(set, view)
	if err != nil {
		return fmt.Errorf("sort failed: %w", err)
	}
	elapsed := time.Since(start)

	if opts.verbose {
		fmt.Fprintf(stdout, "Read %d splats from %s\n", set.Count, opts.in)
		fmt.Fprintf(stdout, "  Kernel: %s\n", sorter.Kernel())
		fmt.Fprintf(stdout, "  Sorted in %v\n", elapsed)
	}

	if opts.out != "" {
		if err := writeFile(opts.out, func(w io.Writer) error { return splatio.WriteSplat(w, sorted) }); err != nil {
			return err
		}
		if opts.verbose {
			fmt.Fprintf(stdout, "Wrote sorted splats to %s\n", opts.out)
		}
	}

	if opts.texture != "" || opts.preview != "" {
		tex, err := splat.GenerateTexture(sorted)
		if err != nil {
			return fmt.Errorf("texture generation failed: %w", err)
		}
		if opts.verbose {
			fmt.Fprintf(stdout, "Packed texture: %dx%d\n", tex.Width, tex.Height)
		}
		if opts.texture != "" {
			if err := writeFile(opts.texture, func(w io.Writer) error {
				return splatio.WriteTexture(w, tex, opts.compress)
			}); err != nil {
				return err
			}
			if opts.verbose {
				fmt.Fprintf(stdout, "Wrote texture to %s (%s)\n", opts.texture, opts.compress)
			}
		}
		if opts.preview != "" {
			if err := writeFile(opts.preview, func(w io.Writer) error { return splatio.EncodePreview(w, tex) }); err != nil {
				return err
			}
			if opts.verbose {
				fmt.Fprintf(stdout, "Wrote preview to %s\n", opts.preview)
			}
		}
	}

	if opts.views > 0 {
		views := orbitViews(opts.eye, opts.target, opts.up, opts.views)
		start := time.Now()
		if _, err := splat.SortViews(set.Positions, views, set.Count); err != nil {
			return fmt.Errorf("multi-view sort failed: %w", err)
		}
		fmt.Fprintf(stdout, "Sorted %d views in %v\n", len(views), time.Since(start))
	}
	return nil
}

// orbitViews returns n cameras evenly spaced on the circle around target,
// about the up axis, that passes through eye.
func orbitViews(eye, target, up mgl32.Vec3, n int) []splat.ViewMatrix {
	axis := up.Normalize()
	views := make([]splat.ViewMatrix, n)
	for i := range views {
		angle := float32(2 * math.Pi * float64(i) / float64(n))
		rot := mgl32.HomogRotate3D(angle, axis)
		pos := target.Add(rot.Mul4x1(eye.Sub(target).Vec4(0)).Vec3())
		views[i] = splat.LookAt(pos, target, up)
	}
	return views
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("cannot write %s: %w", name, err)
	}
	return f.Close()
}
