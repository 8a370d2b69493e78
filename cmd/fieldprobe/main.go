package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/notargets/DGProbe/element"
	"github.com/notargets/DGProbe/element/library"
	"github.com/notargets/DGProbe/field"
	"github.com/notargets/DGProbe/geometry"
	"github.com/notargets/DGProbe/meshio"
	"github.com/notargets/DGProbe/spatial"
	"github.com/notargets/DGProbe/utils"
)

type result struct {
	Point  []float64 `json:"point"`
	Cell   int       `json:"cell"`
	Base   int       `json:"base"`
	Layer  int       `json:"layer"`
	Values []float64 `json:"values,omitempty"`
	Error  string    `json:"error,omitempty"`
}

func main() {
	// Defaults may come from a .env file
	_ = godotenv.Load()

	meshFile := flag.String("mesh", "", "Gambit neutral tetrahedral mesh file")
	demo := flag.String("demo", "square", "generated mesh when -mesh is not given: line, square, cube, column or prisms")
	n := flag.Int("n", 4, "cells per axis of the generated mesh")
	layers := flag.Int("layers", 3, "layers of the column and prisms meshes")
	fieldName := flag.String("field", "linear", "sampled field: x, y, z, linear or quadratic")
	order := flag.Int("order", envInt("FIELDPROBE_ORDER", 1), "polynomial order of the field, other than 1 gives a DG field")
	indexName := flag.String("index", envString("FIELDPROBE_INDEX", "tree"), "spatial index: tree, rtree, grid or linear")
	tol := flag.Float64("tol", envFloat("FIELDPROBE_TOLERANCE", 0), "containment tolerance in reference coordinates")
	workers := flag.Int("workers", 0, "goroutines used to evaluate the points, 0 for one per CPU")
	batch := flag.Int("batch", 0, "points per batch partition, 0 for one partition per worker")
	asJSON := flag.Bool("json", false, "print results as JSON")
	verbose := flag.Bool("v", false, "print the mesh field summary and the batch partitions")
	flag.Usage = usage
	flag.Parse()

	kind, err := spatial.ParseKind(*indexName)
	if err != nil {
		fatalf("%v", err)
	}
	fn, err := sampler(*fieldName)
	if err != nil {
		fatalf("%v", err)
	}

	var m *meshio.Mesh
	if *meshFile != "" {
		if m, err = meshio.ReadTetMesh(*meshFile); err != nil {
			fatalf("%v", err)
		}
	} else if m, err = generate(*demo, *n, *layers); err != nil {
		fatalf("%v", err)
	}

	cfg := field.Config{
		Index:     spatial.Config{Kind: kind},
		Tolerance: *tol,
		Workers:   *workers,
		BatchSize: *batch,
	}
	f, err := build(m, *order, fn, cfg)
	if err != nil {
		fatalf("%v", err)
	}

	var src io.Reader = os.Stdin
	if flag.NArg() > 0 {
		src = strings.NewReader(strings.Join(flag.Args(), "\n"))
	}
	xs, err := readPoints(src, m.Dim())
	if err != nil {
		fatalf("%v", err)
	}

	if *verbose {
		fmt.Fprint(os.Stderr, f)
		if err := describeBatch(os.Stderr, f, xs, *workers); err != nil {
			fatalf("%v", err)
		}
	}
	results := evaluatePoints(f, xs, *workers)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fatalf("encoding results: %v", err)
		}
		return
	}
	for _, r := range results {
		if r.Error != "" {
			fmt.Printf("%v\t%s\n", r.Point, r.Error)
			continue
		}
		fmt.Printf("%v\tcell %d (base %d, layer %d)\t%.10g\n", r.Point, r.Cell, r.Base, r.Layer, r.Values[0])
	}
}

func evaluatePoints(f *field.MeshField, xs [][]float64, workers int) []result {
	out := make([][]float64, len(xs))
	for i := range out {
		out[i] = make([]float64, 1)
	}
	results := make([]result, len(xs))
	for i, br := range f.EvaluateBatch(xs, out, workers) {
		r := result{Point: xs[i], Cell: -1, Base: -1, Layer: -1}
		if br.Found {
			r.Cell, r.Base, r.Layer = br.Global, br.Cell.Base, br.Cell.Layer
		}
		if br.Err != nil {
			r.Error = br.Err.Error()
		} else {
			r.Values = out[i]
		}
		results[i] = r
	}
	return results
}

func describeBatch(w io.Writer, f *field.MeshField, xs [][]float64, workers int) error {
	layout, err := f.Schedule(xs, workers)
	if err != nil {
		return err
	}
	st := layout.PartitionStatistics()
	_, err = fmt.Fprintf(w, "  Batch: %d points in %d partitions, %d to %d per partition (imbalance %.2f)\n",
		layout.TotalItems, st.NumPartitions, st.MinItems, st.MaxItems, st.Imbalance)
	return err
}

func generate(name string, n, layers int) (*meshio.Mesh, error) {
	switch name {
	case "line":
		return meshio.Interval(n, 0, 1), nil
	case "square":
		return meshio.UnitSquare(n, n), nil
	case "cube":
		return meshio.UnitCube(n), nil
	case "column":
		return meshio.Extrude(meshio.Interval(n, 0, 1), layers, 1)
	case "prisms":
		return meshio.Extrude(meshio.UnitSquare(n, n), layers, 1)
	}
	return nil, fmt.Errorf("unknown demo mesh %q", name)
}

func build(m *meshio.Mesh, order int, fn func(x, out []float64), cfg field.Config) (*field.MeshField, error) {
	if order < 0 {
		return nil, fmt.Errorf("negative order %d", order)
	}
	if order == 1 {
		return field.NewLagrange(m.Sample(1, fn), m.Element, m.Element, cfg)
	}
	var el element.Element
	switch m.Element.Properties().Type {
	case utils.Line:
		el = library.NewLineNudg(order)
	case utils.Tri:
		el = library.NewTriNudg(order)
	case utils.Tet:
		el = library.NewTetNudg(order)
	default:
		return nil, fmt.Errorf("no order %d element for %s cells", order, m.Element.Properties().ShortName)
	}
	return field.NewLagrange(m.SampleDG(el, 1, fn), m.Element, el, cfg)
}

func sampler(name string) (func(x, out []float64), error) {
	switch name {
	case "x", "y", "z":
		d := int(name[0] - 'x')
		return func(x, out []float64) {
			out[0] = 0
			if d < len(x) {
				out[0] = x[d]
			}
		}, nil
	case "linear":
		return func(x, out []float64) {
			out[0] = 1
			for d, v := range x {
				out[0] += float64(d+1) * v
			}
		}, nil
	case "quadratic":
		return func(x, out []float64) {
			out[0] = 0
			for _, v := range x {
				out[0] += v * v
			}
		}, nil
	}
	return nil, fmt.Errorf("unknown field %q", name)
}

// readPoints parses one point per line, components separated by commas or
// blanks. Empty lines and lines starting with # are skipped.
func readPoints(r io.Reader, dim int) ([][]float64, error) {
	var xs [][]float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		if len(fields) != dim {
			return nil, fmt.Errorf("line %d: %d components for a %d dimensional mesh: %w",
				line, len(fields), dim, geometry.ErrMalformed)
		}
		x := make([]float64, dim)
		for d, s := range fields {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			x[d] = v
		}
		xs = append(xs, x)
	}
	return xs, sc.Err()
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func usage() {
	fmt.Fprintln(os.Stderr, `fieldprobe - evaluate a finite element field at physical points

Usage:
  fieldprobe [flags] [x,y[,z] ...]

Points are read from the arguments, or one per line from stdin.

Flags:`)
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, `
Environment (also read from .env):
  FIELDPROBE_INDEX       default for -index
  FIELDPROBE_ORDER       default for -order
  FIELDPROBE_TOLERANCE   default for -tol

Examples:
  fieldprobe 0.3,0.4
  fieldprobe -demo cube -order 3 -field quadratic 0.2,0.3,0.4
  fieldprobe -demo column -layers 5 -json 0.5,0.7
  fieldprobe -mesh airfoil.neu -index grid < points.txt`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
