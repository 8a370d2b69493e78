package field

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/notargets/DGProbe/geometry"
	"github.com/notargets/DGProbe/partitions"
	"github.com/notargets/DGProbe/utils"
)

// EvaluateAt interpolates the field at a located point into out[:ValueDim].
// The containment of the point is not checked again.
func (m *MeshField) EvaluateAt(lp LocatedPoint, out []float64) error {
	vd := m.store.ValueDim()
	if len(out) < vd {
		return fmt.Errorf("%w: output has %d slots for %d field components", geometry.ErrMalformed, len(out), vd)
	}
	var buf [64]float64
	nodal := m.store.CellValues(lp.Cell, buf[:0])
	if err := m.interp.Interpolate(lp.Ref, nodal, vd, out[:vd]); err != nil {
		return fmt.Errorf("%w: cell %d: %w", ErrEvaluationFailed, lp.Global, err)
	}
	if !utils.AllFinite(out[:vd]) {
		return fmt.Errorf("%w: cell %d: non-finite value %v", ErrEvaluationFailed, lp.Global, out[:vd])
	}
	return nil
}

// Evaluate locates x and interpolates the field there. It returns an error
// wrapping ErrPointNotFound when no cell contains x.
func (m *MeshField) Evaluate(x, out []float64) error {
	_, _, err := m.evaluate(x, out)
	return err
}

func (m *MeshField) evaluate(x, out []float64) (LocatedPoint, bool, error) {
	if len(x) != m.store.Dim() {
		return LocatedPoint{}, false, fmt.Errorf("%w: point has %d components, mesh has dimension %d",
			geometry.ErrMalformed, len(x), m.store.Dim())
	}
	lp, ok := m.Locate(x)
	if !ok {
		return lp, false, fmt.Errorf("%w: %v", ErrPointNotFound, x)
	}
	return lp, true, m.EvaluateAt(lp, out)
}

// BatchResult is the outcome of one point of EvaluateBatch. Found reports
// whether a cell accepted the point, in which case LocatedPoint is set even
// if the evaluation itself failed.
type BatchResult struct {
	LocatedPoint
	Found bool
	Err   error
}

// EvaluateMany evaluates every point of xs into the matching row of out and
// returns the error of each point, nil on success
func (m *MeshField) EvaluateMany(xs, out [][]float64, workers int) []error {
	res := m.EvaluateBatch(xs, out, workers)
	errs := make([]error, len(res))
	for i, r := range res {
		errs[i] = r.Err
	}
	return errs
}

// EvaluateBatch evaluates every point of xs into the matching row of out,
// spreading the partitions of Schedule over workers goroutines
func (m *MeshField) EvaluateBatch(xs, out [][]float64, workers int) []BatchResult {
	if len(out) != len(xs) {
		panic(fmt.Errorf("field: %d output rows for %d points", len(out), len(xs)))
	}
	res := make([]BatchResult, len(xs))
	if len(xs) == 0 {
		return res
	}
	workers = m.workers(workers)
	layout, err := m.Schedule(xs, workers)
	if err != nil {
		panic(err)
	}

	parts := make(chan []int)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, layout.NumPartitions); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for items := range parts {
				for _, i := range items {
					r := &res[i]
					r.LocatedPoint, r.Found, r.Err = m.evaluate(xs[i], out[i])
				}
			}
		}()
	}
	for _, p := range layout.Partitions {
		parts <- p.Items
	}
	close(parts)
	wg.Wait()
	return res
}

// Schedule splits the points of a batch into the partitions EvaluateBatch
// hands to its workers. With Config.BatchSize set every partition holds about
// that many points, otherwise there is one partition per worker. The points of
// a partition follow Config.Order.
func (m *MeshField) Schedule(xs [][]float64, workers int) (*partitions.PartitionLayout, error) {
	pb := &partitions.PartitionBuilder{NumItems: len(xs)}
	if m.cfg.BatchSize > 0 {
		pb.TargetPartitionSize = m.cfg.BatchSize
	} else {
		pb.NumPartitions = m.workers(workers)
	}
	switch m.cfg.Order {
	case CurveOrder:
		pb.Strategy = partitions.SpaceFillingCurve
		pb.Keys = m.curveKeys(xs)
	case InputOrder:
		pb.Strategy = partitions.BlockPartition
	case Interleaved:
		pb.Strategy = partitions.RoundRobin
	default:
		return nil, fmt.Errorf("field: unknown batch order %v", m.cfg.Order)
	}
	layout, err := pb.BuildPartitions()
	if err != nil {
		return nil, fmt.Errorf("field: partitioning %d points: %w", len(xs), err)
	}
	return layout, nil
}

func (m *MeshField) workers(n int) int {
	if n <= 0 {
		n = m.cfg.Workers
	}
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return n
}

// curveKeys returns the Morton key of every point over the mesh bounds.
// Points of the wrong dimension get key 0 and fail in Evaluate.
func (m *MeshField) curveKeys(xs [][]float64) []uint64 {
	b := m.index.Bounds()
	lo := []float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := []float64{b.Max.X, b.Max.Y, b.Max.Z}
	keys := make([]uint64, len(xs))
	for i, x := range xs {
		if len(x) == m.store.Dim() {
			keys[i] = partitions.MortonKey(x, lo, hi)
		}
	}
	return keys
}
