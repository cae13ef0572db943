package model

import (
	"bytes"
	"encoding/gob"
	"math"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// ---------------------------
// Types & options
// ---------------------------

const (
	leaf = -1

	// nodes with fewer samples search features sequentially
	parallelMinSamples = 4096

	epsilon = 1e-12
)

// DecisionTreeRegressor is a CART regression tree using the squared-error
// (variance reduction) criterion.
type DecisionTreeRegressor struct {
	// Hyperparameters / options
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	MinImpurityDecrease float64 // minimal weighted impurity decrease to accept a split

	// FeatureNames labels the columns of X, in order. Optional.
	FeatureNames []string

	// internals
	nodes     []Node
	nFeatures int
	nSamples  int
}

// Node is one entry of the flattened tree. Leaves have Feature == -1.
// Rows with x[Feature] <= Threshold descend to Left.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64 // mean target of the samples reaching the node
	Samples   int
	Impurity  float64 // variance of the target at the node
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool { return n.Feature == leaf }

// Option functional config
type Option func(*DecisionTreeRegressor)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeRegressor) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeRegressor) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeRegressor) { t.MinSamplesLeaf = n }
}
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeRegressor) { t.MinImpurityDecrease = v }
}

// NewDecisionTreeRegressor returns a fully grown tree: no depth limit,
// no pruning.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	d := &DecisionTreeRegressor{
		MaxDepth:            0,
		MinSamplesSplit:     2,
		MinSamplesLeaf:      1,
		MinImpurityDecrease: 0.0,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ---------------------------
// Public API: Fit / Predict / Save/Load
// ---------------------------

// Fit grows the tree on X (n x p) and targets y.
func (t *DecisionTreeRegressor) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return ErrEmpty
	}
	n := len(X)
	if len(y) != n {
		return errors.Wrapf(ErrShape, "%d rows, %d targets", n, len(y))
	}
	p := len(X[0])
	if p == 0 {
		return errors.Wrap(ErrShape, "no features")
	}
	for i := range X {
		if len(X[i]) != p {
			return errors.Wrapf(ErrShape, "row %d has %d features, want %d", i, len(X[i]), p)
		}
	}
	if t.FeatureNames != nil && len(t.FeatureNames) != p {
		return errors.Wrapf(ErrShape, "%d feature names for %d features", len(t.FeatureNames), p)
	}
	minLeaf := t.MinSamplesLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}
	t.MinSamplesLeaf = minLeaf

	idx := make([]int, n)
	for i := 0; i < n; i++ {
		idx[i] = i
	}
	t.nodes = t.nodes[:0]
	t.nFeatures = p
	t.nSamples = n
	t.buildNode(X, y, idx, 0)
	return nil
}

// Predict returns one prediction per row of X, in order.
func (t *DecisionTreeRegressor) Predict(X [][]float64) ([]float64, error) {
	if len(t.nodes) == 0 {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(X))
	for i := range X {
		if len(X[i]) != t.nFeatures {
			return nil, errors.Wrapf(ErrShape, "row %d has %d features, want %d", i, len(X[i]), t.nFeatures)
		}
		out[i] = t.predictSingle(X[i])
	}
	return out, nil
}

// NFeatures returns the number of features seen by Fit.
func (t *DecisionTreeRegressor) NFeatures() int { return t.nFeatures }

// Nodes returns a copy of the flattened tree; index 0 is the root.
func (t *DecisionTreeRegressor) Nodes() []Node { return append([]Node(nil), t.nodes...) }

// NLeaves returns the number of leaves.
func (t *DecisionTreeRegressor) NLeaves() int {
	c := 0
	for _, n := range t.nodes {
		if n.IsLeaf() {
			c++
		}
	}
	return c
}

// Depth returns the length of the longest root-to-leaf path.
func (t *DecisionTreeRegressor) Depth() int {
	if len(t.nodes) == 0 {
		return 0
	}
	type frame struct{ node, depth int }
	stack := []frame{{0, 0}}
	max := 0
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > max {
			max = f.depth
		}
		n := t.nodes[f.node]
		if !n.IsLeaf() {
			stack = append(stack, frame{n.Left, f.depth + 1}, frame{n.Right, f.depth + 1})
		}
	}
	return max
}

// treeState is the gob wire form of a fitted tree.
type treeState struct {
	MaxDepth            int
	MinSamplesSplit     int
	MinSamplesLeaf      int
	MinImpurityDecrease float64
	FeatureNames        []string
	NFeatures           int
	NSamples            int
	Nodes               []Node
}

// MarshalBinary implements encoding.BinaryMarshaler using gob.
func (t *DecisionTreeRegressor) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(treeState{
		MaxDepth:            t.MaxDepth,
		MinSamplesSplit:     t.MinSamplesSplit,
		MinSamplesLeaf:      t.MinSamplesLeaf,
		MinImpurityDecrease: t.MinImpurityDecrease,
		FeatureNames:        t.FeatureNames,
		NFeatures:           t.nFeatures,
		NSamples:            t.nSamples,
		Nodes:               t.nodes,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode tree")
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using gob.
func (t *DecisionTreeRegressor) UnmarshalBinary(data []byte) error {
	var s treeState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return errors.Wrap(err, "decode tree")
	}
	for i, n := range s.Nodes {
		if n.IsLeaf() {
			continue
		}
		if n.Feature < 0 || n.Feature >= s.NFeatures || n.Left <= i || n.Right <= i || n.Left >= len(s.Nodes) || n.Right >= len(s.Nodes) {
			return errors.Errorf("decode tree: node %d is corrupt", i)
		}
	}
	t.MaxDepth = s.MaxDepth
	t.MinSamplesSplit = s.MinSamplesSplit
	t.MinSamplesLeaf = s.MinSamplesLeaf
	t.MinImpurityDecrease = s.MinImpurityDecrease
	t.FeatureNames = s.FeatureNames
	t.nFeatures = s.NFeatures
	t.nSamples = s.NSamples
	t.nodes = s.Nodes
	return nil
}

// ---------------------------
// Internal builders & helpers
// ---------------------------

// splitResult holds the best split found for one feature.
type splitResult struct {
	feature   int
	threshold float64
	pos       int     // samples going left
	proxy     float64 // sumL²/nL + sumR²/nR; larger is better
}

// buildNode appends the node for samples idx and, unless it becomes a
// leaf, its subtrees. It returns the node's index.
func (t *DecisionTreeRegressor) buildNode(X [][]float64, y []float64, idx []int, depth int) int {
	mean, variance := meanVariance(y, idx)
	id := len(t.nodes)
	t.nodes = append(t.nodes, Node{
		Feature:  leaf,
		Left:     leaf,
		Right:    leaf,
		Value:    mean,
		Samples:  len(idx),
		Impurity: variance,
	})

	n := len(idx)
	if n < t.MinSamplesSplit || n < 2*t.MinSamplesLeaf || variance <= epsilon {
		return id
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return id
	}

	best, ok := t.bestSplit(X, y, idx)
	if !ok {
		return id
	}
	sum := mean * float64(n)
	// weighted impurity decrease, as a fraction of all training samples
	decrease := (best.proxy - sum*sum/float64(n)) / float64(t.nSamples)
	if decrease+epsilon < t.MinImpurityDecrease {
		return id
	}

	left := make([]int, 0, best.pos)
	right := make([]int, 0, n-best.pos)
	for _, i := range idx {
		if X[i][best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := t.buildNode(X, y, left, depth+1)
	r := t.buildNode(X, y, right, depth+1)
	t.nodes[id].Feature = best.feature
	t.nodes[id].Threshold = best.threshold
	t.nodes[id].Left = l
	t.nodes[id].Right = r
	return id
}

// bestSplit scans every feature; the lowest feature index wins ties.
func (t *DecisionTreeRegressor) bestSplit(X [][]float64, y []float64, idx []int) (splitResult, bool) {
	results := make([]splitResult, t.nFeatures)
	if len(idx) >= parallelMinSamples && t.nFeatures > 1 {
		var wg sync.WaitGroup
		for f := 0; f < t.nFeatures; f++ {
			wg.Add(1)
			go func(f int) {
				defer wg.Done()
				results[f] = t.findBestSplitForFeature(X, y, idx, f)
			}(f)
		}
		wg.Wait()
	} else {
		for f := 0; f < t.nFeatures; f++ {
			results[f] = t.findBestSplitForFeature(X, y, idx, f)
		}
	}

	best := splitResult{feature: leaf}
	for _, r := range results {
		if r.feature == leaf {
			continue
		}
		if best.feature == leaf || r.proxy > best.proxy {
			best = r
		}
	}
	return best, best.feature != leaf
}

// pair is a feature value and its sample index.
type pair struct {
	v float64
	i int
}

// findBestSplitForFeature sorts the samples on feature f and scans every
// boundary between distinct values with running sums.
func (t *DecisionTreeRegressor) findBestSplitForFeature(X [][]float64, y []float64, idx []int, f int) splitResult {
	result := splitResult{feature: leaf}

	vals := make([]pair, len(idx))
	total := 0.0
	for k, i := range idx {
		vals[k] = pair{X[i][f], i}
		total += y[i]
	}
	sort.Slice(vals, func(a, b int) bool { return vals[a].v < vals[b].v })

	n := len(vals)
	if n < 2 || vals[0].v == vals[n-1].v {
		return result
	}

	minLeaf := t.MinSamplesLeaf
	leftSum := 0.0
	for s := 1; s < n; s++ {
		leftSum += y[vals[s-1].i]
		if vals[s].v == vals[s-1].v {
			continue
		}
		if s < minLeaf || n-s < minLeaf {
			continue
		}
		rightSum := total - leftSum
		proxy := leftSum*leftSum/float64(s) + rightSum*rightSum/float64(n-s)
		if result.feature == leaf || proxy > result.proxy {
			thr := (vals[s-1].v + vals[s].v) / 2.0
			if thr == vals[s].v {
				thr = vals[s-1].v
			}
			result = splitResult{feature: f, threshold: thr, pos: s, proxy: proxy}
		}
	}
	return result
}

func meanVariance(y []float64, idx []int) (mean, variance float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	for _, i := range idx {
		mean += y[i]
	}
	mean /= float64(len(idx))
	for _, i := range idx {
		d := y[i] - mean
		variance += d * d
	}
	return mean, variance / float64(len(idx))
}

// ---------------------------
// Prediction helper
// ---------------------------

func (t *DecisionTreeRegressor) predictSingle(x []float64) float64 {
	node := t.nodes[0]
	for !node.IsLeaf() {
		val := x[node.Feature]
		next := node.Right
		if math.IsNaN(val) {
			// missing: follow the child that saw more samples
			if t.nodes[node.Left].Samples >= t.nodes[node.Right].Samples {
				next = node.Left
			}
		} else if val <= node.Threshold {
			next = node.Left
		}
		node = t.nodes[next]
	}
	return node.Value
}
