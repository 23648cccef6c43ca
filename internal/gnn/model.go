package gnn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/vahagn22/resgnn/internal/data"
)

type Config struct {
	VocabSize int // known predicates, excluding the unknown id 0
	MaxArgs   int
	EmbedDim  int
	HiddenDim int
	Dropout   float64
	Seed      int64
}

func DefaultConfig(vocabSize, maxArgs int) Config {
	return Config{
		VocabSize: vocabSize,
		MaxArgs:   maxArgs,
		EmbedDim:  16,
		HiddenDim: 64,
		Dropout:   0.20,
		Seed:      42,
	}
}

type param struct {
	name string
	val  *mat.Dense
	grad *mat.Dense
	m, v *mat.Dense // Adam moment estimates
}

func newParam(name string, rows, cols int) *param {
	return &param{
		name: name,
		val:  mat.NewDense(rows, cols, nil),
		grad: mat.NewDense(rows, cols, nil),
		m:    mat.NewDense(rows, cols, nil),
		v:    mat.NewDense(rows, cols, nil),
	}
}

// EdgeClassifier scores each candidate resolution edge as {not-best, best}.
//
// Node input is the sign bit plus the argument type codes concatenated with a
// learned predicate embedding; the raw predicate id never enters the numeric
// path. Two mean-aggregating message-passing layers (L2-normalized output,
// ReLU, dropout) feed a two-layer MLP over concatenated endpoint
// representations.
type EdgeClassifier struct {
	cfg Config
	rng *rand.Rand

	embed *param // (VocabSize+1) x EmbedDim, row 0 = unknown

	self1, neigh1, bias1 *param
	self2, neigh2, bias2 *param

	hiddenW, hiddenB *param // edge MLP
	outW, outB       *param

	cache *forwardCache
}

func NewEdgeClassifier(cfg Config) *EdgeClassifier {
	inDim := 1 + cfg.MaxArgs + cfg.EmbedDim
	hidden := cfg.HiddenDim

	model := &EdgeClassifier{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),

		embed: newParam("embed", cfg.VocabSize+1, cfg.EmbedDim),

		self1:  newParam("conv1.self", inDim, hidden),
		neigh1: newParam("conv1.neigh", inDim, hidden),
		bias1:  newParam("conv1.bias", 1, hidden),
		self2:  newParam("conv2.self", hidden, hidden),
		neigh2: newParam("conv2.neigh", hidden, hidden),
		bias2:  newParam("conv2.bias", 1, hidden),

		hiddenW: newParam("edge.hidden.weight", 2*hidden, hidden),
		hiddenB: newParam("edge.hidden.bias", 1, hidden),
		outW:    newParam("edge.out.weight", hidden, 2),
		outB:    newParam("edge.out.bias", 1, 2),
	}
	model.initialize()
	return model
}

func (m *EdgeClassifier) Config() Config { return m.cfg }

func (m *EdgeClassifier) params() []*param {
	return []*param{
		m.embed,
		m.self1, m.neigh1, m.bias1,
		m.self2, m.neigh2, m.bias2,
		m.hiddenW, m.hiddenB, m.outW, m.outB,
	}
}

func (m *EdgeClassifier) initialize() {
	fill := func(p *param, f func() float64) {
		rows, cols := p.val.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				p.val.Set(i, j, f())
			}
		}
	}
	uniform := func(fanIn int) func() float64 {
		bound := 1.0 / math.Sqrt(float64(fanIn))
		return func() float64 { return (2*m.rng.Float64() - 1) * bound }
	}

	fill(m.embed, m.rng.NormFloat64)

	inDim := 1 + m.cfg.MaxArgs + m.cfg.EmbedDim
	for _, p := range []*param{m.self1, m.neigh1, m.bias1} {
		fill(p, uniform(inDim))
	}
	for _, p := range []*param{m.self2, m.neigh2, m.bias2} {
		fill(p, uniform(m.cfg.HiddenDim))
	}
	for _, p := range []*param{m.hiddenW, m.hiddenB} {
		fill(p, uniform(2*m.cfg.HiddenDim))
	}
	for _, p := range []*param{m.outW, m.outB} {
		fill(p, uniform(m.cfg.HiddenDim))
	}
}

func (m *EdgeClassifier) ZeroGrad() {
	for _, p := range m.params() {
		p.grad.Zero()
	}
}

type layerCache struct {
	input  *mat.Dense // layer input
	agg    *mat.Dense // mean-aggregated input
	norms  []float64  // clamped row norms of the pre-normalization output
	normed *mat.Dense // normalized pre-activation
	mask   *mat.Dense // dropout mask including the 1/(1-p) scale, nil when inactive
}

type forwardCache struct {
	graph *data.Graph
	deg   []float64
	pids  []int
	h0    *mat.Dense
	conv  [2]*layerCache
	h2    *mat.Dense // final node representations
	erep  *mat.Dense // E x 2*hidden
	z3    *mat.Dense // edge MLP pre-activation
	r3    *mat.Dense
}

// Forward returns the E x 2 logit matrix for the graph's edges, in the
// graph's stored edge order. With train=false (or a zero dropout rate) the
// result is deterministic given fixed weights.
func (m *EdgeClassifier) Forward(g *data.Graph, train bool) *mat.Dense {
	n := g.NumNodes()
	inDim := 1 + m.cfg.MaxArgs + m.cfg.EmbedDim

	h0 := mat.NewDense(n, inDim, nil)
	pids := make([]int, n)
	for i, features := range g.X {
		h0.Set(i, 0, features[0])
		for j := 0; j < m.cfg.MaxArgs; j++ {
			h0.Set(i, 1+j, features[2+j])
		}
		pid := int(features[1])
		if pid < 0 || pid > m.cfg.VocabSize {
			pid = 0
		}
		pids[i] = pid
		for j := 0; j < m.cfg.EmbedDim; j++ {
			h0.Set(i, 1+m.cfg.MaxArgs+j, m.embed.val.At(pid, j))
		}
	}

	cache := &forwardCache{graph: g, deg: inDegrees(g), pids: pids, h0: h0}

	h1, c1 := m.convForward(h0, g, cache.deg, m.self1, m.neigh1, m.bias1, train)
	h2, c2 := m.convForward(h1, g, cache.deg, m.self2, m.neigh2, m.bias2, train)
	cache.conv[0], cache.conv[1] = c1, c2
	cache.h2 = h2

	src, dst := g.EdgeIndex[0], g.EdgeIndex[1]
	hidden := m.cfg.HiddenDim
	erep := mat.NewDense(len(src), 2*hidden, nil)
	for e := range src {
		for j := 0; j < hidden; j++ {
			erep.Set(e, j, h2.At(src[e], j))
			erep.Set(e, hidden+j, h2.At(dst[e], j))
		}
	}

	z3 := mat.NewDense(len(src), hidden, nil)
	z3.Mul(erep, m.hiddenW.val)
	addBiasRow(z3, m.hiddenB.val)
	r3 := reluCopy(z3)

	logits := mat.NewDense(len(src), 2, nil)
	logits.Mul(r3, m.outW.val)
	addBiasRow(logits, m.outB.val)

	cache.erep, cache.z3, cache.r3 = erep, z3, r3
	m.cache = cache
	return logits
}

func (m *EdgeClassifier) convForward(h *mat.Dense, g *data.Graph, deg []float64, self, neigh, bias *param, train bool) (*mat.Dense, *layerCache) {
	n, _ := h.Dims()
	hidden := m.cfg.HiddenDim

	agg := meanNeighbors(h, g, deg)

	z := mat.NewDense(n, hidden, nil)
	z.Mul(h, self.val)
	var neighPart mat.Dense
	neighPart.Mul(agg, neigh.val)
	z.Add(z, &neighPart)
	addBiasRow(z, bias.val)

	normed, norms := normalizeRows(z)

	out := reluCopy(normed)
	var mask *mat.Dense
	if train && m.cfg.Dropout > 0 {
		mask = mat.NewDense(n, hidden, nil)
		scale := 1.0 / (1.0 - m.cfg.Dropout)
		for i := 0; i < n; i++ {
			for j := 0; j < hidden; j++ {
				if m.rng.Float64() < m.cfg.Dropout {
					out.Set(i, j, 0)
				} else {
					mask.Set(i, j, scale)
					out.Set(i, j, out.At(i, j)*scale)
				}
			}
		}
	}

	return out, &layerCache{input: h, agg: agg, norms: norms, normed: normed, mask: mask}
}

// Backward accumulates parameter gradients for the last Forward call. The
// supplied matrix holds dLoss/dLogits; gradients add up across calls until
// ZeroGrad, so a batch of graphs can share one optimizer step.
func (m *EdgeClassifier) Backward(dLogits *mat.Dense) {
	cache := m.cache
	if cache == nil {
		panic("gnn: Backward called before Forward")
	}
	g := cache.graph
	src, dst := g.EdgeIndex[0], g.EdgeIndex[1]
	hidden := m.cfg.HiddenDim

	// Edge MLP output layer.
	accumulateMulT(m.outW.grad, cache.r3, dLogits)
	accumulateColSums(m.outB.grad, dLogits)
	var dR3 mat.Dense
	dR3.Mul(dLogits, m.outW.val.T())

	dZ3 := reluBackward(&dR3, cache.z3)

	accumulateMulT(m.hiddenW.grad, cache.erep, dZ3)
	accumulateColSums(m.hiddenB.grad, dZ3)
	var dErep mat.Dense
	dErep.Mul(dZ3, m.hiddenW.val.T())

	// Scatter edge gradients back onto the endpoint nodes.
	n := g.NumNodes()
	dH2 := mat.NewDense(n, hidden, nil)
	for e := range src {
		for j := 0; j < hidden; j++ {
			dH2.Set(src[e], j, dH2.At(src[e], j)+dErep.At(e, j))
			dH2.Set(dst[e], j, dH2.At(dst[e], j)+dErep.At(e, hidden+j))
		}
	}

	dH1 := m.convBackward(cache.conv[1], g, cache.deg, m.self2, m.neigh2, m.bias2, dH2)
	dH0 := m.convBackward(cache.conv[0], g, cache.deg, m.self1, m.neigh1, m.bias1, dH1)

	// Only the embedding columns of h0 carry gradient; sign and argument
	// type codes are raw inputs.
	offset := 1 + m.cfg.MaxArgs
	for i, pid := range cache.pids {
		for j := 0; j < m.cfg.EmbedDim; j++ {
			m.embed.grad.Set(pid, j, m.embed.grad.At(pid, j)+dH0.At(i, offset+j))
		}
	}
}

func (m *EdgeClassifier) convBackward(cache *layerCache, g *data.Graph, deg []float64, self, neigh, bias *param, dOut *mat.Dense) *mat.Dense {
	rows, cols := dOut.Dims()

	// Dropout and ReLU share an elementwise mask.
	dNormed := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			grad := dOut.At(i, j)
			if cache.mask != nil {
				grad *= cache.mask.At(i, j)
			}
			if cache.normed.At(i, j) <= 0 {
				grad = 0
			}
			dNormed.Set(i, j, grad)
		}
	}

	// L2 row normalization: dz = (dy - y * (y . dy)) / ||z||.
	dZ := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		dot := 0.0
		for j := 0; j < cols; j++ {
			dot += cache.normed.At(i, j) * dNormed.At(i, j)
		}
		for j := 0; j < cols; j++ {
			dZ.Set(i, j, (dNormed.At(i, j)-cache.normed.At(i, j)*dot)/cache.norms[i])
		}
	}

	accumulateMulT(self.grad, cache.input, dZ)
	accumulateMulT(neigh.grad, cache.agg, dZ)
	accumulateColSums(bias.grad, dZ)

	var dInput, dAgg mat.Dense
	dInput.Mul(dZ, self.val.T())
	dAgg.Mul(dZ, neigh.val.T())

	// Transpose of the mean aggregation.
	_, f := dInput.Dims()
	src, dst := g.EdgeIndex[0], g.EdgeIndex[1]
	for e := range src {
		s, d := src[e], dst[e]
		for j := 0; j < f; j++ {
			dInput.Set(s, j, dInput.At(s, j)+dAgg.At(d, j)/deg[d])
		}
	}

	return &dInput
}

func inDegrees(g *data.Graph) []float64 {
	deg := make([]float64, g.NumNodes())
	for _, d := range g.EdgeIndex[1] {
		deg[d]++
	}
	return deg
}

func meanNeighbors(h *mat.Dense, g *data.Graph, deg []float64) *mat.Dense {
	n, f := h.Dims()
	agg := mat.NewDense(n, f, nil)
	src, dst := g.EdgeIndex[0], g.EdgeIndex[1]
	for e := range src {
		s, d := src[e], dst[e]
		for j := 0; j < f; j++ {
			agg.Set(d, j, agg.At(d, j)+h.At(s, j))
		}
	}
	for i := 0; i < n; i++ {
		if deg[i] == 0 {
			continue
		}
		for j := 0; j < f; j++ {
			agg.Set(i, j, agg.At(i, j)/deg[i])
		}
	}
	return agg
}

const normEpsilon = 1e-12

func normalizeRows(z *mat.Dense) (*mat.Dense, []float64) {
	rows, cols := z.Dims()
	normed := mat.NewDense(rows, cols, nil)
	norms := make([]float64, rows)
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += z.At(i, j) * z.At(i, j)
		}
		norms[i] = math.Max(math.Sqrt(sum), normEpsilon)
		for j := 0; j < cols; j++ {
			normed.Set(i, j, z.At(i, j)/norms[i])
		}
	}
	return normed, norms
}

func reluCopy(z *mat.Dense) *mat.Dense {
	rows, cols := z.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, math.Max(0, z.At(i, j)))
		}
	}
	return out
}

func reluBackward(dOut *mat.Dense, z *mat.Dense) *mat.Dense {
	rows, cols := dOut.Dims()
	dZ := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if z.At(i, j) > 0 {
				dZ.Set(i, j, dOut.At(i, j))
			}
		}
	}
	return dZ
}

func addBiasRow(z *mat.Dense, bias *mat.Dense) {
	rows, cols := z.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			z.Set(i, j, z.At(i, j)+bias.At(0, j))
		}
	}
}

// accumulateMulT adds aᵀ·b into dst.
func accumulateMulT(dst *mat.Dense, a, b mat.Matrix) {
	var product mat.Dense
	product.Mul(a.T(), b)
	dst.Add(dst, &product)
}

func accumulateColSums(dst *mat.Dense, a *mat.Dense) {
	rows, cols := a.Dims()
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += a.At(i, j)
		}
		dst.Set(0, j, dst.At(0, j)+sum)
	}
}
