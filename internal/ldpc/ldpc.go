// Package ldpc implements a sum-product (belief propagation) decoder over
// a deterministically constructed quasi-cyclic parity-check matrix. The
// Tanner graph adjacency is built once at construction and consulted on
// every decode.
package ldpc

import (
	"context"
	"math"

	"github.com/satcomm/fectel/internal/codec"
)

// DefaultMaxIter and DefaultConvergenceEps bound the sum-product loop,
// used by New and backfilled by config.Defaults().
const DefaultMaxIter = 50
const DefaultConvergenceEps = 1e-6

// safeAtanhClamp is the magnitude returned by safeAtanh when |x| >= 1.
const safeAtanhClamp = 18.0 // tanh(18) saturates float64 precision already

// Codec holds the parity-check matrix's Tanner graph adjacency, built
// once, immutable thereafter, and safe to share across goroutines
// without locking.
type Codec struct {
	n, k int

	maxIter        int
	convergenceEps float64

	// checkToVar[c] lists the variable indices adjacent to check node c.
	checkToVar [][]int
	// varToCheck[v] lists the check indices adjacent to variable node v.
	varToCheck [][]int

	codec.Counters
}

// New builds an (N,K) LDPC code whose parity-check matrix H has N-K rows
// and N columns, constructed deterministically: information columns
// satisfy H[i][j]=1 iff (i+3j) mod 7 == 0; parity columns satisfy
// H[i][dataLen+k]=1 iff k in {i, (i+1) mod (N-K)}. It decodes with the
// default iteration bound and convergence epsilon; use NewWithConfig to
// override them from a config.Pipeline.
func New(n, k int) *Codec {
	return NewWithConfig(n, k, DefaultMaxIter, DefaultConvergenceEps)
}

// NewWithConfig is New with an explicit iteration bound and convergence
// epsilon, wiring config.Pipeline.LDPC.MaxIterations/ConvergenceEps
// through to the decode loop instead of the package defaults.
func NewWithConfig(n, k, maxIter int, convergenceEps float64) *Codec {
	if n <= k || k <= 0 {
		panic("ldpc: invalid (n,k)")
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if convergenceEps <= 0 {
		convergenceEps = DefaultConvergenceEps
	}
	rows := n - k
	dataLen := k

	checkToVar := make([][]int, rows)
	varAdj := make(map[int][]int, n)

	addEdge := func(row, col int) {
		checkToVar[row] = append(checkToVar[row], col)
		varAdj[col] = append(varAdj[col], row)
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < dataLen; j++ {
			if (i+3*j)%7 == 0 {
				addEdge(i, j)
			}
		}
		for kk := 0; kk < rows; kk++ {
			if kk == i || kk == (i+1)%rows {
				addEdge(i, dataLen+kk)
			}
		}
	}

	varToCheck := make([][]int, n)
	for v := 0; v < n; v++ {
		varToCheck[v] = varAdj[v]
	}

	return &Codec{
		n: n, k: k,
		maxIter:        maxIter,
		convergenceEps: convergenceEps,
		checkToVar:     checkToVar,
		varToCheck:     varToCheck,
	}
}

// N and K expose the code's block/information lengths.
func (c *Codec) N() int { return c.n }
func (c *Codec) K() int { return c.k }

// safeAtanh is atanh clamped so a tanh product of exactly +-1 (perfectly
// certain bits feeding a check node) never produces +-Inf.
func safeAtanh(x float64) float64 {
	if x >= 1 {
		return safeAtanhClamp
	}
	if x <= -1 {
		return -safeAtanhClamp
	}
	return math.Atanh(x)
}

// Decode runs sum-product belief propagation from channel LLRs (length N,
// positive favoring bit 0) for up to maxIter iterations or until the
// maximum per-message change falls below convergenceEps, then returns the
// K information bits, repacked MSB-first. Non-convergence is a soft
// failure: Decode still returns its last hard decision and the caller
// decides whether to accept it.
func (c *Codec) Decode(ctx context.Context, llrs []float64) ([]byte, error) {
	if len(llrs) != c.n {
		return nil, codec.NewOutOfRange("ldpc.Decode", "LLR vector length != N")
	}
	c.RecordDecodeOK()

	// varToCheckMsg[v][idx] is the message from variable v to its idx'th
	// adjacent check (ordered as in varToCheck[v]).
	varToCheckMsg := make([][]float64, c.n)
	for v := 0; v < c.n; v++ {
		varToCheckMsg[v] = make([]float64, len(c.varToCheck[v]))
		for i := range varToCheckMsg[v] {
			varToCheckMsg[v][i] = llrs[v]
		}
	}
	checkToVarMsg := make([][]float64, len(c.checkToVar))
	for ck := range c.checkToVar {
		checkToVarMsg[ck] = make([]float64, len(c.checkToVar[ck]))
	}

	hard := make([]byte, c.n)

	for iter := 0; iter < c.maxIter; iter++ {
		select {
		case <-ctxDone(ctx):
			c.RecordCancelled()
			return nil, codec.NewCancelled("ldpc.Decode", "cancelled during sum-product iteration")
		default:
		}

		// Check-node update, sequential so iteration order stays
		// canonical and testable.
		for ck, vars := range c.checkToVar {
			for idx := range vars {
				product := 1.0
				for j, other := range vars {
					if j == idx {
						continue
					}
					msg := incomingFromVar(varToCheckMsg, c.varToCheck, other, ck)
					product *= math.Tanh(msg / 2)
				}
				checkToVarMsg[ck][idx] = 2 * safeAtanh(product)
			}
		}

		// Variable-node update.
		maxChange := 0.0
		for v := 0; v < c.n; v++ {
			checks := c.varToCheck[v]
			total := llrs[v]
			incoming := make([]float64, len(checks))
			for i, ck := range checks {
				m := outgoingFromCheck(checkToVarMsg, c.checkToVar, ck, v)
				incoming[i] = m
				total += m
			}
			for i := range checks {
				newMsg := total - incoming[i]
				old := varToCheckMsg[v][i]
				if d := math.Abs(newMsg - old); d > maxChange {
					maxChange = d
				}
				varToCheckMsg[v][i] = newMsg
			}
			if total >= 0 {
				hard[v] = 0
			} else {
				hard[v] = 1
			}
		}

		if maxChange < c.convergenceEps {
			break
		}
	}

	return packBitsMSB(hard[:c.k]), nil
}

// incomingFromVar finds the message variable v sent toward check ck.
func incomingFromVar(varToCheckMsg [][]float64, varToCheck [][]int, v, ck int) float64 {
	for i, c := range varToCheck[v] {
		if c == ck {
			return varToCheckMsg[v][i]
		}
	}
	return 0
}

// outgoingFromCheck finds the message check ck sent toward variable v.
func outgoingFromCheck(checkToVarMsg [][]float64, checkToVar [][]int, ck, v int) float64 {
	for i, vv := range checkToVar[ck] {
		if vv == v {
			return checkToVarMsg[ck][i]
		}
	}
	return 0
}

func packBitsMSB(bits []byte) []byte {
	n := (len(bits) + 7) / 8
	out := make([]byte, n)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

func ctxDone(ctx context.Context) <-chan struct{} {
	if ctx == nil {
		return nil
	}
	return ctx.Done()
}
