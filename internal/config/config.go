// Package config loads pipeline tuning parameters from YAML: channel
// impairment probabilities, Reed-Solomon shortening, and LDPC iteration
// bounds.
//
// A zero-value Pipeline is valid: FillZeros backfills every zero field
// from Defaults(), so the pipeline never requires a config file to behave
// correctly in tests.
package config

import "gopkg.in/yaml.v3"

// Channel holds the impairment base probabilities and bounds.
type Channel struct {
	GaussianEtaMin          float64 `yaml:"gaussian_eta_min"`
	GaussianEtaMax          float64 `yaml:"gaussian_eta_max"`
	RandomBitProbMin        float64 `yaml:"random_bit_prob_min"`
	RandomBitProbMax        float64 `yaml:"random_bit_prob_max"`
	BurstMinBytes           int     `yaml:"burst_min_bytes"`
	BurstMaxBytes           int     `yaml:"burst_max_bytes"`
	BurstMinFlipsPerByte    int     `yaml:"burst_min_flips_per_byte"`
	BurstMaxFlipsPerByte    int     `yaml:"burst_max_flips_per_byte"`
	PacketLossSevereProb    float64 `yaml:"packet_loss_severe_prob"`
	PacketLossMinBytes      int     `yaml:"packet_loss_min_bytes"`
	PacketLossMaxBytes      int     `yaml:"packet_loss_max_bytes"`
	PacketLossMinorFlipProb float64 `yaml:"packet_loss_minor_flip_prob"`
}

// ReedSolomon holds the (N,K) shortening parameters.
type ReedSolomon struct {
	N int `yaml:"n"`
	K int `yaml:"k"`
}

// LDPC holds the sum-product decoder's bounds and code dimensions. N/K
// default to one frame's worth of bits (128 bytes = 1024 bits) at rate
// 7/8, so the orchestrator can feed an entire corrupted frame's LLRs
// through a single decode call.
type LDPC struct {
	MaxIterations  int     `yaml:"max_iterations"`
	ConvergenceEps float64 `yaml:"convergence_eps"`
	N              int     `yaml:"n"`
	K              int     `yaml:"k"`
}

// Pipeline is the top-level configuration document.
type Pipeline struct {
	Channel     Channel     `yaml:"channel"`
	ReedSolomon ReedSolomon `yaml:"reed_solomon"`
	LDPC        LDPC        `yaml:"ldpc"`
}

// Defaults returns the built-in defaults, used to backfill any
// zero-valued field of a partially-specified config.
func Defaults() Pipeline {
	return Pipeline{
		Channel: Channel{
			GaussianEtaMin:          0.1,
			GaussianEtaMax:          0.3,
			RandomBitProbMin:        0.002,
			RandomBitProbMax:        0.01,
			BurstMinBytes:           2,
			BurstMaxBytes:           4,
			BurstMinFlipsPerByte:    2,
			BurstMaxFlipsPerByte:    4,
			PacketLossSevereProb:    0.20,
			PacketLossMinBytes:      5,
			PacketLossMaxBytes:      9,
			PacketLossMinorFlipProb: 0.15,
		},
		ReedSolomon: ReedSolomon{N: 255, K: 223},
		LDPC:        LDPC{MaxIterations: 50, ConvergenceEps: 1e-6, N: 1024, K: 896},
	}
}

// Load parses a YAML document into a Pipeline, backfilling any zero
// fields from Defaults().
func Load(data []byte) (Pipeline, error) {
	p := Defaults()
	if len(data) == 0 {
		return p, nil
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pipeline{}, err
	}
	p.FillZeros()
	return p, nil
}

// FillZeros backfills every zero-valued field of p from Defaults(), in
// place. Exported so callers holding a Pipeline built by hand (rather
// than parsed via Load) — such as Orchestrator's constructor — can
// normalize a partially- or zero-valued config before it reaches a codec
// constructor that rejects zero parameters.
func (p *Pipeline) FillZeros() {
	d := Defaults()
	c := &p.Channel
	if c.GaussianEtaMin == 0 {
		c.GaussianEtaMin = d.Channel.GaussianEtaMin
	}
	if c.GaussianEtaMax == 0 {
		c.GaussianEtaMax = d.Channel.GaussianEtaMax
	}
	if c.RandomBitProbMin == 0 {
		c.RandomBitProbMin = d.Channel.RandomBitProbMin
	}
	if c.RandomBitProbMax == 0 {
		c.RandomBitProbMax = d.Channel.RandomBitProbMax
	}
	if c.BurstMinBytes == 0 {
		c.BurstMinBytes = d.Channel.BurstMinBytes
	}
	if c.BurstMaxBytes == 0 {
		c.BurstMaxBytes = d.Channel.BurstMaxBytes
	}
	if c.BurstMinFlipsPerByte == 0 {
		c.BurstMinFlipsPerByte = d.Channel.BurstMinFlipsPerByte
	}
	if c.BurstMaxFlipsPerByte == 0 {
		c.BurstMaxFlipsPerByte = d.Channel.BurstMaxFlipsPerByte
	}
	if c.PacketLossSevereProb == 0 {
		c.PacketLossSevereProb = d.Channel.PacketLossSevereProb
	}
	if c.PacketLossMinBytes == 0 {
		c.PacketLossMinBytes = d.Channel.PacketLossMinBytes
	}
	if c.PacketLossMaxBytes == 0 {
		c.PacketLossMaxBytes = d.Channel.PacketLossMaxBytes
	}
	if c.PacketLossMinorFlipProb == 0 {
		c.PacketLossMinorFlipProb = d.Channel.PacketLossMinorFlipProb
	}
	if p.ReedSolomon.N == 0 {
		p.ReedSolomon = d.ReedSolomon
	}
	if p.LDPC.MaxIterations == 0 {
		p.LDPC.MaxIterations = d.LDPC.MaxIterations
	}
	if p.LDPC.ConvergenceEps == 0 {
		p.LDPC.ConvergenceEps = d.LDPC.ConvergenceEps
	}
	if p.LDPC.N == 0 {
		p.LDPC.N = d.LDPC.N
	}
	if p.LDPC.K == 0 {
		p.LDPC.K = d.LDPC.K
	}
}
