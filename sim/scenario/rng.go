package scenario

import (
	"hash/fnv"
	"math/rand"
)

// RNG subsystems used by Generate. Each draws from its own stream so that,
// for example, changing the number of vehicles leaves parcel placement intact.
const (
	SubsystemArrivals  = "arrivals"
	SubsystemLocations = "locations"
	SubsystemWindows   = "windows"
	SubsystemFleet     = "fleet"
)

// partitionedRNG provides deterministic, isolated RNG instances per subsystem.
// Seeds are derived as seed XOR fnv1a64(subsystem).
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type partitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

func newPartitionedRNG(seed int64) *partitionedRNG {
	return &partitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// forSubsystem returns the cached RNG for name, creating it on first use.
func (p *partitionedRNG) forSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seed ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
