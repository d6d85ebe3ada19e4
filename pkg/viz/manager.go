package viz

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"musicality/pkg/waveform"
)

const defaultCacheEntries = 512

// Manager computes lines for one peak buffer and memoizes them. The key
// covers every input of the computation, so a changed tempo, offset or
// viewport simply misses; nothing is invalidated explicitly.
type Manager struct {
	peaks      []float64
	lines      map[uint64]Line
	maxEntries int
	hits       int
	misses     int
	mu         sync.RWMutex
}

// NewManager wraps a read-only peak buffer.
func NewManager(peaks []float64) *Manager {
	return &Manager{
		peaks:      peaks,
		lines:      make(map[uint64]Line),
		maxEntries: defaultCacheEntries,
	}
}

// Line returns the geometry for req, computing it on a cache miss.
func (m *Manager) Line(req LineRequest) Line {
	key := cacheKey(req)

	m.mu.RLock()
	line, ok := m.lines[key]
	m.mu.RUnlock()
	if ok {
		m.mu.Lock()
		m.hits++
		m.mu.Unlock()
		return line
	}

	line = ComputeLine(m.peaks, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
	if len(m.lines) >= m.maxEntries {
		m.lines = make(map[uint64]Line)
	}
	m.lines[key] = line
	return line
}

// Precompute fills the cache for reqs on all CPUs.
func (m *Manager) Precompute(ctx context.Context, reqs []LineRequest) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, req := range reqs {
		req := req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m.Line(req)
			return nil
		})
	}
	return g.Wait()
}

// Stats returns cache hits, misses and the current entry count.
func (m *Manager) Stats() (hits, misses, entries int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits, m.misses, len(m.lines)
}

// Reset drops every memoized line.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = make(map[uint64]Line)
}

// ComputeLine runs the engine for one request without caching.
func ComputeLine(peaks []float64, req LineRequest) Line {
	cfg := req.Config
	bounds := waveform.ComputeBounds(req.Index, cfg)
	bars := waveform.GenerateBars(peaks, bounds, cfg.Width, cfg.Height, req.TargetBars,
		waveform.WithPreSong(req.Index, cfg.BeatOffset, cfg.ChunkDuration))

	return Line{
		Index:  req.Index,
		Bounds: bounds,
		Bars:   bars,
		Grid:   waveform.GenerateGrid(req.BeatsPerChunk, cfg.Width),
	}
}

func cacheKey(req LineRequest) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}

	writeInt(int64(req.Index))
	writeInt(int64(req.TargetBars))
	writeInt(int64(req.BeatsPerChunk))
	writeFloat(req.Config.Width)
	writeFloat(req.Config.Height)
	writeInt(int64(req.Config.SampleRate))
	writeFloat(req.Config.AudioDuration)
	writeFloat(req.Config.BeatOffset)
	writeFloat(req.Config.ChunkDuration)
	return h.Sum64()
}
