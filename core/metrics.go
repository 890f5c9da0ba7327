package core

import (
	"sort"
	"time"

	"github.com/rv32emu/rv32emu/isa"
)

// Metrics is an auxiliary, advisory record of execution statistics. It is
// not part of architectural state: the executor's writes to it never
// affect program semantics.
type Metrics struct {
	InstCount      uint64
	InstMix        map[isa.Kind]uint64
	BranchTaken    uint64
	BranchNotTaken uint64

	start time.Time
}

// NewMetrics returns an empty Metrics record.
func NewMetrics() *Metrics {
	return &Metrics{InstMix: make(map[isa.Kind]uint64)}
}

// Start records a wall-clock start time, used by MIPS.
func (m *Metrics) Start() {
	m.start = time.Now()
}

// RecordInstruction tallies one retired instruction.
func (m *Metrics) RecordInstruction(k isa.Kind) {
	m.InstCount++
	m.InstMix[k]++
}

// RecordBranch tallies a conditional branch outcome.
func (m *Metrics) RecordBranch(taken bool) {
	if taken {
		m.BranchTaken++
	} else {
		m.BranchNotTaken++
	}
}

// MIPS returns millions of instructions retired per second of wall-clock
// time since Start (that is, instructions per microsecond), or 0 if
// Start was never called or no time has elapsed.
func (m *Metrics) MIPS() float64 {
	if m.start.IsZero() {
		return 0
	}
	elapsed := time.Since(m.start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.InstCount) / elapsed / 1_000_000.0
}

// MixEntry is one row of the top instruction-mix table.
type MixEntry struct {
	Kind    isa.Kind
	Count   uint64
	Percent float64
}

// TopMix returns up to n instruction kinds ordered by descending retired
// count, each annotated with its percentage of InstCount.
func (m *Metrics) TopMix(n int) []MixEntry {
	entries := make([]MixEntry, 0, len(m.InstMix))
	for k, c := range m.InstMix {
		pct := 0.0
		if m.InstCount > 0 {
			pct = float64(c) / float64(m.InstCount) * 100
		}
		entries = append(entries, MixEntry{Kind: k, Count: c, Percent: pct})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Kind < entries[j].Kind
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// BranchTakenPercent returns the percentage of recorded branches that were
// taken, or 0 if no branches were recorded.
func (m *Metrics) BranchTakenPercent() float64 {
	total := m.BranchTaken + m.BranchNotTaken
	if total == 0 {
		return 0
	}
	return float64(m.BranchTaken) / float64(total) * 100
}
