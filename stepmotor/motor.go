// Package stepmotor drives a four-phase bipolar stepper over four
// gpio.Writer proxies, per spec.md §3/§4.F.
package stepmotor

import (
	"github.com/fedddot/mcu-client-go/gpio"
	"github.com/fedddot/mcu-client-go/protocol"
)

// Direction of a single step.
type Direction int

const (
	CW Direction = iota
	CCW
)

// coil names the four phase-table columns spec.md §3 assigns: LH, LL,
// RH, RL (left coil high/low drive, right coil high/low drive).
type coil int

const (
	coilLH coil = iota
	coilLL
	coilRH
	coilRL
	coilCount
)

// phase is one row of the drive table: the level each coil should be
// held at.
type phase [coilCount]protocol.State

// phaseTable is the canonical four-phase, full-step sequence for a
// bipolar stepper, per spec.md §4.F. The source's on-disk table
// duplicates phase 0 four times, which cannot drive a stepper; this is
// the corrected sequence the spec directs implementers to use instead.
var phaseTable = [4]phase{
	{coilLH: protocol.StateHigh, coilLL: protocol.StateLow, coilRH: protocol.StateHigh, coilRL: protocol.StateLow},
	{coilLH: protocol.StateLow, coilLL: protocol.StateHigh, coilRH: protocol.StateHigh, coilRL: protocol.StateLow},
	{coilLH: protocol.StateLow, coilLL: protocol.StateHigh, coilRH: protocol.StateLow, coilRL: protocol.StateHigh},
	{coilLH: protocol.StateHigh, coilLL: protocol.StateLow, coilRH: protocol.StateLow, coilRL: protocol.StateHigh},
}

// Motor is the FSM of spec.md §3: four output proxies, one per phase
// column, and an index into phaseTable. It does not own the proxies.
type Motor struct {
	coils [coilCount]gpio.Writer
	index int
}

// New validates that all four proxies are non-nil, applies phase 0, and
// returns the ready motor.
func New(lh, ll, rh, rl gpio.Writer) (*Motor, error) {
	if lh == nil || ll == nil || rh == nil || rl == nil {
		return nil, newNilProxyError()
	}
	m := &Motor{coils: [coilCount]gpio.Writer{coilLH: lh, coilLL: ll, coilRH: rh, coilRL: rl}}
	if err := m.applyPhase(0); err != nil {
		return nil, err
	}
	return m, nil
}

// Step advances the motor one phase in dir, applying the new phase to
// exactly the coils whose target level differs from the last phase.
func (m *Motor) Step(dir Direction) error {
	next := m.index
	if dir == CW {
		next = (next + 1) % len(phaseTable)
	} else {
		next = (next - 1 + len(phaseTable)) % len(phaseTable)
	}
	prev := phaseTable[m.index]
	target := phaseTable[next]
	for c := coil(0); c < coilCount; c++ {
		if prev[c] == target[c] {
			continue
		}
		if err := m.coils[c].SetState(target[c]); err != nil {
			return err
		}
	}
	m.index = next
	return nil
}

func (m *Motor) applyPhase(idx int) error {
	target := phaseTable[idx]
	for c := coil(0); c < coilCount; c++ {
		if err := m.coils[c].SetState(target[c]); err != nil {
			return err
		}
	}
	m.index = idx
	return nil
}
