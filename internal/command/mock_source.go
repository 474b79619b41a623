// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package command

import (
	"math"
	"time"

	"github.com/relabs-tech/quad_controller/internal/control"
)

type mockSource struct {
	start time.Time
}

// NewMockSource creates a mock pilot that flies a smooth pattern:
// a slow climb/descent cycle on the vertical axis and a gentler
// side-to-side sway on the roll axis.
func NewMockSource() control.CommandSource {
	return &mockSource{start: time.Now()}
}

func (m *mockSource) VerticalCommand() float64 {
	elapsed := time.Since(m.start).Seconds()
	return 0.6 * math.Sin(elapsed*0.3)
}

func (m *mockSource) RollCommand() float64 {
	elapsed := time.Since(m.start).Seconds()
	return 0.4 * math.Sin(elapsed*0.7)
}
