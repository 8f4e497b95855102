package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaledTimeStep(t *testing.T) {
	assert.InDelta(t, 1.0, FsToNatural(HbarEVFs), 1e-15)
	assert.InDelta(t, 10.0, ScaledTimeStep(HbarEVFs, 10), 1e-12)
	assert.InDelta(t, 1.0, VelocitySquared(HbarEVFs*HbarEVFs), 1e-15)
}

func TestSiemens(t *testing.T) {
	assert.Equal(t, ConductanceQuantum, Siemens(1))
	assert.InDelta(t, 2*ConductanceQuantum, Siemens(2), 1e-20)
	assert.Zero(t, Siemens(0))
}
