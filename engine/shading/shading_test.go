package shading

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSunMask(t *testing.T) {
	p := Params{}

	// disc plus full bloom at the center, scanline cut is 1 at y = 0 and t = 0
	assert.InDelta(t, 1.6, Sun(0, 0, p), 1e-9)
	assert.InDelta(t, 0.0, Sun(0.8, 0, p), 1e-9, "outside the bloom radius")

	// between the disc edge and the bloom radius only bloom remains
	got := Sun(0.5, 0, p)
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 0.6)
}

func TestTriangleMask(t *testing.T) {
	p := Params{}

	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"far outside", -2, -2, 0},
		{"right of the hypotenuse", 1.4, 1.4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Triangle(tt.x, tt.y, p), 1e-9)
		})
	}

	for _, pt := range [][2]float64{{0, 0}, {0.5, 0.5}, {1, 1}, {0.2, 0.9}} {
		v := Triangle(pt[0], pt[1], p)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestScanlinesScrollWithTime(t *testing.T) {
	// a quarter wave turns the band at y = 0 fully off, leaving only bloom
	trough := 1.5 * math.Pi / (0.2 * (DefaultBattery + 0.02) * 100)
	assert.InDelta(t, 1.6, Sun(0, 0, Params{Time: 0}), 1e-9)
	assert.InDelta(t, 0.6, Sun(0, 0, Params{Time: trough}), 1e-9)
}

func TestBatteryDefault(t *testing.T) {
	assert.Equal(t, DefaultBattery, Params{}.battery())
	assert.Equal(t, 1.0, Params{Battery: 1}.battery())
	assert.Equal(t, Sun(0.1, -0.1, Params{Time: 2}), Sun(0.1, -0.1, Params{Time: 2, Battery: DefaultBattery}))
}

func TestShadeSunCenter(t *testing.T) {
	// the sun is centered at uv (-0.3, -0.3): lower left of the image
	c := Shade(0.35*512, 0.65*512, 512, 512, Params{})
	assert.InDelta(t, 3.2, c[0], 1e-9)
	assert.InDelta(t, 0.64, c[1], 1e-9)
	assert.InDelta(t, 0.16, c[2], 1e-9)
}

func TestShadeUVCorner(t *testing.T) {
	c := ShadeUV(-1, 1, Params{})
	assert.Equal(t, [3]float64{0, 0, 0}, c)
}

func TestRender(t *testing.T) {
	dc, err := Render(Params{}, 64, 48, WithWorkers(3))
	require.NoError(t, err)
	defer dc.Close()

	assert.Equal(t, 64, dc.Width())
	assert.Equal(t, 48, dc.Height())

	// sun center sits at (0.35w, 0.65h)
	width, height := 64, 48
	cx, cy := width*35/100, height*65/100
	r, g, b, a := dc.Image().At(cx, cy).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Equal(t, uint32(0xffff), r, "sun center saturates red")
	assert.Greater(t, g, b)

	r, g, b, _ = dc.Image().At(0, 0).RGBA()
	assert.Zero(t, r+g+b)
}

func TestRenderInvalidSize(t *testing.T) {
	_, err := Render(Params{}, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, Snapshot(path, Params{Time: 1}, 32, 32, WithWorkers(2)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
