package profiles

import (
	"errors"
	"fmt"
	"strings"
)

// SpawnFunc creates the sensor described by cfg at primPath and returns the
// path it was created at.
type SpawnFunc func(cfg *PinholeCameraCfg, primPath string) (string, error)

// PinholeCameraCfg configures a pinhole camera sensor.
type PinholeCameraCfg struct {
	SensorTick float64      `cfg:"sensor_tick"`
	Height     int          `cfg:"height"`
	Width      int          `cfg:"width"`
	DataTypes  []string     `cfg:"data_types"`
	UsdParams  UsdCameraCfg `cfg:"usd_params"`
	Spawn      SpawnFunc    `cfg:"spawn_func"`
}

// UsdCameraCfg holds the USD camera prim attributes.
type UsdCameraCfg struct {
	ClippingRange      [2]float64 `cfg:"clipping_range"`
	FocalLength        float64    `cfg:"focal_length"`
	FocusDistance      float64    `cfg:"focus_distance"`
	HorizontalAperture float64    `cfg:"horizontal_aperture"`
	Projection         string     `cfg:"projection_type"`
}

// DefaultPinholeCamera returns the camera used by the camera demo.
func DefaultPinholeCamera() *PinholeCameraCfg {
	return &PinholeCameraCfg{
		Height:    480,
		Width:     640,
		DataTypes: []string{"rgb", "distance_to_image_plane", "normals", "motion_vectors"},
		UsdParams: UsdCameraCfg{
			ClippingRange:      [2]float64{0.1, 1.0e5},
			FocalLength:        24.0,
			FocusDistance:      400.0,
			HorizontalAperture: 20.955,
			Projection:         "pinhole",
		},
		Spawn: SpawnPinholeCamera,
	}
}

// SpawnPinholeCamera validates cfg and returns the prim path the camera
// would be created at.
func SpawnPinholeCamera(cfg *PinholeCameraCfg, primPath string) (string, error) {
	if !strings.HasPrefix(primPath, "/") {
		return "", fmt.Errorf("prim path %q is not absolute", primPath)
	}

	if cfg.Height <= 0 || cfg.Width <= 0 {
		return "", fmt.Errorf("invalid resolution %dx%d", cfg.Width, cfg.Height)
	}

	near, far := cfg.UsdParams.ClippingRange[0], cfg.UsdParams.ClippingRange[1]
	if near <= 0 || far <= near {
		return "", errors.New("clipping range must satisfy 0 < near < far")
	}

	return primPath, nil
}
