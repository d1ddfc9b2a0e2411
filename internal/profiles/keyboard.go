package profiles

// KeyboardState is the command buffer driven by an SE(3) keyboard.
type KeyboardState struct {
	CloseGripper bool
	DeltaPos     [3]float64 // x, y, z
	DeltaRot     [3]float64 // roll, pitch, yaw
}

// Se3KeyboardCfg configures a keyboard teleoperation device.
type Se3KeyboardCfg struct {
	PosSensitivity float64                         `cfg:"pos_sensitivity"`
	RotSensitivity float64                         `cfg:"rot_sensitivity"`
	Callbacks      map[string]func(*KeyboardState) `cfg:"callbacks"`
}

// DefaultSe3Keyboard returns the default bindings: L resets, K toggles the gripper.
func DefaultSe3Keyboard() *Se3KeyboardCfg {
	return &Se3KeyboardCfg{
		PosSensitivity: 0.4,
		RotSensitivity: 0.8,
		Callbacks: map[string]func(*KeyboardState){
			"L": ResetCommand,
			"K": ToggleGripper,
		},
	}
}

// Press runs the callback bound to key. It reports whether one was bound.
func (c *Se3KeyboardCfg) Press(key string, s *KeyboardState) bool {
	fn, ok := c.Callbacks[key]
	if !ok || fn == nil {
		return false
	}

	fn(s)

	return true
}

// ResetCommand clears the command buffer.
func ResetCommand(s *KeyboardState) {
	*s = KeyboardState{}
}

// ToggleGripper opens a closed gripper and closes an open one.
func ToggleGripper(s *KeyboardState) {
	s.CloseGripper = !s.CloseGripper
}
