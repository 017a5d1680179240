package nes

// Button bits as returned by SetControllerState. The controller shifts them
// out MSB first, so A is read first and Right last.
type Button uint8

const (
	ButtonRight Button = 1 << iota
	ButtonLeft
	ButtonDown
	ButtonUp
	ButtonStart
	ButtonSelect
	ButtonB
	ButtonA
)

// Controller is a standard joypad behind $4016/$4017.
type Controller struct {
	buttons uint8
	shift   uint8
	strobe  bool
}

func (c *Controller) SetButtons(buttons uint8) {
	c.buttons = buttons
}

// Write handles the strobe bit. While strobe is high the shift register keeps
// reloading; the falling edge freezes the snapshot for serial reads.
func (c *Controller) Write(data uint8) {
	strobe := data&0x01 != 0
	if c.strobe || strobe {
		c.shift = c.buttons
	}
	c.strobe = strobe
}

// Read returns the next button bit in bit 0. After eight reads the register
// is drained and further reads return 1, like an official pad.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.shift = c.buttons
	}
	data := c.shift >> 7
	c.shift = c.shift<<1 | 0x01
	return data
}

func (c *Controller) Reset() {
	c.shift = 0
	c.strobe = false
}
