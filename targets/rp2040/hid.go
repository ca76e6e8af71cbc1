//go:build rp2040 || rp2350

package main

import (
	"errors"
	"kbhooks/core"
	"machine/usb/hid/keyboard"
)

var errNoUsage = errors.New("keycode has no HID usage")

// USB HID keycode spaces of the TinyGo keyboard package
const (
	hidKeyMask      = 0xF000
	hidModifierMask = 0xE000
	hidConsumerMask = 0xE400
)

// consumerUsages maps consumer keycodes to HID consumer page usages.
var consumerUsages = map[core.Keycode]uint16{
	core.KC_MUTE: 0xE2,
	core.KC_VOLU: 0xE9,
	core.KC_VOLD: 0xEA,
	core.KC_MNXT: 0xB5,
	core.KC_MPRV: 0xB6,
	core.KC_MSTP: 0xB7,
	core.KC_MPLY: 0xCD,
	core.KC_EJCT: 0xB8,
	core.KC_MFFD: 0xB3,
	core.KC_MRWD: 0xB4,
	core.KC_BRIU: 0x6F,
	core.KC_BRID: 0x70,
}

type keyPort interface {
	Down(c keyboard.Keycode) error
	Up(c keyboard.Keycode) error
}

// USBKeyboard implements core.HIDReporter over the TinyGo USB keyboard.
type USBKeyboard struct {
	kb keyPort
}

func NewUSBKeyboard() *USBKeyboard {
	return &USBKeyboard{kb: keyboard.Port()}
}

func toHID(kc core.Keycode) (keyboard.Keycode, error) {
	switch {
	case kc.IsModifier():
		return keyboard.Keycode(hidModifierMask | uint16(kc.ModifierBit())), nil
	case kc.IsBasic():
		return keyboard.Keycode(hidKeyMask | uint16(kc)), nil
	case kc.IsConsumer():
		if usage, ok := consumerUsages[kc]; ok {
			return keyboard.Keycode(hidConsumerMask | usage), nil
		}
	}
	return 0, errNoUsage
}

func (k *USBKeyboard) KeyDown(kc core.Keycode) error {
	code, err := toHID(kc)
	if err != nil {
		return err
	}
	return k.kb.Down(code)
}

func (k *USBKeyboard) KeyUp(kc core.Keycode) error {
	code, err := toHID(kc)
	if err != nil {
		return err
	}
	return k.kb.Up(code)
}
