package models

import "fmt"

type DeviceName string

func (n DeviceName) String() string {
	return string(n)
}

// Device is a monitored hotspot. It is loaded once from settings and never changes.
type Device struct {
	Name    DeviceName
	Address string
	IP      string
	Token   string
}

func (d Device) String() string {
	return fmt.Sprintf("{name=%s, address=%s, ip=%s}", d.Name, d.Address, d.IP)
}

type Policy struct {
	RebootBeforeReset bool
	RebootAfterReset  bool
	MaxDelta          int64
}

func (p Policy) String() string {
	return fmt.Sprintf(
		"{reboot_before_reset=%t, reboot_after_reset=%t, max_delta=%d}",
		p.RebootBeforeReset,
		p.RebootAfterReset,
		p.MaxDelta,
	)
}
