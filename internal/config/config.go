package config

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/Sh00ty/hotspot-cpr/internal/models"
)

const (
	SystemSection = "System"

	keyRebootAfter  = "reboot_after_reset"
	keyRebootBefore = "reboot_before_reset"
	keyMaxDelta     = "max_delta"

	keyAddress = "address"
	keyToken   = "token"
	keyIP      = "ip"

	defaultMaxDelta = 6
)

// Error is a fatal configuration problem, the process must not start with it.
type Error struct {
	Section string
	Field   string
	Reason  string
}

func (e *Error) Error() string {
	switch {
	case e.Section == "":
		return "invalid configuration: " + e.Reason
	case e.Field == "":
		return fmt.Sprintf("invalid configuration: section %s: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s for hotspot %s: %s", e.Field, e.Section, e.Reason)
}

type Settings struct {
	Policy  models.Policy
	Devices []models.Device
}

// Load reads settings from a file path or raw ini bytes.
func Load(source any) (Settings, error) {
	file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, source)
	if err != nil {
		return Settings{}, &Error{Reason: fmt.Sprintf("failed to read settings: %v", err)}
	}
	return parse(file)
}

func parse(file *ini.File) (Settings, error) {
	policy, err := parsePolicy(file)
	if err != nil {
		return Settings{}, err
	}

	devices := make([]models.Device, 0, len(file.Sections()))
	for _, section := range file.Sections() {
		name := section.Name()
		if name == ini.DefaultSection || name == SystemSection {
			continue
		}
		device, err := parseDevice(section)
		if err != nil {
			return Settings{}, err
		}
		devices = append(devices, device)
	}
	if len(devices) == 0 {
		return Settings{}, &Error{Reason: "please configure some hotspots"}
	}
	return Settings{
		Policy:  policy,
		Devices: devices,
	}, nil
}

func parsePolicy(file *ini.File) (models.Policy, error) {
	policy := models.Policy{MaxDelta: defaultMaxDelta}
	section, err := file.GetSection(SystemSection)
	if err != nil {
		return policy, nil
	}

	if section.HasKey(keyRebootBefore) {
		policy.RebootBeforeReset, err = section.Key(keyRebootBefore).Bool()
		if err != nil {
			return models.Policy{}, &Error{Section: SystemSection, Reason: fmt.Sprintf("%s must be a boolean: %v", keyRebootBefore, err)}
		}
	}
	if section.HasKey(keyRebootAfter) {
		policy.RebootAfterReset, err = section.Key(keyRebootAfter).Bool()
		if err != nil {
			return models.Policy{}, &Error{Section: SystemSection, Reason: fmt.Sprintf("%s must be a boolean: %v", keyRebootAfter, err)}
		}
	}
	if section.HasKey(keyMaxDelta) {
		policy.MaxDelta, err = section.Key(keyMaxDelta).Int64()
		if err != nil {
			return models.Policy{}, &Error{Section: SystemSection, Reason: fmt.Sprintf("%s must be an integer: %v", keyMaxDelta, err)}
		}
		if policy.MaxDelta < 0 {
			return models.Policy{}, &Error{Section: SystemSection, Reason: keyMaxDelta + " must not be negative"}
		}
	}
	return policy, nil
}

func parseDevice(section *ini.Section) (models.Device, error) {
	fields := make(map[string]string, 3)
	for _, key := range []string{keyAddress, keyToken, keyIP} {
		value := strings.TrimSpace(section.Key(key).String())
		if value == "" {
			return models.Device{}, &Error{Section: section.Name(), Field: key, Reason: "not configured"}
		}
		fields[key] = value
	}
	return models.Device{
		Name:    models.DeviceName(section.Name()),
		Address: fields[keyAddress],
		IP:      fields[keyIP],
		Token:   fields[keyToken],
	}, nil
}
