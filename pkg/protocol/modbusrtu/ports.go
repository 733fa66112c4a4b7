package modbusrtu

import (
	"go.bug.st/serial"
	"sort"
)

// Ports lists the serial devices present on this host.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	sort.Strings(ports)
	return ports, nil
}

func HasPort(device string) (bool, error) {
	ports, err := Ports()
	if err != nil {
		return false, err
	}
	i := sort.SearchStrings(ports, device)
	return i < len(ports) && ports[i] == device, nil
}
