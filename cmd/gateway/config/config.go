package config

import (
	"rtugateway/pkg/protocol/modbusrtu"
	"rtugateway/pkg/protocol/modbusrtu/event"
)

type Config struct {
	Controller *modbusrtu.Controller
	Publisher  *event.Publisher
	CertFile   string
	KeyFile    string
}
