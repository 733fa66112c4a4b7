package options

import (
	"github.com/spf13/pflag"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"rtugateway/cmd/gateway/config"
	baseoptions "rtugateway/pkg/generic/options"
	"rtugateway/pkg/protocol/modbusrtu"
	"rtugateway/pkg/protocol/modbusrtu/driver"
	"rtugateway/pkg/protocol/modbusrtu/event"
	"rtugateway/pkg/runtime/constant"
	"strings"
	"time"
)

type SerialOptions struct {
	Device       string                `json:"device"`       // 串口
	BaudRate     int                   `json:"baudRate"`     // 波特率
	DataBits     int                   `json:"dataBits"`     // 数据位
	Parity       constant.Parity       `json:"parity"`       // 校验位
	StopBits     constant.StopBits     `json:"stopBits"`     // 停止位
	MemoryLayout constant.MemoryLayout `json:"memoryLayout"` // 字节序
	Timeout      metav1.Duration       `json:"timeout"`      // 单次事务超时
	LockDir      string                `json:"lockDir"`      // 串口锁文件目录, 为空时不加锁
}

type Options struct {
	Port     string          `json:"port"`
	Wait     metav1.Duration `json:"graceful-timeout"`
	Driver   string          `json:"driver"`
	Serial   SerialOptions   `json:"serial"`
	Mqtt     event.Config    `json:"mqtt"`
	CertFile string          `json:"certFile,omitempty"`
	KeyFile  string          `json:"keyFile,omitempty"`
	baseoptions.BaseOptions
}

const (
	_defaultPort     = "32200"
	_defaultWait     = 15 * time.Second
	_defaultDevice   = "/dev/ttyUSB0"
	_defaultBaudRate = 9600
	_defaultDataBits = 8
	_defaultTimeout  = 1 * time.Second
)

func NewDefaultOptions() *Options {
	return &Options{
		Port:   _defaultPort,
		Wait:   metav1.Duration{Duration: _defaultWait},
		Driver: driver.SimonVetter,
		Serial: SerialOptions{
			Device:       _defaultDevice,
			BaudRate:     _defaultBaudRate,
			DataBits:     _defaultDataBits,
			Parity:       constant.NoParity,
			StopBits:     constant.OneStopBit,
			MemoryLayout: constant.ABCD,
			Timeout:      metav1.Duration{Duration: _defaultTimeout},
		},
		BaseOptions: baseoptions.NewDefaultBaseOptions(),
	}
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Port, "port", "P", o.Port, "Port exposed")
	fs.DurationVar(&o.Wait.Duration, "graceful-timeout", o.Wait.Duration, "The duration for which the server gracefully wait for existing connections to finish - e.g. 15s or 1m")
	fs.StringVar(&o.Driver, "driver", o.Driver, "Modbus client library driving the serial line, one of: "+strings.Join(driver.Names(), ", "))
	fs.StringVar(&o.CertFile, "cert-file", o.CertFile, "TLS certificate file, serves HTTPS together with --key-file")
	fs.StringVar(&o.KeyFile, "key-file", o.KeyFile, "TLS private key file")

	fs.StringVar(&o.Serial.Device, "serial-device", o.Serial.Device, "Serial device shared by all slaves")
	fs.IntVar(&o.Serial.BaudRate, "serial-baud-rate", o.Serial.BaudRate, "Serial baud rate")
	fs.IntVar(&o.Serial.DataBits, "serial-data-bits", o.Serial.DataBits, "Serial data bits")
	fs.Var(&o.Serial.Parity, "serial-parity", "Serial parity, one of: noParity, oddParity, evenParity")
	fs.Var(&o.Serial.StopBits, "serial-stop-bits", "Serial stop bits, 1 or 2")
	fs.Var(&o.Serial.MemoryLayout, "memory-layout", "Byte and word order of multi-register values, one of: ABCD, BADC, CDAB, DCBA")
	fs.DurationVar(&o.Serial.Timeout.Duration, "serial-timeout", o.Serial.Timeout.Duration, "Timeout of one serial transaction")
	fs.StringVar(&o.Serial.LockDir, "serial-lock-dir", o.Serial.LockDir, "Directory of the LCK..<device> file held while the port is open, e.g. /var/lock. Empty disables locking")

	fs.StringVar(&o.Mqtt.Broker, "mqtt-broker", o.Mqtt.Broker, "MQTT broker receiving write events, e.g. tcp://127.0.0.1:1883. Empty disables publishing")
	fs.StringVar(&o.Mqtt.ClientID, "mqtt-client-id", o.Mqtt.ClientID, "MQTT client id, generated when empty")
	fs.StringVar(&o.Mqtt.TopicPrefix, "mqtt-topic-prefix", o.Mqtt.TopicPrefix, "Prefix of write event topics")
}

func (o *Options) Config() (*config.Config, error) {
	client, err := driver.New(o.Driver, &driver.Config{
		Device:       o.Serial.Device,
		BaudRate:     o.Serial.BaudRate,
		DataBits:     o.Serial.DataBits,
		Parity:       o.Serial.Parity,
		StopBits:     o.Serial.StopBits,
		MemoryLayout: o.Serial.MemoryLayout,
		Timeout:      o.Serial.Timeout.Duration,
	})
	if err != nil {
		return nil, err
	}
	client = driver.WithPortLock(client, o.Serial.Device, o.Serial.LockDir)

	c := &config.Config{
		CertFile: o.CertFile,
		KeyFile:  o.KeyFile,
	}

	var opts []modbusrtu.Option
	if len(o.Mqtt.Broker) != 0 {
		publisher, err := event.Connect(&o.Mqtt)
		if err != nil {
			return nil, err
		}
		c.Publisher = publisher
		opts = append(opts, modbusrtu.WithEventSink(publisher))
	}
	c.Controller = modbusrtu.NewController(client, opts...)

	return c, nil
}
