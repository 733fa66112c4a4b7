package options

import (
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog/v2"
	"os"
	"rtugateway/pkg/protocol/modbusrtu"
	"rtugateway/pkg/protocol/modbusrtu/driver"
	"rtugateway/pkg/runtime/constant"
	"strconv"
	"strings"
)

var supportedParity = sets.NewString(
	constant.ParityToString[constant.NoParity],
	constant.ParityToString[constant.OddParity],
	constant.ParityToString[constant.EvenParity],
)

var supportedStopBits = sets.NewString(
	constant.StopBitsToString[constant.OneStopBit],
	constant.StopBitsToString[constant.TwoStopBits],
)

func Validate(o *Options) []error {
	errs := validate(o)
	if len(errs) == 0 {
		if err := o.BaseOptions.ApplyLogging(); err != nil {
			errs = append(errs, field.InternalError(field.NewPath("logging"), err))
		}
	}

	if ok, err := modbusrtu.HasPort(o.Serial.Device); err == nil && !ok {
		klog.InfoS("Serial device is not present yet", "device", o.Serial.Device)
	}

	out := make([]error, 0, len(errs))
	for _, err := range errs {
		out = append(out, err)
	}
	return out
}

func validate(o *Options) field.ErrorList {
	errs := o.BaseOptions.Validate()

	if port, err := strconv.ParseUint(o.Port, 10, 16); err != nil || port == 0 {
		errs = append(errs, field.Invalid(field.NewPath("port"), o.Port, "must be a TCP port number"))
	}
	if o.Wait.Duration < 0 {
		errs = append(errs, field.Invalid(field.NewPath("graceful-timeout"), o.Wait.Duration.String(), "must not be negative"))
	}
	if drivers := sets.NewString(driver.Names()...); !drivers.Has(o.Driver) {
		errs = append(errs, field.NotSupported(field.NewPath("driver"), o.Driver, drivers.List()))
	}
	if (len(o.CertFile) == 0) != (len(o.KeyFile) == 0) {
		errs = append(errs, field.Invalid(field.NewPath("certFile"), o.CertFile, "certFile and keyFile must be set together"))
	}

	errs = append(errs, validateSerial(&o.Serial, field.NewPath("serial"))...)

	mqttPath := field.NewPath("mqtt")
	if strings.ContainsAny(o.Mqtt.TopicPrefix, "#+") {
		errs = append(errs, field.Invalid(mqttPath.Child("topicPrefix"), o.Mqtt.TopicPrefix, "must not contain MQTT wildcards"))
	}
	if len(o.Mqtt.Broker) != 0 && !strings.Contains(o.Mqtt.Broker, "://") {
		errs = append(errs, field.Invalid(mqttPath.Child("broker"), o.Mqtt.Broker, "must be a URL such as tcp://host:1883"))
	}
	return errs
}

func validateSerial(s *SerialOptions, fldPath *field.Path) field.ErrorList {
	var errs field.ErrorList
	if len(s.Device) == 0 {
		errs = append(errs, field.Required(fldPath.Child("device"), ""))
	}
	if s.BaudRate <= 0 {
		errs = append(errs, field.Invalid(fldPath.Child("baudRate"), s.BaudRate, "must be greater than zero"))
	}
	if s.DataBits < 5 || s.DataBits > 8 {
		errs = append(errs, field.Invalid(fldPath.Child("dataBits"), s.DataBits, "must be between 5 and 8"))
	}
	if !supportedParity.Has(s.Parity.String()) {
		errs = append(errs, field.NotSupported(fldPath.Child("parity"), s.Parity.String(), supportedParity.List()))
	}
	if !supportedStopBits.Has(s.StopBits.String()) {
		errs = append(errs, field.NotSupported(fldPath.Child("stopBits"), s.StopBits.String(), supportedStopBits.List()))
	}
	if s.Timeout.Duration <= 0 {
		errs = append(errs, field.Invalid(fldPath.Child("timeout"), s.Timeout.Duration.String(), "must be greater than zero"))
	}
	if len(s.LockDir) != 0 {
		if info, err := os.Stat(s.LockDir); err != nil || !info.IsDir() {
			errs = append(errs, field.Invalid(fldPath.Child("lockDir"), s.LockDir, "must be an existing directory"))
		}
	}
	return errs
}
