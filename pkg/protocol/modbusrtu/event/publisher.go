package event

import (
	"context"
	"encoding/json"
	"fmt"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"k8s.io/klog/v2"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"rtugateway/pkg/utils/uuidutil"
	"time"
)

const (
	mqttTimeout   = 3 * time.Second
	mqttQos       = 1
	disconnectMs  = 2000
	defaultPrefix = "modbus/rtu"
)

type Config struct {
	Broker      string `json:"broker"`      // mqtt 地址, 为空时不发布
	ClientID    string `json:"clientId"`    // 客户端 id
	TopicPrefix string `json:"topicPrefix"` // 主题前缀
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
}

// WriteEvent is published once a write reached the slave.
type WriteEvent struct {
	Timestamp string                             `json:"timestamp"`
	Operation modbusrturuntime.OperationSelector `json:"operation"`
	Request   modbusrturuntime.ModbusRequest     `json:"request"`
}

// Publisher sends write acknowledgements to <prefix>/<slave>/<operation>.
type Publisher struct {
	client mqtt.Client
	prefix string
}

func NewPublisher(client mqtt.Client, prefix string) *Publisher {
	if len(prefix) == 0 {
		prefix = defaultPrefix
	}
	return &Publisher{client: client, prefix: prefix}
}

// Connect dials the broker named in cfg.
func Connect(cfg *Config) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	clientID := cfg.ClientID
	if len(clientID) == 0 {
		clientID = "rtugateway-" + uuidutil.ShortUUID()
	}
	opts.SetClientID(clientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetWriteTimeout(mqttTimeout)
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		klog.V(1).InfoS("Lost MQTT connection", "broker", cfg.Broker, "err", err)
	}

	client := mqtt.NewClient(opts)
	if err := tokenError(client.Connect(), mqttTimeout); err != nil {
		return nil, fmt.Errorf("connect mqtt broker %s: %w", cfg.Broker, err)
	}
	klog.V(2).InfoS("Connected to MQTT broker", "broker", cfg.Broker, "clientId", clientID)
	return NewPublisher(client, cfg.TopicPrefix), nil
}

func (p *Publisher) Topic(ack *modbusrturuntime.Ack) string {
	return fmt.Sprintf("%s/%d/%s", p.prefix, ack.Request.SlaveID, ack.Operation)
}

func (p *Publisher) Publish(ack *modbusrturuntime.Ack) {
	topic := p.Topic(ack)
	event := WriteEvent{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Operation: ack.Operation,
		Request:   ack.Request,
	}
	marshal, err := json.Marshal(event)
	if err != nil {
		klog.V(1).InfoS("Failed to marshal write event", "topic", topic, "err", err)
		return
	}

	if err := tokenError(p.client.Publish(topic, mqttQos, false, marshal), mqttTimeout); err != nil {
		klog.V(1).InfoS("Failed to publish MQTT", "topic", topic, "err", err)
		return
	}
	klog.V(5).InfoS("Succeed to publish MQTT", "topic", topic, "data", event)
}

// tokenError waits for token. A token still pending after timeout yields a
// timeout error, its own Error() being nil at that point.
func tokenError(token mqtt.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("timed out after %s", timeout)
	}
	return token.Error()
}

func (p *Publisher) Shutdown(_ context.Context) error {
	p.client.Disconnect(disconnectMs)
	return nil
}
