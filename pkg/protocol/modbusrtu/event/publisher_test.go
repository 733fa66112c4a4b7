package event

import (
	"context"
	"encoding/json"
	"fmt"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"testing"
	"time"
)

type doneToken struct {
	err     error
	pending bool
}

func (t *doneToken) Wait() bool {
	return !t.pending
}

func (t *doneToken) WaitTimeout(_ time.Duration) bool {
	return !t.pending
}

func (t *doneToken) Error() error {
	return t.err
}

func (t *doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeMqtt struct {
	mqtt.Client
	published    []message
	err          error
	pending      bool
	disconnected bool
}

func (f *fakeMqtt) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.published = append(f.published, message{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return &doneToken{err: f.err, pending: f.pending}
}

func (f *fakeMqtt) Disconnect(_ uint) {
	f.disconnected = true
}

func TestPublish(t *testing.T) {
	client := &fakeMqtt{}
	p := NewPublisher(client, "")
	ack := &modbusrturuntime.Ack{
		Request:   modbusrturuntime.ModbusRequest{SlaveID: 4, Offset: 12, Count: 1},
		Operation: modbusrturuntime.WriteFloat,
		Accepted:  true,
	}

	assert.Equal(t, "modbus/rtu/4/WriteFloat", p.Topic(ack))
	p.Publish(ack)

	require.Len(t, client.published, 1)
	msg := client.published[0]
	assert.Equal(t, "modbus/rtu/4/WriteFloat", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.False(t, msg.retained)

	var event WriteEvent
	require.NoError(t, json.Unmarshal(msg.payload, &event))
	assert.Equal(t, modbusrturuntime.WriteFloat, event.Operation)
	assert.Equal(t, ack.Request, event.Request)
	_, err := time.Parse("2006-01-02T15:04:05.000Z", event.Timestamp)
	assert.NoError(t, err)
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	client := &fakeMqtt{err: fmt.Errorf("not connected")}
	p := NewPublisher(client, "plant/line1")

	ack := &modbusrturuntime.Ack{Operation: modbusrturuntime.WriteCoils, Accepted: true}
	assert.NotPanics(t, func() { p.Publish(ack) })
	assert.Equal(t, "plant/line1/0/WriteCoils", client.published[0].topic)

	require.NoError(t, p.Shutdown(context.Background()))
	assert.True(t, client.disconnected)
}

func TestTokenError(t *testing.T) {
	assert.NoError(t, tokenError(&doneToken{}, time.Millisecond))

	err := tokenError(&doneToken{err: fmt.Errorf("not connected")}, time.Millisecond)
	assert.EqualError(t, err, "not connected")

	err = tokenError(&doneToken{pending: true}, 5*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out after 5ms")
}

func TestPublishTimeoutIsNotFatal(t *testing.T) {
	client := &fakeMqtt{pending: true}
	p := NewPublisher(client, "")

	ack := &modbusrturuntime.Ack{Operation: modbusrturuntime.WriteCoil, Accepted: true}
	assert.NotPanics(t, func() { p.Publish(ack) })
	require.Len(t, client.published, 1)
}
