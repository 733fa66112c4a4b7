package modbusrtu

import (
	"context"
	"errors"
	"fmt"
	"k8s.io/klog/v2"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
)

var errNilRequest = fmt.Errorf("request is nil: %w", modbusrturuntime.ErrNullArgument)

// Sink receives the acknowledgement of every write that reached the slave.
type Sink interface {
	Publish(ack *modbusrturuntime.Ack)
}

type Option func(*Controller)

func WithEventSink(sink Sink) Option {
	return func(c *Controller) {
		c.sink = sink
	}
}

func WithGate(gate *Gate) Option {
	return func(c *Controller) {
		c.gate = gate
	}
}

// Controller is the single entry point to one serial line. Every operation
// takes the gate, opens the port, runs one primitive and closes the port again.
type Controller struct {
	gate   *Gate
	client modbusrturuntime.Client
	sink   Sink
}

func NewController(client modbusrturuntime.Client, opts ...Option) *Controller {
	c := &Controller{
		gate:   NewGate(),
		client: client,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Gate() *Gate {
	return c.gate
}

// DispatchRead returns a *ModbusResponse[T], *ModbusArrayResponse[T] or
// *ModbusStringResponse depending on op. Errors are always *Failure.
func (c *Controller) DispatchRead(ctx context.Context, req *modbusrturuntime.ModbusRequest, op modbusrturuntime.OperationSelector) (interface{}, error) {
	if req == nil {
		return nil, c.fail(CategoryNullArgument, op, nil, errNilRequest)
	}
	r, ok := readTable[op]
	if !ok {
		return nil, c.fail(CategoryNotSupported, op, req, fmt.Errorf("%s is not a read operation", op))
	}
	if err := r.validate(req); err != nil {
		return nil, c.fail(Classify(err), op, req, err)
	}

	var result interface{}
	err := c.exclusive(ctx, op, req, func() (err error) {
		result, err = r.read(c.client, *req)
		return err
	})
	if err != nil {
		return nil, err
	}
	klog.V(5).InfoS("Read modbus value", "operation", op, "slave", req.SlaveID, "offset", req.Offset, "result", result)
	return result, nil
}

// DispatchWriteSingle converts value to the width of op and writes it. A value
// that does not fit is answered with an Ack whose Accepted is false.
func (c *Controller) DispatchWriteSingle(ctx context.Context, req *modbusrturuntime.ModbusRequest, value interface{}, op modbusrturuntime.OperationSelector) (*modbusrturuntime.Ack, error) {
	if req == nil {
		return nil, c.fail(CategoryNullArgument, op, nil, errNilRequest)
	}
	w, ok := singleWriteTable[op]
	if !ok {
		return nil, c.fail(CategoryNotSupported, op, req, fmt.Errorf("%s is not a single value write operation", op))
	}
	if err := w.validate(req); err != nil {
		return nil, c.fail(Classify(err), op, req, err)
	}

	send, err := w.prepare(*req, value)
	if err != nil {
		return c.reject(req, op, err), nil
	}
	return c.write(ctx, req, op, send)
}

// DispatchWriteArray writes values to contiguous coils or registers starting at
// req.Offset. Nil or empty values are refused before the line is touched.
func (c *Controller) DispatchWriteArray(ctx context.Context, req *modbusrturuntime.ModbusRequest, values []interface{}, op modbusrturuntime.OperationSelector) (*modbusrturuntime.Ack, error) {
	if req == nil {
		return nil, c.fail(CategoryNullArgument, op, nil, errNilRequest)
	}
	w, ok := arrayWriteTable[op]
	if !ok {
		return nil, c.fail(CategoryNotSupported, op, req, fmt.Errorf("%s is not an array write operation", op))
	}
	if values == nil {
		return nil, c.fail(CategoryNullArgument, op, req, fmt.Errorf("values are nil: %w", modbusrturuntime.ErrNullArgument))
	}
	if err := w.validate(len(values)); err != nil {
		return nil, c.fail(Classify(err), op, req, err)
	}

	send, err := w.prepare(*req, values)
	if err != nil {
		return c.reject(req, op, err), nil
	}
	return c.write(ctx, req, op, send)
}

func (c *Controller) write(ctx context.Context, req *modbusrturuntime.ModbusRequest, op modbusrturuntime.OperationSelector, send sendFunc) (*modbusrturuntime.Ack, error) {
	err := c.exclusive(ctx, op, req, func() error {
		return send(c.client)
	})
	if err != nil {
		return nil, err
	}

	ack := &modbusrturuntime.Ack{
		Request:   *req,
		Operation: op,
		Accepted:  true,
	}
	if c.sink != nil {
		c.sink.Publish(ack)
	}
	return ack, nil
}

func (c *Controller) reject(req *modbusrturuntime.ModbusRequest, op modbusrturuntime.OperationSelector, err error) *modbusrturuntime.Ack {
	klog.V(2).InfoS("Rejected modbus write value", "operation", op, "slave", req.SlaveID, "offset", req.Offset, "error", err)
	return &modbusrturuntime.Ack{
		Request:   *req,
		Operation: op,
		Accepted:  false,
		Reason:    err.Error(),
	}
}

// exclusive runs fn while holding the gate and an open connection. The
// connection is closed and the gate released on every return path, panics
// included.
func (c *Controller) exclusive(ctx context.Context, op modbusrturuntime.OperationSelector, req *modbusrturuntime.ModbusRequest, fn func() error) (err error) {
	if err := c.gate.Enter(ctx); err != nil {
		return c.fail(CategoryCancelled, op, req, fmt.Errorf("gave up waiting for the serial line: %w", err))
	}
	defer c.gate.Leave()

	defer func() {
		if !c.client.Connected() {
			return
		}
		if derr := c.client.Disconnect(); derr != nil {
			klog.ErrorS(derr, "Failed to close serial port", "operation", op)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			err = c.fail(CategoryUnexpected, op, req, fmt.Errorf("panic: %v", r))
		}
	}()

	klog.V(4).InfoS("Dispatching modbus operation", "operation", op, "slave", req.SlaveID, "offset", req.Offset, "count", req.Count)
	if err := c.client.Connect(); err != nil {
		category := CategoryConnectionUnavailable
		if errors.Is(err, modbusrturuntime.ErrUnauthorized) {
			category = CategoryUnauthorized
		}
		return c.fail(category, op, req, err)
	}

	if err := fn(); err != nil {
		return c.fail(Classify(err), op, req, err)
	}
	return nil
}

func (c *Controller) fail(category Category, op modbusrturuntime.OperationSelector, req *modbusrturuntime.ModbusRequest, err error) *Failure {
	f := newFailure(category, op, req, err)
	klog.V(2).InfoS("Failed to dispatch modbus operation", "operation", op, "category", category, "error", err)
	return f
}
