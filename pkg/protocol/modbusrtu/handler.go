package modbusrtu

import (
	"encoding/json"
	"errors"
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"net/http"
	"rtugateway/pkg/apis/response"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"strconv"
)

// decodeBody keeps JSON numbers as json.Number so 64-bit values survive
// decoding without a round trip through float64.
func decodeBody(c *gin.Context, obj interface{}) error {
	if c.Request == nil || c.Request.Body == nil {
		return errors.New("invalid request")
	}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()
	return decoder.Decode(obj)
}

// portLister is swapped in tests.
var portLister = Ports

type readQuery struct {
	Offset uint16 `form:"offset"`
	Count  uint16 `form:"count,default=1"`
	Master string `form:"master"`
}

type writeBody struct {
	Offset uint16      `json:"offset"`
	Count  uint16      `json:"count"`
	Master string      `json:"master,omitempty"`
	Value  interface{} `json:"value"`
}

type arrayWriteBody struct {
	Offset uint16        `json:"offset"`
	Count  uint16        `json:"count"`
	Master string        `json:"master,omitempty"`
	Values []interface{} `json:"values"`
}

func InstallHandler(group *gin.RouterGroup, ctrl *Controller) {
	group.GET("/modbus/:slave/:operation", readValue(ctrl))
	group.PUT("/modbus/:slave/:operation", writeValue(ctrl))
	group.PUT("/modbus/:slave/:operation/array", writeValues(ctrl))
	group.GET("/operations", listOperations())
	group.GET("/ports", listPorts())
}

// target parses the slave id and the operation name of the path.
func target(c *gin.Context) (uint8, modbusrturuntime.OperationSelector, bool) {
	slave, err := strconv.ParseUint(c.Param("slave"), 10, 8)
	if err != nil {
		klog.V(2).InfoS("Failed to parse slave id", "slave", c.Param("slave"), "err", err)
		c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrRequestBody))
		return 0, 0, false
	}
	op, err := modbusrturuntime.ParseOperationSelector(c.Param("operation"))
	if err != nil {
		klog.V(2).InfoS("Failed to parse operation", "operation", c.Param("operation"), "err", err)
		c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrOperationNotFound(c.Param("operation"))))
		return 0, 0, false
	}
	return uint8(slave), op, true
}

func readValue(ctrl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		slave, op, ok := target(c)
		if !ok {
			return
		}
		var q readQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			klog.V(2).InfoS("Failed to parse query", "err", err)
			c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrRequestBody))
			return
		}

		req := &modbusrturuntime.ModbusRequest{SlaveID: slave, Offset: q.Offset, Count: q.Count, Master: q.Master}
		result, err := ctrl.DispatchRead(c.Request.Context(), req, op)
		if err != nil {
			abort(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func writeValue(ctrl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		slave, op, ok := target(c)
		if !ok {
			return
		}
		var body writeBody
		if err := decodeBody(c, &body); err != nil {
			klog.V(2).InfoS("Failed to parse write body", "err", err)
			c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrMalformedJSON))
			return
		}

		req := &modbusrturuntime.ModbusRequest{SlaveID: slave, Offset: body.Offset, Count: body.Count, Master: body.Master}
		ack, err := ctrl.DispatchWriteSingle(c.Request.Context(), req, body.Value, op)
		acknowledge(c, ack, err)
	}
}

func writeValues(ctrl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		slave, op, ok := target(c)
		if !ok {
			return
		}
		var body arrayWriteBody
		if err := decodeBody(c, &body); err != nil {
			klog.V(2).InfoS("Failed to parse write body", "err", err)
			c.JSON(http.StatusBadRequest, response.NewMultiError(response.ErrMalformedJSON))
			return
		}

		req := &modbusrturuntime.ModbusRequest{SlaveID: slave, Offset: body.Offset, Count: body.Count, Master: body.Master}
		ack, err := ctrl.DispatchWriteArray(c.Request.Context(), req, body.Values, op)
		acknowledge(c, ack, err)
	}
}

func acknowledge(c *gin.Context, ack *modbusrturuntime.Ack, err error) {
	if err != nil {
		abort(c, err)
		return
	}
	if !ack.Accepted {
		c.JSON(http.StatusConflict, ack)
		return
	}
	c.JSON(http.StatusOK, ack)
}

func listOperations() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, modbusrturuntime.Operations())
	}
}

func listPorts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ports, err := portLister()
		if err != nil {
			klog.V(2).InfoS("Failed to list serial ports", "err", err)
			c.JSON(http.StatusInternalServerError, response.NewMultiError(response.ErrSerialLine(err)))
			return
		}
		c.JSON(http.StatusOK, ports)
	}
}

// abort answers a dispatch failure with the status of its kind.
func abort(c *gin.Context, err error) {
	f, ok := IsFailure(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, response.NewMultiError(response.ErrSerialLine(err)))
		return
	}

	var body error
	switch f.Kind() {
	case KindBadArgument:
		body = response.ErrBadArgument(f)
	case KindForbidden:
		body = response.ErrSerialPortForbidden(f)
	case KindNotFound:
		body = response.ErrSerialPortUnavailable(f)
	case KindBadGateway:
		body = response.ErrSlaveException(f)
	default:
		body = response.ErrSerialLine(f)
	}
	c.JSON(f.StatusCode(), response.NewMultiError(body))
}
