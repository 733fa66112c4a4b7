//go:build linux || darwin

package driver

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"testing"
)

type stubClient struct {
	modbusrturuntime.Client
	connectErr error
	connected  bool
}

func (c *stubClient) Connect() error {
	if c.connectErr != nil {
		return c.connectErr
	}
	c.connected = true
	return nil
}

func (c *stubClient) Disconnect() error {
	c.connected = false
	return nil
}

func (c *stubClient) Connected() bool {
	return c.connected
}

func TestWithPortLock(t *testing.T) {
	dir := t.TempDir()
	first := WithPortLock(&stubClient{}, "/dev/ttyUSB0", dir)
	second := WithPortLock(&stubClient{}, "/dev/ttyUSB0", dir)
	other := WithPortLock(&stubClient{}, "/dev/ttyUSB1", dir)

	require.NoError(t, first.Connect())
	assert.True(t, first.Connected())
	assert.FileExists(t, filepath.Join(dir, "LCK..ttyUSB0"))

	err := second.Connect()
	assert.ErrorIs(t, err, ErrPortBusy)
	assert.False(t, second.Connected())

	require.NoError(t, other.Connect())
	require.NoError(t, other.Disconnect())

	require.NoError(t, first.Disconnect())
	assert.False(t, first.Connected())
	require.NoError(t, second.Connect())
	require.NoError(t, second.Disconnect())
}

func TestWithPortLockReleasesOnConnectFailure(t *testing.T) {
	dir := t.TempDir()
	failing := WithPortLock(&stubClient{connectErr: fmt.Errorf("open: %w", modbusrturuntime.ErrIO)}, "/dev/ttyS0", dir)
	err := failing.Connect()
	assert.ErrorIs(t, err, modbusrturuntime.ErrIO)

	next := WithPortLock(&stubClient{}, "/dev/ttyS0", dir)
	require.NoError(t, next.Connect())
	require.NoError(t, next.Disconnect())
}

func TestWithPortLockDisabled(t *testing.T) {
	client := &stubClient{}
	assert.Same(t, client, WithPortLock(client, "/dev/ttyUSB0", ""))
}
