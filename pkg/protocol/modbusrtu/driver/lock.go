package driver

import (
	"github.com/pkg/errors"
	"os"
	"path/filepath"
	modbusrturuntime "rtugateway/pkg/protocol/modbusrtu/runtime"
	"rtugateway/pkg/utils/fileutil"
)

var ErrPortBusy = errors.New("serial port is locked by another process")

// lockedClient holds an exclusive lock file (LCK..<device>) while the port is
// open, so two gateways never drive the same line.
type lockedClient struct {
	modbusrturuntime.Client
	path string
	file *os.File
	lock fileutil.Releaser
}

// WithPortLock guards client with a lock file in dir. An empty dir disables
// locking.
func WithPortLock(client modbusrturuntime.Client, device, dir string) modbusrturuntime.Client {
	if len(dir) == 0 {
		return client
	}
	return &lockedClient{
		Client: client,
		path:   filepath.Join(dir, "LCK.."+filepath.Base(device)),
	}
}

func (c *lockedClient) Connect() error {
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return translate(err, "open lock file %s", c.path)
	}
	lock, err := fileutil.NewLock(f)
	if err != nil {
		_ = f.Close()
		return errors.Wrapf(ErrPortBusy, "lock %s: %v", c.path, err)
	}

	if err = c.Client.Connect(); err != nil {
		_ = lock.Release()
		_ = f.Close()
		return err
	}
	c.file, c.lock = f, lock
	return nil
}

func (c *lockedClient) Disconnect() error {
	err := c.Client.Disconnect()
	if c.lock != nil {
		_ = c.lock.Release()
		_ = c.file.Close()
		c.file, c.lock = nil, nil
	}
	return err
}
