package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"path/filepath"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	lockMinPort = 20000
	lockMaxPort = 39999
)

// InstanceGuard keeps one timer per data directory so two processes never
// write the same progress slot.
type InstanceGuard struct {
	listener net.Listener
	address  string
	dataDir  string
}

// AcquireSingleInstance binds a localhost port derived from the app name and
// the data directory. Instances with different data directories may coexist.
func AcquireSingleInstance(appName, dataDir string) (*InstanceGuard, error) {
	cleanDir := ""
	if dataDir != "" {
		cleanDir = filepath.Clean(dataDir)
	}
	address := fmt.Sprintf("127.0.0.1:%d", lockPort(appName, cleanDir))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s holds %s", ErrAlreadyRunning, address, cleanDir)
	}
	return &InstanceGuard{listener: listener, address: address, dataDir: cleanDir}, nil
}

// Release frees the lock. Safe on a nil guard.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

// DataDir returns the data directory the lock protects.
func (guard *InstanceGuard) DataDir() string {
	if guard == nil {
		return ""
	}
	return guard.dataDir
}

func lockPort(appName, dataDir string) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	_, _ = hash.Write([]byte{0})
	_, _ = hash.Write([]byte(dataDir))
	span := uint32(lockMaxPort - lockMinPort + 1)
	return lockMinPort + int(hash.Sum32()%span)
}
