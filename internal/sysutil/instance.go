package sysutil

import "errors"

// ErrAlreadyRunning 另一个实例持有锁
var ErrAlreadyRunning = errors.New("another instance is already running")

// InstanceLock 进程级单实例锁，退出时必须 Release
type InstanceLock interface {
	Release() error
}

// AcquireInstanceLock 非阻塞获取名为 name 的独占锁。
// Unix 上是 stateDir 下的 flock 文件，Windows 上是命名互斥量。
func AcquireInstanceLock(stateDir, name string) (InstanceLock, error) {
	return acquireInstanceLock(stateDir, name)
}
