//go:build windows

package sysutil

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

type mutexLock struct {
	h windows.Handle
}

func acquireInstanceLock(_ string, name string) (InstanceLock, error) {
	p, err := windows.UTF16PtrFromString(`Local\` + name)
	if err != nil {
		return nil, err
	}
	h, err := windows.CreateMutex(nil, false, p)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		if h != 0 {
			windows.CloseHandle(h)
		}
		return nil, ErrAlreadyRunning
	}
	if err != nil {
		return nil, fmt.Errorf("create mutex: %w", err)
	}
	return &mutexLock{h: h}, nil
}

func (l *mutexLock) Release() error {
	if l.h == 0 {
		return nil
	}
	err := windows.CloseHandle(l.h)
	l.h = 0
	return err
}
