//go:build windows

package main

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// acquireSingleInstance holds a named Win32 mutex for the process
// lifetime, grounded on original_source/src-tauri/src/main.rs's
// tauri_plugin_single_instance use — the Go equivalent since no
// Tauri-style single-instance plugin exists in this corpus.
func acquireSingleInstance(name string) (release func(), ok bool, err error) {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, false, err
	}
	handle, err := windows.CreateMutex(nil, false, namePtr)
	if err != nil && err != windows.ERROR_ALREADY_EXISTS {
		return nil, false, fmt.Errorf("CreateMutex: %w", err)
	}
	if err == windows.ERROR_ALREADY_EXISTS {
		windows.CloseHandle(handle)
		return nil, false, nil
	}
	return func() { windows.CloseHandle(handle) }, true, nil
}
