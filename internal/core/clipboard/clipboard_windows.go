//go:build windows

package clipboard

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	cfHDrop = 15 // CF_HDROP: list of file-system paths

	dragQueryCount = 0xFFFFFFFF
)

var (
	user32  = windows.NewLazySystemDLL("user32.dll")
	shell32 = windows.NewLazySystemDLL("shell32.dll")

	procOpenClipboard              = user32.NewProc("OpenClipboard")
	procCloseClipboard             = user32.NewProc("CloseClipboard")
	procGetClipboardData           = user32.NewProc("GetClipboardData")
	procIsClipboardFormatAvailable = user32.NewProc("IsClipboardFormatAvailable")

	procDragQueryFileW = shell32.NewProc("DragQueryFileW")
)

// hdropSource reads CF_HDROP payloads placed by Explorer's copy action.
type hdropSource struct{}

func nativeFileSource() FileSource {
	if err := procDragQueryFileW.Find(); err != nil {
		return nil
	}
	return hdropSource{}
}

func (hdropSource) Name() string { return "windows-hdrop" }

func (hdropSource) HasFiles() bool {
	ret, _, _ := procIsClipboardFormatAvailable.Call(cfHDrop)
	return ret != 0
}

// Open opens the clipboard once; contention with other processes surfaces as
// an error to the caller.
func (hdropSource) Open() (FileDrop, error) {
	ret, _, err := procOpenClipboard.Call(0) // 0: associate with the current task
	if ret == 0 {
		return nil, fmt.Errorf("OpenClipboard: %w", err)
	}
	return &hdrop{}, nil
}

// hdrop holds the clipboard open until Close.
type hdrop struct {
	closeOnce sync.Once
}

func (h *hdrop) Paths() ([]string, error) {
	handle, _, _ := procGetClipboardData.Call(cfHDrop)
	if handle == 0 {
		return nil, nil
	}

	count, _, _ := procDragQueryFileW.Call(handle, dragQueryCount, 0, 0)
	paths := make([]string, 0, count)
	for i := uintptr(0); i < count; i++ {
		n, _, _ := procDragQueryFileW.Call(handle, i, 0, 0)
		if n == 0 {
			continue
		}
		buf := make([]uint16, n+1)
		procDragQueryFileW.Call(handle, i, uintptr(unsafe.Pointer(&buf[0])), n+1)
		paths = append(paths, windows.UTF16ToString(buf[:n]))
	}
	return paths, nil
}

func (h *hdrop) Close() error {
	var err error
	h.closeOnce.Do(func() {
		ret, _, callErr := procCloseClipboard.Call()
		if ret == 0 {
			err = fmt.Errorf("CloseClipboard: %w", callErr)
		}
	})
	return err
}
