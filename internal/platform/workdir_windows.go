//go:build windows

package platform

import (
	"encoding/binary"
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"
)

const ptrSize = unsafe.Sizeof(uintptr(0))

// Offsets into the PEB and RTL_USER_PROCESS_PARAMETERS for the caller's
// pointer width. They hold only when caller and target share a bitness.
var (
	pebParamsOffset   = pick(0x20, 0x10)
	paramsCwdOffset   = pick(0x38, 0x24)
	unicodeBufferSkip = pick(8, 4)
)

func pick(wide, narrow uintptr) uintptr {
	if ptrSize == 8 {
		return wide
	}
	return narrow
}

var errShortRead = errors.New("short read of process memory")

// pebReader reads CurrentDirectory.DosPath from the target's process
// parameters block.
type pebReader struct{}

func (pebReader) WorkingDirectory(pid uint32) (dir string, ok bool) {
	defer func() {
		if recover() != nil {
			dir, ok = "", false
		}
	}()

	h, err := openForRead(pid)
	if err != nil {
		return "", false
	}
	defer windows.CloseHandle(h)

	if !sameBitness(h) {
		return "", false
	}

	var pbi windows.PROCESS_BASIC_INFORMATION
	if err := windows.NtQueryInformationProcess(h, windows.ProcessBasicInformation,
		unsafe.Pointer(&pbi), uint32(unsafe.Sizeof(pbi)), nil); err != nil {
		return "", false
	}
	peb := uintptr(unsafe.Pointer(pbi.PebBaseAddress))
	if peb == 0 {
		return "", false
	}

	params, err := readPointer(h, peb+pebParamsOffset)
	if err != nil || params == 0 {
		return "", false
	}

	cwd, err := readUnicodeString(h, params+paramsCwdOffset)
	if err != nil || cwd == "" {
		return "", false
	}
	return trimDirectory(cwd), true
}

// openForRead asks for the widest rights first and falls back to the
// limited query right that protected processes still grant.
func openForRead(pid uint32) (windows.Handle, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, pid)
	if err == nil {
		return h, nil
	}
	return windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION|windows.PROCESS_VM_READ, false, pid)
}

func sameBitness(target windows.Handle) bool {
	var self, other bool
	if err := windows.IsWow64Process(windows.CurrentProcess(), &self); err != nil {
		return false
	}
	if err := windows.IsWow64Process(target, &other); err != nil {
		return false
	}
	return self == other
}

func readMemory(h windows.Handle, addr uintptr, size uintptr) ([]byte, error) {
	buf := make([]byte, size)
	var n uintptr
	if err := windows.ReadProcessMemory(h, addr, &buf[0], size, &n); err != nil {
		return nil, err
	}
	if n != size {
		return nil, errShortRead
	}
	return buf, nil
}

func readPointer(h windows.Handle, addr uintptr) (uintptr, error) {
	buf, err := readMemory(h, addr, ptrSize)
	if err != nil {
		return 0, err
	}
	if ptrSize == 8 {
		return uintptr(binary.LittleEndian.Uint64(buf)), nil
	}
	return uintptr(binary.LittleEndian.Uint32(buf)), nil
}

// readUnicodeString decodes a UNICODE_STRING: a byte length, a maximum
// length, then a pointer to the UTF-16 characters.
func readUnicodeString(h windows.Handle, addr uintptr) (string, error) {
	header, err := readMemory(h, addr, 2)
	if err != nil {
		return "", err
	}
	length := uintptr(binary.LittleEndian.Uint16(header))
	if length == 0 {
		return "", nil
	}

	buffer, err := readPointer(h, addr+unicodeBufferSkip)
	if err != nil || buffer == 0 {
		return "", err
	}

	raw, err := readMemory(h, buffer, length)
	if err != nil {
		return "", err
	}
	chars := make([]uint16, len(raw)/2)
	for i := range chars {
		chars[i] = binary.LittleEndian.Uint16(raw[2*i:])
	}
	return windows.UTF16ToString(chars), nil
}
