package cleaner

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// ErrorReason categorizes why a deletion failed
type ErrorReason int

const (
	ErrorPermissionDenied ErrorReason = iota
	ErrorFileInUse
	ErrorFileNotFound
	ErrorInvalidPath
	ErrorSpecialFile
	ErrorUnknown
)

// String returns a human-readable error reason
func (e ErrorReason) String() string {
	switch e {
	case ErrorPermissionDenied:
		return "Permission denied"
	case ErrorFileInUse:
		return "File is in use"
	case ErrorFileNotFound:
		return "File not found"
	case ErrorInvalidPath:
		return "Invalid path"
	case ErrorSpecialFile:
		return "Special file"
	case ErrorUnknown:
		return "Unknown error"
	default:
		return "Unspecified error"
	}
}

var (
	// ErrUnsafePath marks a path the validator refused to delete.
	ErrUnsafePath = errors.New("unsafe path")
	// ErrSpecialFile marks a device, socket or named pipe left in place.
	ErrSpecialFile = errors.New("special file")
)

// DeletionError represents a detailed deletion error
type DeletionError struct {
	Path     string
	Reason   ErrorReason
	Original error
}

// Error implements the error interface
func (e *DeletionError) Error() string {
	return fmt.Sprintf("%s: %s (%v)", e.Path, e.Reason, e.Original)
}

func (e *DeletionError) Unwrap() error { return e.Original }

// UserMessage returns the one-line message shown for this failure.
func (e *DeletionError) UserMessage() string {
	switch e.Reason {
	case ErrorPermissionDenied:
		return fmt.Sprintf("Permission denied: %s", e.Path)
	case ErrorFileInUse:
		return fmt.Sprintf("File is being used: %s", e.Path)
	case ErrorFileNotFound:
		return fmt.Sprintf("Already deleted: %s", e.Path)
	case ErrorInvalidPath:
		return fmt.Sprintf("Refused unsafe path: %s", e.Path)
	case ErrorSpecialFile:
		return fmt.Sprintf("Skipped special file: %s", e.Path)
	default:
		return fmt.Sprintf("Failed to delete %s: %v", e.Path, e.Original)
	}
}

// CategorizeError analyzes an error and returns a categorized DeletionError
func CategorizeError(path string, err error) *DeletionError {
	if err == nil {
		return nil
	}

	delErr := &DeletionError{
		Path:     path,
		Original: err,
		Reason:   ErrorUnknown,
	}

	if errors.Is(err, ErrUnsafePath) {
		delErr.Reason = ErrorInvalidPath
		return delErr
	}

	if errors.Is(err, ErrSpecialFile) {
		delErr.Reason = ErrorSpecialFile
		return delErr
	}

	if os.IsNotExist(err) {
		delErr.Reason = ErrorFileNotFound
		return delErr
	}

	if os.IsPermission(err) {
		delErr.Reason = ErrorPermissionDenied
		return delErr
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM, syscall.EROFS:
			delErr.Reason = ErrorPermissionDenied
		case syscall.EBUSY, syscall.ETXTBSY:
			delErr.Reason = ErrorFileInUse
		case syscall.ENOENT:
			delErr.Reason = ErrorFileNotFound
		}
	}

	return delErr
}

// GroupErrors groups deletion errors by reason
func GroupErrors(errs []*DeletionError) map[ErrorReason][]*DeletionError {
	grouped := make(map[ErrorReason][]*DeletionError)
	for _, err := range errs {
		grouped[err.Reason] = append(grouped[err.Reason], err)
	}
	return grouped
}

// FormatErrorSummary renders a per-reason count of errs, or "" if empty.
func FormatErrorSummary(errs []*DeletionError) string {
	if len(errs) == 0 {
		return ""
	}

	grouped := GroupErrors(errs)

	var b strings.Builder
	b.WriteString("Issues encountered:\n")

	if perms, ok := grouped[ErrorPermissionDenied]; ok {
		fmt.Fprintf(&b, "  Permission denied: %d entries\n", len(perms))
	}
	if busy, ok := grouped[ErrorFileInUse]; ok {
		fmt.Fprintf(&b, "  In use: %d entries (close applications and retry)\n", len(busy))
	}
	if notFound, ok := grouped[ErrorFileNotFound]; ok {
		fmt.Fprintf(&b, "  Already deleted: %d entries\n", len(notFound))
	}
	if unsafe, ok := grouped[ErrorInvalidPath]; ok {
		fmt.Fprintf(&b, "  Refused as unsafe: %d entries\n", len(unsafe))
	}
	if special, ok := grouped[ErrorSpecialFile]; ok {
		fmt.Fprintf(&b, "  Special files skipped: %d entries\n", len(special))
	}
	if unknown, ok := grouped[ErrorUnknown]; ok {
		fmt.Fprintf(&b, "  Other errors: %d entries\n", len(unknown))
	}

	return b.String()
}
