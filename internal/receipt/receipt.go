// Package receipt stores payment receipt files and classifies the references
// kept on orders.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/schoolsupply/orderdesk/internal/enum"
)

// ErrUnsupportedType is returned for files that are not an image or PDF.
var ErrUnsupportedType = errors.New("receipt must be jpg, jpeg, png or pdf")

var allowedExt = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"pdf":  "application/pdf",
}

// Store persists a receipt and returns the reference to keep on the order.
type Store interface {
	Save(ctx context.Context, name, ext string, data []byte) (string, error)
}

// Ext returns the lowercase extension of filename if it is an accepted type.
func Ext(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := allowedExt[ext]; !ok {
		return "", ErrUnsupportedType
	}
	return ext, nil
}

// ContentType returns the MIME type for an accepted extension.
func ContentType(ext string) string {
	return allowedExt[ext]
}

// Name is the stored base name of receipt slot (1 or 2) of an order.
func Name(orderID string, slot int) string {
	return fmt.Sprintf("PED-%s-SOP%d", orderID, slot)
}

// Kind describes how a stored reference can be displayed.
type Kind string

const (
	// KindRemote references are URLs that can be shown directly.
	KindRemote Kind = "remote"
	// KindExpired references point to files from an older storage that no
	// longer resolve.
	KindExpired Kind = "expired"
	// KindAbsent means no file was ever attached.
	KindAbsent Kind = "absent"
)

// Classify returns the display kind of ref.
func Classify(ref string) Kind {
	ref = strings.TrimSpace(ref)
	switch {
	case strings.HasPrefix(ref, "http"):
		return KindRemote
	case IsAbsent(ref):
		return KindAbsent
	default:
		return KindExpired
	}
}

// IsAbsent reports whether ref is one of the sentinels meaning "no file".
func IsAbsent(ref string) bool {
	switch strings.TrimSpace(ref) {
	case "", "nan", enum.ReceiptAbsent, enum.ReceiptManual, "Manual/Presencial":
		return true
	}
	return false
}
