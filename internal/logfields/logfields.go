package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyListID  = "list_id"
	KeyItemID  = "item_id"
	KeyDestID  = "dest_id"
	KeyRequest = "requested_id"
	KeyKey     = "key"
	KeyBackend = "backend"
	KeyPath    = "path"
	KeyCount   = "count"
	KeyMoved   = "moved"
	KeyDeleted = "deleted"
	KeyOp      = "op"
	KeyError   = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ListID(id string) slog.Attr  { return slog.String(KeyListID, id) }
func ItemID(id string) slog.Attr  { return slog.String(KeyItemID, id) }
func DestID(id string) slog.Attr  { return slog.String(KeyDestID, id) }
func Request(id string) slog.Attr { return slog.String(KeyRequest, id) }
func Key(k string) slog.Attr      { return slog.String(KeyKey, k) }
func Backend(b string) slog.Attr  { return slog.String(KeyBackend, b) }
func Path(p string) slog.Attr     { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr       { return slog.Int(KeyCount, n) }
func Moved(n int) slog.Attr       { return slog.Int(KeyMoved, n) }
func Deleted(n int) slog.Attr     { return slog.Int(KeyDeleted, n) }
func Op(name string) slog.Attr    { return slog.String(KeyOp, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
