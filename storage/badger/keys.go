package badger

// Key prefixes for different data types
const (
	clickRecordPrefix = "clk"
	scanStateKey      = "scan:state"
)

// makeClickKey generates the key for a path's click record.
// Format: prefix:path
func makeClickKey(path string) []byte {
	buf := make([]byte, 0, len(clickRecordPrefix)+1+len(path))
	buf = append(buf, clickRecordPrefix...)
	buf = append(buf, ':')
	return append(buf, path...)
}
