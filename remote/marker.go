package remote

import "bytes"

// Transfer markers: literal byte sequences written into the ongoing
// text stream to signal a switch into the binary transfer sub-protocol.
// The client's reader scans every incoming buffer for them.
var (
	downloadMarker = []byte("<<goshell:download>>")
	uploadMarker   = []byte("<<goshell:upload>>")
)

const (
	markerNone     = -1
	markerDownload = 0
	markerUpload   = 1
)

// markerScanner finds transfer markers in a byte stream read in
// arbitrary-sized chunks. A marker split across two reads is still
// detected: the scanner holds back any stream suffix that could be a
// marker prefix and re-examines it with the next chunk.
type markerScanner struct {
	markers [][]byte
	tail    []byte
	max     int
}

func newMarkerScanner() *markerScanner {
	s := &markerScanner{markers: [][]byte{downloadMarker, uploadMarker}}
	for _, m := range s.markers {
		if len(m) > s.max {
			s.max = len(m)
		}
	}
	return s
}

// scan consumes one chunk. It returns the bytes safe to surface as
// plain text, the detected marker (markerNone if none), and the
// unconsumed bytes following the marker, which belong to the transfer
// protocol and must be replayed ahead of the socket.
func (s *markerScanner) scan(p []byte) (plain []byte, marker int, rest []byte) {
	buf := append(s.tail, p...)
	s.tail = nil

	// Earliest full marker wins.
	marker = markerNone
	at := -1
	for i, m := range s.markers {
		if j := bytes.Index(buf, m); j >= 0 && (at < 0 || j < at) {
			at, marker = j, i
		}
	}
	if at >= 0 {
		return buf[:at], marker, buf[at+len(s.markers[marker]):]
	}

	// Hold back the longest suffix that could still grow into a marker.
	keep := s.max - 1
	if keep > len(buf) {
		keep = len(buf)
	}
	for ; keep > 0; keep-- {
		if s.couldBeMarkerPrefix(buf[len(buf)-keep:]) {
			break
		}
	}
	s.tail = append(s.tail, buf[len(buf)-keep:]...)
	return buf[:len(buf)-keep], markerNone, nil
}

// flush returns any held-back bytes; call when the stream ends.
func (s *markerScanner) flush() []byte {
	t := s.tail
	s.tail = nil
	return t
}

func (s *markerScanner) couldBeMarkerPrefix(p []byte) bool {
	for _, m := range s.markers {
		if len(p) < len(m) && bytes.Equal(p, m[:len(p)]) {
			return true
		}
	}
	return false
}
