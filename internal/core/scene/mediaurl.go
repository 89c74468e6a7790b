package scene

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// maxTimestampSeconds is the largest whole-second count a time.Duration holds.
const maxTimestampSeconds = int64(math.MaxInt64 / int64(time.Second))

var (
	bareMediaID     = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	embeddedMediaID = regexp.MustCompile(`(?:[?&]v=|/embed/|youtu\.be/)([A-Za-z0-9_-]{11})`)
	collectionID    = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)
)

// MediaRef is the structured identifier extracted from a track source URL.
type MediaRef struct {
	MediaID      string
	CollectionID string
}

// Empty reports whether neither identifier could be extracted.
func (ref MediaRef) Empty() bool {
	return ref.MediaID == "" && ref.CollectionID == ""
}

// ParseMediaURL extracts the media id and optional collection id from a
// bare 11-character id or a watch, embed or short-link URL. The collection
// id is read independently of the path that produced the media id.
func ParseMediaURL(raw string) MediaRef {
	value := strings.TrimSpace(raw)
	var ref MediaRef
	if bareMediaID.MatchString(value) {
		ref.MediaID = value
		return ref
	}
	if match := embeddedMediaID.FindStringSubmatch(value); match != nil {
		ref.MediaID = match[1]
	}
	if match := collectionID.FindStringSubmatch(value); match != nil {
		ref.CollectionID = match[1]
	}
	return ref
}

// ParseTimestamp converts H:MM:SS, M:SS or SS into a duration.
func ParseTimestamp(raw string) (time.Duration, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("parse timestamp: empty value")
	}
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("parse timestamp %q: too many fields", raw)
	}

	var total int64
	for index, part := range parts {
		number, err := strconv.ParseInt(part, 10, 64)
		if err != nil || number < 0 {
			return 0, fmt.Errorf("parse timestamp %q: invalid field %q", raw, part)
		}
		if index > 0 && number >= 60 {
			return 0, fmt.Errorf("parse timestamp %q: field %q out of range", raw, part)
		}
		if total > (maxTimestampSeconds-number)/60 {
			return 0, fmt.Errorf("parse timestamp %q: too large", raw)
		}
		total = total*60 + number
	}
	return time.Duration(total) * time.Second, nil
}
